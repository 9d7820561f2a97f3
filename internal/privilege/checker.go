// Package privilege abstracts process privilege checking so components that
// escalate or mutate system state can be tested under both elevated and
// non-elevated execution without touching process-wide state.
package privilege

import "golang.org/x/sys/unix"

// Checker reports whether the current process runs with elevated privilege.
type Checker interface {
	// Elevated returns true if the process can reassign ownership and
	// control system services.
	Elevated() bool
}

// euidChecker implements Checker using the real effective UID.
type euidChecker struct{}

// NewChecker returns a Checker backed by the real process credentials.
func NewChecker() Checker {
	return euidChecker{}
}

func (euidChecker) Elevated() bool {
	return unix.Geteuid() == 0
}

// Static is a fixed-answer Checker, useful for wiring and tests.
type Static bool

// Elevated returns the fixed answer.
func (s Static) Elevated() bool { return bool(s) }
