// Package faults defines the error taxonomy shared by all remediation
// components. Leaf components return OS-level errors wrapped with context;
// Classify maps them onto the small set of sentinels the orchestrator
// branches on, so no caller ever matches on error text.
package faults

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
)

// Sentinel errors for remediation failure classes.
var (
	// ErrNotFound means the target service or path is absent. Often benign.
	ErrNotFound = errors.New("target not found")

	// ErrPermissionDenied means an operation was denied by the OS.
	// Triggers the ownership-escalation fallback exactly once.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTimeout means an OS call did not complete in bounded time.
	ErrTimeout = errors.New("operation timed out")

	// ErrStoreMissing means the startup-configuration store path is absent.
	// Triggers the coarse startup-mode fallback.
	ErrStoreMissing = errors.New("configuration store missing")

	// ErrRepairUnavailable means the administrative repair interface could
	// not be reached. Normal, handled condition.
	ErrRepairUnavailable = errors.New("repair interface unavailable")

	// ErrEscalationDenied means the process itself lacks the rights to
	// reassign ownership.
	ErrEscalationDenied = errors.New("escalation denied")
)

// Classify maps err onto the taxonomy sentinel it belongs to. Errors already
// carrying a sentinel (via wrapping) are returned as that sentinel. Native OS
// errors are translated by kind. Unclassifiable errors return nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrStoreMissing),
		errors.Is(err, ErrRepairUnavailable),
		errors.Is(err, ErrEscalationDenied):
		return sentinelOf(err)
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	return nil
}

func sentinelOf(err error) error {
	for _, s := range []error{
		ErrNotFound,
		ErrPermissionDenied,
		ErrTimeout,
		ErrStoreMissing,
		ErrRepairUnavailable,
		ErrEscalationDenied,
	} {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}

// IsNotFound reports whether err classifies as ErrNotFound.
func IsNotFound(err error) bool {
	return Classify(err) == ErrNotFound
}

// IsPermissionDenied reports whether err classifies as ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return Classify(err) == ErrPermissionDenied
}

// IsTimeout reports whether err classifies as ErrTimeout.
func IsTimeout(err error) bool {
	return Classify(err) == ErrTimeout
}

// IsStoreMissing reports whether err classifies as ErrStoreMissing.
func IsStoreMissing(err error) bool {
	return Classify(err) == ErrStoreMissing
}

// IsRepairUnavailable reports whether err classifies as ErrRepairUnavailable.
func IsRepairUnavailable(err error) bool {
	return Classify(err) == ErrRepairUnavailable
}

// ExitCodeOf extracts the process exit code from an exec error, or -1 if err
// did not come from a completed process.
func ExitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
