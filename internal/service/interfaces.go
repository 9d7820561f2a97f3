package service

import "context"

// RunState is the observed run state of the target service.
type RunState string

// Run states reported by Query.
const (
	Stopped RunState = "stopped"
	Running RunState = "running"
	Unknown RunState = "unknown"
)

// StartupMode is the policy governing whether/when the service is started at boot.
type StartupMode string

// Startup modes.
const (
	Disabled         StartupMode = "disabled"
	Manual           StartupMode = "manual"
	Automatic        StartupMode = "automatic"
	AutomaticDelayed StartupMode = "automatic-delayed"
)

// State is a point-in-time snapshot of the target service. It is read fresh
// at every use and never cached across pipeline stages: the service manager
// can change the service's state outside this tool's control at any moment.
type State struct {
	Name    string
	Run     RunState
	Startup StartupMode
}

// Controller abstracts querying, stopping, and starting a named OS-managed
// service. Stop and Start are best-effort requests, not transactions — the
// service manager is the source of truth, and callers must follow up with
// Query rather than assume success.
type Controller interface {
	// Query returns a fresh snapshot of the named service. It fails with
	// faults.ErrNotFound if the service is not registered; a merely stopped
	// service is never an error.
	Query(ctx context.Context, name string) (State, error)

	// Stop requests a stop. If the service does not respond within the
	// configured stop timeout the call returns an error classifying as
	// faults.ErrTimeout rather than blocking indefinitely. When forced is
	// true the stop request is followed by a kill signal.
	Stop(ctx context.Context, name string, forced bool) error

	// Start attempts the primary start mechanism. Callers decide whether a
	// failure warrants StartAlternate; the two paths are never merged here.
	Start(ctx context.Context, name string) error

	// StartAlternate attempts the low-level start mechanism: launching the
	// service binary directly, detached from this process. It uses a
	// different privilege/IPC channel than Start and reports its own errors.
	StartAlternate(ctx context.Context, name string) error

	// EnableAutomatic requests plain automatic startup through the service
	// manager's coarse startup-mode API. Used as the fallback when the
	// fine-grained delayed-start store is unavailable.
	EnableAutomatic(ctx context.Context, name string) error
}
