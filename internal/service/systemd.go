package service

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"

	"github.com/LindsayRex/searchfix/internal/faults"
	"github.com/LindsayRex/searchfix/internal/privilege"
)

// systemdController implements Controller using systemctl and direct binary
// execution. State is read through `systemctl show` properties — a stable
// key=value interface — never by parsing human-readable output.
type systemdController struct {
	cfg    Config
	priv   privilege.Checker
	logger *slog.Logger
}

// NewSystemdController returns a Controller backed by the real systemctl
// binary. The privilege checker is consulted before operations that require
// elevation so denials classify cleanly instead of surfacing exec noise.
func NewSystemdController(cfg Config, priv privilege.Checker, logger *slog.Logger) Controller {
	cfg.ApplyDefaults()
	return &systemdController{
		cfg:    cfg,
		priv:   priv,
		logger: logger.With("component", "service"),
	}
}

func (c *systemdController) Query(ctx context.Context, name string) (State, error) {
	out, err := exec.CommandContext(ctx, "systemctl", "show",
		"--property=LoadState,ActiveState,UnitFileState", name+".service").Output()
	if err != nil {
		return State{}, fmt.Errorf("service: query %s: %w", name, err)
	}

	props := parseProperties(string(out))
	if props["LoadState"] == "not-found" {
		return State{}, fmt.Errorf("service: query %s: %w", name, faults.ErrNotFound)
	}

	st := State{Name: name, Run: runStateOf(props["ActiveState"])}
	st.Startup = startupModeOf(props["UnitFileState"])
	return st, nil
}

func (c *systemdController) Stop(ctx context.Context, name string, forced bool) error {
	stopCtx, cancel := context.WithTimeout(ctx, c.cfg.StopTimeout)
	defer cancel()

	if err := c.run(stopCtx, "stop", name+".service"); err != nil {
		if stopCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("service: stop %s: %w", name, faults.ErrTimeout)
		}
		return fmt.Errorf("service: stop %s: %w", name, c.classify(err))
	}

	if forced {
		// Follow the polite stop with a kill in case the main process is
		// stuck in a state where it ignores the stop request.
		if err := c.run(ctx, "kill", "--signal=SIGKILL", name+".service"); err != nil {
			c.logger.Warn("forced kill after stop failed", "service", name, "error", err)
		}
	}
	return nil
}

func (c *systemdController) Start(ctx context.Context, name string) error {
	if err := c.run(ctx, "start", name+".service"); err != nil {
		return fmt.Errorf("service: start %s: %w", name, c.classify(err))
	}
	return nil
}

// StartAlternate launches the service binary directly in its own session,
// bypassing the service manager entirely. The child is fully detached: it
// keeps running after this process exits and is owned by init, not by us.
func (c *systemdController) StartAlternate(ctx context.Context, name string) error {
	if !c.priv.Elevated() {
		return fmt.Errorf("service: start-alternate %s: %w", name, faults.ErrPermissionDenied)
	}

	cmd := exec.Command(c.cfg.BinaryPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("service: start-alternate %s: %w", name, c.classify(err))
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		c.logger.Warn("release detached process", "service", name, "error", err)
	}

	c.logger.Info("service started via direct execution", "service", name, "pid", pid)
	return nil
}

func (c *systemdController) EnableAutomatic(ctx context.Context, name string) error {
	if err := c.run(ctx, "enable", name+".service"); err != nil {
		return fmt.Errorf("service: enable %s: %w", name, c.classify(err))
	}
	return nil
}

func (c *systemdController) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}

// classify maps a systemctl failure onto the error taxonomy. Exit code 4 is
// systemctl's "no such unit" (LSB: program or service status unknown);
// permission failures from an unprivileged caller classify as denied.
func (c *systemdController) classify(err error) error {
	switch {
	case faults.ExitCodeOf(err) == 4:
		return faults.ErrNotFound
	case !c.priv.Elevated():
		return fmt.Errorf("%w: %w", faults.ErrPermissionDenied, err)
	}
	if classified := faults.Classify(err); classified != nil {
		return classified
	}
	return err
}

// parseProperties parses `systemctl show` key=value output.
func parseProperties(out string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok {
			props[key] = value
		}
	}
	return props
}

func runStateOf(active string) RunState {
	switch active {
	case "active", "reloading", "refreshing":
		return Running
	case "inactive", "failed", "deactivating":
		return Stopped
	default:
		return Unknown
	}
}

func startupModeOf(unitFileState string) StartupMode {
	switch unitFileState {
	case "enabled", "enabled-runtime", "alias":
		return Automatic
	case "masked", "masked-runtime":
		return Disabled
	default:
		// static, disabled, linked, indirect — startable only on demand.
		return Manual
	}
}
