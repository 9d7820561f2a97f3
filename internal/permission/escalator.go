// Package permission implements ownership takeover for paths whose access
// was denied to the remediation pipeline.
package permission

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/LindsayRex/searchfix/internal/faults"
	"github.com/LindsayRex/searchfix/internal/privilege"
)

// Escalator abstracts taking ownership of a filesystem path so a denied
// operation can be retried. Used only after a permission-denied failure.
type Escalator interface {
	// TakeOwnership recursively reassigns ownership of path and its
	// descendants to the current principal and grants the owner full
	// control. Idempotent: an already-owned tree succeeds trivially.
	// Fails with faults.ErrEscalationDenied if the caller itself lacks
	// the rights to reassign ownership.
	TakeOwnership(ctx context.Context, path string) error
}

// chownEscalator implements Escalator with recursive chown/chmod.
type chownEscalator struct {
	priv   privilege.Checker
	logger *slog.Logger
}

// NewEscalator returns an Escalator backed by real filesystem ownership
// calls. The privilege checker is an explicit capability so tests can
// simulate non-elevated execution.
func NewEscalator(priv privilege.Checker, logger *slog.Logger) Escalator {
	return &chownEscalator{
		priv:   priv,
		logger: logger.With("component", "permission"),
	}
}

func (e *chownEscalator) TakeOwnership(ctx context.Context, path string) error {
	if !e.priv.Elevated() {
		return fmt.Errorf("permission: take ownership of %s: %w", path, faults.ErrEscalationDenied)
	}

	uid := unix.Geteuid()
	gid := unix.Getegid()

	var taken int
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.claim(p, d, uid, gid); err != nil {
			return err
		}
		taken++
		return nil
	})
	if err != nil {
		return fmt.Errorf("permission: take ownership of %s: %w", path, err)
	}

	e.logger.Info("ownership taken", "path", path, "entries", taken, "uid", uid)
	return nil
}

// claim reassigns one entry to uid:gid and widens its owner bits to full
// control, preserving the group/other bits as they were.
func (e *chownEscalator) claim(path string, d fs.DirEntry, uid, gid int) error {
	if err := unix.Chown(path, uid, gid); err != nil {
		return fmt.Errorf("chown %s: %w", path, err)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	mode := info.Mode().Perm() | 0o600
	if d.IsDir() {
		mode |= 0o700
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
