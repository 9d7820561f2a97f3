package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ArtifactSet identifies the persisted index artifacts for one run. It is
// recomputed from configuration on every run and never persisted.
type ArtifactSet struct {
	// RootPath is the directory holding the artifacts.
	RootPath string

	// PrimaryFile is the absolute path of the authoritative index database.
	PrimaryFile string

	// LogFilePattern is the glob matching rotating log files under RootPath.
	LogFilePattern string
}

// ClearResult reports what a Clear attempt accomplished. The orchestrator
// maps it onto a stage outcome.
type ClearResult struct {
	// RootMissing is true when RootPath does not exist. Not an error: it
	// means the service keeps its index elsewhere and there is nothing to
	// clear.
	RootMissing bool

	// PrimaryCleared is true when the primary file was renamed or deleted,
	// or was already absent.
	PrimaryCleared bool

	// PrimaryRenamed is true when the primary file was cleared by rename
	// rather than deletion.
	PrimaryRenamed bool

	// LogsRemoved and LogsFailed count the matched log files that were and
	// were not deleted.
	LogsRemoved int
	LogsFailed  int
}

// Store abstracts locating and clearing the index artifacts.
type Store interface {
	// Locate computes the artifact set from configuration. Pure: it never
	// touches the disk.
	Locate() ArtifactSet

	// Clear removes the artifacts. The primary file is always attempted
	// first — it is the authoritative index, and stale logs without it are
	// harmless. Rename to a .old suffix is preferred over deletion because
	// rename survives partially-open handles; deletion is the fallback.
	// Log file deletion is best-effort and continues past individual
	// failures. A non-nil error means the primary file could not be
	// cleared by either method; the error classifies via faults.Classify.
	Clear(ctx context.Context, set ArtifactSet) (ClearResult, error)
}

// fileStore implements Store against the real filesystem.
type fileStore struct {
	cfg    Config
	logger *slog.Logger
}

// NewStore returns a Store over the configured artifact paths.
func NewStore(cfg Config, logger *slog.Logger) Store {
	cfg.ApplyDefaults()
	return &fileStore{
		cfg:    cfg,
		logger: logger.With("component", "index"),
	}
}

// oldSuffix is appended to the primary file on rename-clearing.
const oldSuffix = ".old"

func (s *fileStore) Locate() ArtifactSet {
	return ArtifactSet{
		RootPath:       s.cfg.RootPath,
		PrimaryFile:    filepath.Join(s.cfg.RootPath, s.cfg.PrimaryFile),
		LogFilePattern: s.cfg.LogFilePattern,
	}
}

func (s *fileStore) Clear(ctx context.Context, set ArtifactSet) (ClearResult, error) {
	var res ClearResult

	if _, err := os.Stat(set.RootPath); errors.Is(err, fs.ErrNotExist) {
		res.RootMissing = true
		s.logger.Info("index root missing, nothing to clear", "root", set.RootPath)
		return res, nil
	}

	if err := s.clearPrimary(set.PrimaryFile, &res); err != nil {
		return res, fmt.Errorf("index: clear primary %s: %w", set.PrimaryFile, err)
	}

	s.clearLogs(ctx, set, &res)
	return res, nil
}

// clearPrimary removes the authoritative database file: rename first, then
// delete. An already-absent primary counts as cleared.
func (s *fileStore) clearPrimary(primary string, res *ClearResult) error {
	if _, err := os.Stat(primary); errors.Is(err, fs.ErrNotExist) {
		res.PrimaryCleared = true
		return nil
	}

	renameErr := os.Rename(primary, primary+oldSuffix)
	if renameErr == nil {
		res.PrimaryCleared = true
		res.PrimaryRenamed = true
		s.logger.Info("primary index file renamed", "path", primary)
		return nil
	}

	if removeErr := os.Remove(primary); removeErr != nil {
		// Report the rename failure: it carries the more useful
		// classification (a locked or denied file fails both ways).
		return renameErr
	}
	res.PrimaryCleared = true
	s.logger.Info("primary index file deleted", "path", primary, "rename_error", renameErr)
	return nil
}

// clearLogs deletes every file matching the log pattern, continuing past
// individual failures.
func (s *fileStore) clearLogs(ctx context.Context, set ArtifactSet, res *ClearResult) {
	matches, err := filepath.Glob(filepath.Join(set.RootPath, set.LogFilePattern))
	if err != nil {
		s.logger.Warn("log file pattern invalid", "pattern", set.LogFilePattern, "error", err)
		return
	}

	for _, path := range matches {
		if ctx.Err() != nil {
			res.LogsFailed++
			continue
		}
		if err := os.Remove(path); err != nil {
			res.LogsFailed++
			s.logger.Warn("log file not removed", "path", path, "error", err)
			continue
		}
		res.LogsRemoved++
	}

	s.logger.Info("log files cleared",
		"root", set.RootPath,
		"removed", res.LogsRemoved,
		"failed", res.LogsFailed,
	)
}
