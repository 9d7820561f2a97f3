package startupconf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/LindsayRex/searchfix/internal/faults"
	"github.com/LindsayRex/searchfix/internal/fsutil"
	"github.com/LindsayRex/searchfix/internal/service"
)

// Store abstracts the persisted key-value area controlling the target
// service's startup mode.
type Store interface {
	// SetStartupMode writes the settings that encode the given mode for the
	// named service as one logical write. It fails with
	// faults.ErrStoreMissing when the configuration area does not exist on
	// this host; callers fall back to the service manager's coarse
	// startup-mode API.
	SetStartupMode(ctx context.Context, serviceName string, mode service.StartupMode) error
}

// serviceEntry is the per-service section of the settings file. The mode is
// encoded as two values: a start-mode string and a delayed-start flag. Both
// are written together — a partial pair would leave the service manager
// reading an inconsistent policy.
type serviceEntry struct {
	StartMode    string `yaml:"start_mode"`
	DelayedStart bool   `yaml:"delayed_start"`
}

// fileStore implements Store over a YAML settings file.
type fileStore struct {
	cfg    Config
	logger *slog.Logger
}

// NewStore returns a Store over the configured settings file.
func NewStore(cfg Config, logger *slog.Logger) Store {
	cfg.ApplyDefaults()
	return &fileStore{
		cfg:    cfg,
		logger: logger.With("component", "startupconf"),
	}
}

func (s *fileStore) SetStartupMode(ctx context.Context, serviceName string, mode service.StartupMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("startupconf: set startup mode: %w", err)
	}

	if _, err := os.Stat(s.cfg.StoreDir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("startupconf: store %s: %w", s.cfg.StoreDir, faults.ErrStoreMissing)
	}

	entries, err := s.load()
	if err != nil {
		return fmt.Errorf("startupconf: set startup mode: %w", err)
	}

	startMode, delayed := encodeMode(mode)
	entries[serviceName] = serviceEntry{StartMode: startMode, DelayedStart: delayed}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("startupconf: encode settings: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.cfg.StoreDir, s.cfg.StoreFile, data, 0o644); err != nil {
		return fmt.Errorf("startupconf: write settings: %w", err)
	}

	s.logger.Info("startup mode written",
		"service", serviceName,
		"start_mode", startMode,
		"delayed_start", delayed,
	)
	return nil
}

// load reads the existing settings file. A missing file is an empty store;
// only the missing directory means the store itself is absent.
func (s *fileStore) load() (map[string]serviceEntry, error) {
	entries := make(map[string]serviceEntry)

	path := filepath.Join(s.cfg.StoreDir, s.cfg.StoreFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// encodeMode splits a StartupMode into the stored value pair.
func encodeMode(mode service.StartupMode) (startMode string, delayed bool) {
	switch mode {
	case service.AutomaticDelayed:
		return string(service.Automatic), true
	default:
		return string(mode), false
	}
}
