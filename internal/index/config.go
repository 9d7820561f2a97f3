// Package index locates and clears the persisted index artifacts backing the
// target service's search index.
package index

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultRootPath is the default index artifact directory.
const DefaultRootPath = "/var/lib/search-indexd/index"

// DefaultPrimaryFile is the default name of the authoritative index database.
const DefaultPrimaryFile = "index.db"

// DefaultLogFilePattern is the default glob matching rotating index log files.
const DefaultLogFilePattern = "*.log"

// Config holds the index store configuration.
type Config struct {
	// RootPath is the directory holding the index artifacts.
	// Default: /var/lib/search-indexd/index
	RootPath string `yaml:"root_path"`

	// PrimaryFile is the name of the primary database file under RootPath.
	// Default: index.db
	PrimaryFile string `yaml:"primary_file"`

	// LogFilePattern is the glob matching rotating log files under RootPath.
	// Default: *.log
	LogFilePattern string `yaml:"log_file_pattern"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.RootPath == "" {
		c.RootPath = DefaultRootPath
	}
	if c.PrimaryFile == "" {
		c.PrimaryFile = DefaultPrimaryFile
	}
	if c.LogFilePattern == "" {
		c.LogFilePattern = DefaultLogFilePattern
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.RootPath == "" {
		return errors.New("index: config: RootPath is required")
	}
	if strings.ContainsAny(c.PrimaryFile, "/\\") {
		return errors.New("index: config: PrimaryFile must be a bare file name")
	}
	if _, err := filepath.Match(c.LogFilePattern, ""); err != nil {
		return errors.New("index: config: LogFilePattern is not a valid glob")
	}
	return nil
}
