// Package startupconf persists the startup-mode configuration of the target
// service in its key-value configuration area.
package startupconf

import "errors"

// DefaultStoreDir is the default configuration area of the target service.
const DefaultStoreDir = "/etc/search-indexd"

// DefaultStoreFile is the file holding the startup settings.
const DefaultStoreFile = "startup.yaml"

// Config holds the startup configuration store settings.
type Config struct {
	// StoreDir is the service's configuration area. Its absence means the
	// fine-grained startup settings do not exist on this host.
	// Default: /etc/search-indexd
	StoreDir string `yaml:"store_dir"`

	// StoreFile is the settings file name under StoreDir.
	// Default: startup.yaml
	StoreFile string `yaml:"store_file"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.StoreDir == "" {
		c.StoreDir = DefaultStoreDir
	}
	if c.StoreFile == "" {
		c.StoreFile = DefaultStoreFile
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.StoreDir == "" {
		return errors.New("startupconf: config: StoreDir is required")
	}
	if c.StoreFile == "" {
		return errors.New("startupconf: config: StoreFile is required")
	}
	return nil
}
