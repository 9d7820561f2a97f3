// Package service controls the target search-indexing service through the
// host's service manager.
package service

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultName is the default target service name.
const DefaultName = "search-indexd"

// DefaultBinaryPath is the default path of the service binary, used by the
// alternate start mechanism.
const DefaultBinaryPath = "/usr/libexec/search-indexd"

// DefaultStopTimeout bounds how long a stop request may block.
const DefaultStopTimeout = 30 * time.Second

// Config holds the service controller configuration.
type Config struct {
	// Name is the target service name.
	// Default: search-indexd
	Name string `yaml:"name"`

	// BinaryPath is the service binary launched by the alternate start
	// mechanism. Default: /usr/libexec/search-indexd
	BinaryPath string `yaml:"binary_path"`

	// StopTimeout bounds a single stop request.
	// Default: 30s
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

// UnmarshalYAML decodes the config, accepting Go duration strings ("30s")
// for StopTimeout.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name        string `yaml:"name"`
		BinaryPath  string `yaml:"binary_path"`
		StopTimeout string `yaml:"stop_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.BinaryPath = raw.BinaryPath
	if raw.StopTimeout != "" {
		d, err := time.ParseDuration(raw.StopTimeout)
		if err != nil {
			return fmt.Errorf("service: config: stop_timeout: %w", err)
		}
		c.StopTimeout = d
	}
	return nil
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.BinaryPath == "" {
		c.BinaryPath = DefaultBinaryPath
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = DefaultStopTimeout
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("service: config: Name is required")
	}
	if c.StopTimeout <= 0 {
		return errors.New("service: config: StopTimeout must be positive")
	}
	return nil
}
