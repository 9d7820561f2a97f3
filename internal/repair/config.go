// Package repair invokes the indexing daemon's administrative reset
// interface, the secondary repair path used when restarts fail outright.
package repair

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSocketPath is the default administrative unix socket of the
// indexing daemon.
const DefaultSocketPath = "/run/search-indexd/admin.sock"

// DefaultTimeout bounds one administrative reset call.
const DefaultTimeout = 60 * time.Second

// Config holds the repair invoker configuration.
type Config struct {
	// SocketPath is the daemon's administrative unix socket.
	// Default: /run/search-indexd/admin.sock
	SocketPath string `yaml:"socket_path"`

	// Timeout bounds a single reset call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML decodes the config, accepting Go duration strings ("60s")
// for Timeout.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		SocketPath string `yaml:"socket_path"`
		Timeout    string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.SocketPath = raw.SocketPath
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("repair: config: timeout: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.SocketPath == "" {
		c.SocketPath = DefaultSocketPath
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		return errors.New("repair: config: SocketPath is required")
	}
	if c.Timeout <= 0 {
		return errors.New("repair: config: Timeout must be positive")
	}
	return nil
}
