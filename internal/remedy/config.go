// Package remedy drives the remediation pipeline against the target
// search-indexing service and produces the run report.
package remedy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LindsayRex/searchfix/internal/index"
	"github.com/LindsayRex/searchfix/internal/repair"
	"github.com/LindsayRex/searchfix/internal/service"
	"github.com/LindsayRex/searchfix/internal/startupconf"
)

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// Config is the top-level configuration for a remediation run. It aggregates
// all component configurations and is populated from a YAML file via
// ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// ForceStop follows the stop request with a kill signal.
	ForceStop bool `yaml:"force_stop"`

	Service service.Config     `yaml:"service"`
	Index   index.Config       `yaml:"index"`
	Startup startupconf.Config `yaml:"startup"`
	Repair  repair.Config      `yaml:"repair"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Service.ApplyDefaults()
	c.Index.ApplyDefaults()
	c.Startup.ApplyDefaults()
	c.Repair.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("remedy: config: invalid log level %q", c.LogLevel)
	}
	if err := c.Service.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if err := c.Startup.Validate(); err != nil {
		return err
	}
	if err := c.Repair.Validate(); err != nil {
		return err
	}
	return nil
}

// ParseConfig loads configuration from a YAML file and applies defaults.
// A missing file is not an error: the defaults describe a standard host.
func ParseConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return cfg, fmt.Errorf("remedy: read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("remedy: parse config %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
