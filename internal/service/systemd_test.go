package service

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseProperties(t *testing.T) {
	out := "LoadState=loaded\nActiveState=active\nUnitFileState=enabled\n"
	props := parseProperties(out)

	want := map[string]string{
		"LoadState":     "loaded",
		"ActiveState":   "active",
		"UnitFileState": "enabled",
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("props[%q] = %q, want %q", k, props[k], v)
		}
	}
}

func TestParseProperties_EmptyValues(t *testing.T) {
	props := parseProperties("UnitFileState=\n\nnot-a-property\n")
	if got, ok := props["UnitFileState"]; !ok || got != "" {
		t.Errorf("props[UnitFileState] = %q (present=%v), want empty string present", got, ok)
	}
	if _, ok := props["not-a-property"]; ok {
		t.Error("line without '=' should not produce a property")
	}
}

func TestRunStateOf(t *testing.T) {
	tests := []struct {
		active string
		want   RunState
	}{
		{"active", Running},
		{"reloading", Running},
		{"inactive", Stopped},
		{"failed", Stopped},
		{"deactivating", Stopped},
		{"activating", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.active, func(t *testing.T) {
			if got := runStateOf(tt.active); got != tt.want {
				t.Errorf("runStateOf(%q) = %v, want %v", tt.active, got, tt.want)
			}
		})
	}
}

func TestStartupModeOf(t *testing.T) {
	tests := []struct {
		state string
		want  StartupMode
	}{
		{"enabled", Automatic},
		{"enabled-runtime", Automatic},
		{"masked", Disabled},
		{"masked-runtime", Disabled},
		{"disabled", Manual},
		{"static", Manual},
		{"", Manual},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := startupModeOf(tt.state); got != tt.want {
				t.Errorf("startupModeOf(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != DefaultName {
		t.Errorf("Name = %q, want %q", cfg.Name, DefaultName)
	}
	if cfg.BinaryPath != DefaultBinaryPath {
		t.Errorf("BinaryPath = %q, want %q", cfg.BinaryPath, DefaultBinaryPath)
	}
	if cfg.StopTimeout != DefaultStopTimeout {
		t.Errorf("StopTimeout = %v, want %v", cfg.StopTimeout, DefaultStopTimeout)
	}
}

func TestConfig_UnmarshalYAML(t *testing.T) {
	var cfg Config
	data := "name: tracker-miner\nbinary_path: /usr/libexec/tracker\nstop_timeout: 15s\n"
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("Unmarshal = %v", err)
	}
	if cfg.Name != "tracker-miner" {
		t.Errorf("Name = %q, want tracker-miner", cfg.Name)
	}
	if cfg.StopTimeout != 15*time.Second {
		t.Errorf("StopTimeout = %v, want 15s", cfg.StopTimeout)
	}

	var bad Config
	if err := yaml.Unmarshal([]byte("stop_timeout: soon\n"), &bad); err == nil {
		t.Error("Unmarshal = nil, want error for unparseable duration")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Name: "search-indexd", StopTimeout: DefaultStopTimeout}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := Config{Name: ""}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil, want error for empty Name")
	}
}
