package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestDefaultTimerConfig(t *testing.T) {
	cfg := Default()

	if cfg.Timer.TickInterval != time.Second {
		t.Errorf("Timer.TickInterval = %v, want %v", cfg.Timer.TickInterval, time.Second)
	}
	if cfg.Timer.MaxDuration != 0 {
		t.Errorf("Timer.MaxDuration = %v, want 0 (unlimited)", cfg.Timer.MaxDuration)
	}
	if cfg.MaxSeconds() != 0 {
		t.Errorf("MaxSeconds() = %d, want 0", cfg.MaxSeconds())
	}
}

func TestDefaultPathsConfig(t *testing.T) {
	cfg := Default()

	paths := []struct {
		name string
		got  string
		want string
	}{
		{"Store", cfg.Paths.Store, ".racetimer/timers.json"},
		{"Log", cfg.Paths.Log, ".racetimer/events.log"},
		{"Socket", cfg.Paths.Socket, ".racetimer/racetimer.sock"},
		{"PID", cfg.Paths.PID, ".racetimer/racetimer.pid"},
	}

	for _, p := range paths {
		if p.got != p.want {
			t.Errorf("Paths.%s = %q, want %q", p.name, p.got, p.want)
		}
	}
}

func TestDefaultTUIConfig(t *testing.T) {
	cfg := Default()

	if cfg.TUI.RefreshInterval != 250*time.Millisecond {
		t.Errorf("TUI.RefreshInterval = %v, want 250ms", cfg.TUI.RefreshInterval)
	}
	if !cfg.TUI.ShowHelp {
		t.Error("TUI.ShowHelp = false, want true")
	}
	if cfg.Store.Format != "json" {
		t.Errorf("Store.Format = %q, want json", cfg.Store.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero tick interval", func(c *Config) { c.Timer.TickInterval = 0 }, "tick_interval"},
		{"negative max duration", func(c *Config) { c.Timer.MaxDuration = -time.Second }, "max_duration"},
		{"unlimited max duration", func(c *Config) { c.Timer.MaxDuration = 0 }, ""},
		{"yaml format", func(c *Config) { c.Store.Format = "yaml" }, ""},
		{"cbor format", func(c *Config) { c.Store.Format = "cbor" }, ""},
		{"unknown format", func(c *Config) { c.Store.Format = "xml" }, "store.format"},
		{"empty store path", func(c *Config) { c.Paths.Store = "" }, "paths.store"},
		{"zero refresh", func(c *Config) { c.TUI.RefreshInterval = 0 }, "refresh_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Timer.TickInterval = 0
	cfg.Store.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "tick_interval") || !strings.Contains(err.Error(), "store.format") {
		t.Errorf("error should mention both problems: %v", err)
	}
}
