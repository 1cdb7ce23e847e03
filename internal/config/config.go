// Package config provides configuration types and defaults for racetimer.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration for racetimer.
type Config struct {
	Timer       TimerConfig       `yaml:"timer" mapstructure:"timer"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	TUI         TUIConfig         `yaml:"tui" mapstructure:"tui"`
}

// TimerConfig holds countdown settings.
type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"` // Wall time per counted second
	MaxDuration  time.Duration `yaml:"max_duration" mapstructure:"max_duration"`   // Longest accepted timer (0 = unlimited)
}

// StoreConfig holds snapshot persistence settings.
type StoreConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // json, yaml or cbor
}

// PathsConfig holds file paths for the snapshot, event log, and socket.
type PathsConfig struct {
	Store  string `yaml:"store" mapstructure:"store"`
	Log    string `yaml:"log" mapstructure:"log"`
	Socket string `yaml:"socket" mapstructure:"socket"`
	PID    string `yaml:"pid" mapstructure:"pid"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"` // Snapshot poll interval
	ShowHelp        bool          `yaml:"show_help" mapstructure:"show_help"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			TickInterval: time.Second,
			MaxDuration:  0,
		},
		Store: StoreConfig{
			Format: "json",
		},
		Paths: PathsConfig{
			Store:  ".racetimer/timers.json",
			Log:    ".racetimer/events.log",
			Socket: ".racetimer/racetimer.sock",
			PID:    ".racetimer/racetimer.pid",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		TUI: TUIConfig{
			RefreshInterval: 250 * time.Millisecond,
			ShowHelp:        true,
		},
	}
}

// MaxSeconds returns the longest accepted timer in whole seconds, or 0 when
// there is no limit.
func (c *Config) MaxSeconds() int {
	return int(c.Timer.MaxDuration / time.Second)
}

// Validate reports settings that would leave the timer engine unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Timer.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("timer.tick_interval must be positive, got %s", c.Timer.TickInterval))
	}
	if c.Timer.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("timer.max_duration must not be negative, got %s", c.Timer.MaxDuration))
	}
	switch c.Store.Format {
	case "", "json", "yaml", "yml", "cbor":
	default:
		errs = append(errs, fmt.Errorf("store.format %q is not one of json, yaml, cbor", c.Store.Format))
	}
	if c.Paths.Store == "" {
		errs = append(errs, errors.New("paths.store must be set"))
	}
	if c.TUI.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("tui.refresh_interval must be positive, got %s", c.TUI.RefreshInterval))
	}
	return errors.Join(errs...)
}
