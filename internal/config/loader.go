package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ConfigPaths defines the search locations for config files.
const (
	// GlobalConfigDir is the XDG config directory name
	GlobalConfigDir = "racetimer"
	// GlobalConfigFile is the global config file name
	GlobalConfigFile = "config.yaml"
	// ProjectConfigDir is the project-local config directory
	ProjectConfigDir = ".racetimer"
	// ProjectConfigFile is the project-local config file name
	ProjectConfigFile = "config.yaml"
)

// LoadConfig loads configuration from files and viper settings.
// Precedence (later overrides earlier):
//  1. Default() values
//  2. ~/.config/racetimer/config.yaml (global)
//  3. .racetimer/config.yaml (project)
//  4. --config file
//  5. Environment variables (RACETIMER_*)
//  6. CLI flags (already bound to viper)
//
// Missing global and project files are silently ignored. The result is
// validated before it is returned.
func LoadConfig(v *viper.Viper) (*Config, error) {
	// Start with defaults
	cfg := Default()

	defaultMap, err := structToMap(cfg)
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(defaultMap); err != nil {
		return nil, err
	}

	// Global, then project; either may be absent
	for _, path := range []string{globalConfigPath(), projectConfigPath()} {
		if path == "" {
			continue
		}
		if err := loadConfigFile(v, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// Explicit config file (from --config flag or RACETIMER_CONFIG env)
	if explicitPath := v.GetString("config"); explicitPath != "" {
		// Explicit config must exist
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, err
		}
		if err := loadConfigFile(v, explicitPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicitPath, err)
		}
	}

	// Unmarshal with duration hook
	if err := v.Unmarshal(cfg, viperDecodeHook()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// globalConfigPath returns the global config file path if it exists.
func globalConfigPath() string {
	// Try XDG_CONFIG_HOME first
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		// Fall back to ~/.config
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}

	path := filepath.Join(configDir, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// projectConfigPath returns the project config file path if it exists.
func projectConfigPath() string {
	path := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// loadConfigFile reads a YAML config file and merges it into viper.
func loadConfigFile(v *viper.Viper, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = file.Close() }()

	// Read into a separate viper, then merge into the main one
	fileViper := viper.New()
	fileViper.SetConfigType("yaml")
	if err := fileViper.ReadConfig(file); err != nil {
		return err
	}

	return v.MergeConfigMap(fileViper.AllSettings())
}

// viperDecodeHook returns the decoder config with duration hook.
func viperDecodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
}

// structToMap converts a struct to a map for viper.MergeConfigMap.
func structToMap(cfg *Config) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &result,
		DecodeHook: durationToStringHook(),
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}

	return result, nil
}

// durationToStringHook converts time.Duration to string for YAML compatibility.
func durationToStringHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if from != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return data.(time.Duration).String(), nil
	}
}
