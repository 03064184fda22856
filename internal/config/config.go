// Package config provides configuration management for kce using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/kce/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "kce"

// Defaults applied when no config file overrides them.
const (
	// DefaultVersionListLimit caps how many versions a history listing returns.
	DefaultVersionListLimit = 50

	// DefaultValidatorCommand is the external tool used to cross-check
	// documents at save time.
	DefaultValidatorCommand = "kubectl"

	// DefaultValidatorTimeout bounds the external validator invocation.
	DefaultValidatorTimeout = 10 * time.Second
)

// Config represents the top-level configuration structure.
type Config struct {
	Version          int       `mapstructure:"version" yaml:"version"`
	VersionListLimit int       `mapstructure:"version_list_limit" yaml:"version_list_limit"`
	Validator        Validator `mapstructure:"validator" yaml:"validator"`
}

// Validator configures the optional external document validator.
type Validator struct {
	// Command is the binary invoked to validate documents. Empty disables
	// external validation entirely.
	Command string `mapstructure:"command" yaml:"command"`

	// Timeout bounds a single validator invocation.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("KCE")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("version_list_limit", DefaultVersionListLimit)
	viper.SetDefault("validator.command", DefaultValidatorCommand)
	viper.SetDefault("validator.timeout", DefaultValidatorTimeout)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.VersionListLimit <= 0 {
		cfg.VersionListLimit = DefaultVersionListLimit
	}
	if cfg.Validator.Timeout <= 0 {
		cfg.Validator.Timeout = DefaultValidatorTimeout
	}

	return &cfg, nil
}
