// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	config := GetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/anonymizer/")
	viper.AddConfigPath("$HOME/.anonymizer/")

	viper.SetEnvPrefix("ANONYMIZER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine - defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Anonymizer.Placeholder == "" {
		return fmt.Errorf("anonymizer placeholder must not be empty")
	}

	for _, p := range config.Anonymizer.ExtraPatterns {
		if p.Label == "" || p.Expr == "" {
			return fmt.Errorf("extra pattern needs both label and expr (label %q)", p.Label)
		}
	}

	if config.Entities.ScoreThreshold < 0 || config.Entities.ScoreThreshold > 1 {
		return fmt.Errorf("invalid entity score threshold: %f (must be in [0,1])", config.Entities.ScoreThreshold)
	}

	if config.Pipeline.BatchSize <= 0 {
		return fmt.Errorf("invalid pipeline batch size: %d", config.Pipeline.BatchSize)
	}

	if config.Pipeline.WorkerCount <= 0 {
		return fmt.Errorf("invalid pipeline worker count: %d", config.Pipeline.WorkerCount)
	}

	if config.Pipeline.Column == "" {
		return fmt.Errorf("pipeline column must not be empty")
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes.
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			return
		}

		if err := validateConfig(newConfig); err != nil {
			return
		}

		callback(newConfig)
	})

	return nil
}
