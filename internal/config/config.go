package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Import limits
	MaxFileSize int64  `mapstructure:"max-file-size"`
	SchemaPath  string `mapstructure:"schema-path"`

	// Import history
	HistoryDB      string `mapstructure:"history-db"`
	HistoryEnabled bool   `mapstructure:"history-enabled"`

	// S3 import sources
	S3Region    string `mapstructure:"s3-region"`
	S3Anonymous bool   `mapstructure:"s3-anonymous"`

	// HTTP server
	ListenAddr  string   `mapstructure:"listen-addr"`
	CORSOrigins []string `mapstructure:"cors-origins"`

	// Logging
	LogLevel       string `mapstructure:"log-level"`
	LogDevelopment bool   `mapstructure:"log-development"`

	OutputFormat string `mapstructure:"output-format"`
}

// Defaults applied before env vars, config file and flags
var Defaults = map[string]interface{}{
	"max-file-size":   int64(25000),
	"schema-path":     "",
	"history-db":      ".imagewizard/history.db",
	"history-enabled": true,
	"s3-region":       "us-east-1",
	"s3-anonymous":    false,
	"listen-addr":     ":8080",
	"cors-origins":    []string{},
	"log-level":       "info",
	"log-development": false,
	"output-format":   "json",
}

// EnvPrefix is the prefix of environment overrides (IMAGEWIZARD_HISTORY_DB, ...)
const EnvPrefix = "IMAGEWIZARD"

// Load reads configuration from defaults, environment, an optional config
// file and flags already bound to v. A nil v uses the global viper instance.
// configFile may be empty to search for imagewizard.yaml in . and $HOME/.imagewizard.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	for key, value := range Defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("imagewizard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.imagewizard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max-file-size must be positive")
	}
	if c.HistoryEnabled && c.HistoryDB == "" {
		return fmt.Errorf("history-db cannot be empty when history is enabled")
	}
	if c.S3Region == "" {
		return fmt.Errorf("s3-region cannot be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen-addr cannot be empty")
	}
	switch c.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("output-format must be json or yaml, got %q", c.OutputFormat)
	}
	return nil
}
