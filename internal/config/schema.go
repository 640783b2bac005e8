package config

// Config represents the full screen-time configuration
type Config struct {
	// Base directory; logs live in <dir>/screen-time. Empty means the home dir.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Polling interval, e.g. "30s", "1m", "1h"
	Interval string `yaml:"interval" mapstructure:"interval"`

	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RetryConfig bounds retries of failed file operations
type RetryConfig struct {
	MaxAttempts     int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialInterval string `yaml:"initial_interval" mapstructure:"initial_interval"`
	MaxInterval     string `yaml:"max_interval" mapstructure:"max_interval"`
}

// HistoryConfig configures the archive history database
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}
