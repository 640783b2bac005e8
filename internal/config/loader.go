// Package config loads screen-time settings from YAML, the environment and
// defaults, in increasing order of precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCREEN_TIME"

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".screen-time", "config.yaml")
	}
	return filepath.Join(dir, "screen-time", "config.yaml")
}

// Load reads the config at path. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("dir", d.Dir)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("retry.initial_interval", d.Retry.InitialInterval)
	v.SetDefault("retry.max_interval", d.Retry.MaxInterval)
	v.SetDefault("history.enabled", d.History.Enabled)
}

// Validate checks durations and bounds.
func (c *Config) Validate() error {
	if _, err := c.IntervalDuration(); err != nil {
		return fmt.Errorf("interval: %w", err)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if _, err := ParseDuration(c.Retry.InitialInterval); err != nil {
		return fmt.Errorf("retry.initial_interval: %w", err)
	}
	if _, err := ParseDuration(c.Retry.MaxInterval); err != nil {
		return fmt.Errorf("retry.max_interval: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// IntervalDuration returns the polling interval.
func (c *Config) IntervalDuration() (time.Duration, error) {
	d, err := ParseDuration(c.Interval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", c.Interval)
	}
	return d, nil
}

// RetryIntervals returns the initial and maximum retry waits.
func (c *Config) RetryIntervals() (initial, maxWait time.Duration) {
	initial, _ = ParseDuration(c.Retry.InitialInterval)
	maxWait, _ = ParseDuration(c.Retry.MaxInterval)
	return initial, maxWait
}

var dayRegex = regexp.MustCompile(`^(\d+)d$`)

// ParseDuration accepts anything time.ParseDuration does plus whole days
// like "7d" or "90d".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if m := dayRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use e.g. 30s, 5m, 2h, 7d)", s)
	}
	return d, nil
}
