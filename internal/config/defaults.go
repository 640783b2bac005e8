package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Interval: "1m",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialInterval: "500ms",
			MaxInterval:     "10s",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

const defaultHeader = `# screen-time configuration
#
# dir:      base directory; samples go to <dir>/screen-time/week.txt
#           (empty means your home directory)
# interval: how often a sample is recorded (30s, 5m, 1h, 1d)
# Every key can be overridden with SCREEN_TIME_<KEY>, e.g. SCREEN_TIME_LOG_LEVEL=debug.

`

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	body, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultHeader), body...), 0o644)
}
