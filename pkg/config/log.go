package config

import (
	"fmt"
	"strings"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type LogConfig struct {
	Level string `koanf:"level"`
}

// String returns a string representation of the log configuration.
func (c *LogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Level))
	return b.String()
}

// Validate accepts an empty level, which falls back to info.
func (c *LogConfig) Validate() error {
	if c.Level == "" {
		return nil
	}
	for _, l := range logLevels {
		if c.Level == l {
			return nil
		}
	}
	return fmt.Errorf("unknown log level %q, expected one of %s", c.Level, strings.Join(logLevels, ", "))
}
