package config

import (
	"fmt"
	"slices"
	"strings"
)

// Accepted values for the enumerated settings.
var (
	OutputFormats = []string{"auto", "text", "markdown", "json"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database is required")
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (want one of %s)", c.LogFormat, strings.Join(LogFormats, ", "))
	}
	return nil
}
