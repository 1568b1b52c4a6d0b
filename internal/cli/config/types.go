// Package config provides configuration management for the bookcatalog CLI.
//
// Settings are layered: built-in defaults, then a YAML config file, then
// BOOKCATALOG_* environment variables, then explicitly set command-line
// flags. Shared default values live in internal/config.
package config

import (
	sharedcfg "github.com/leapstack-labs/bookcatalog/internal/config"
)

// ShellConfig holds settings for the interactive shell.
type ShellConfig struct {
	HistoryFile string `koanf:"history_file"`
	Prompt      string `koanf:"prompt"`
}

// Config holds all CLI configuration options.
type Config struct {
	// DatabasePath is the catalog file. In YAML the in-memory path must be
	// quoted (database: ":memory:"); unquoted it parses as a mapping key.
	DatabasePath string      `koanf:"database"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	LogLevel     string      `koanf:"log_level"`
	LogFormat    string      `koanf:"log_format"`
	Shell        ShellConfig `koanf:"shell"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultDatabaseFile = sharedcfg.DefaultDatabaseFile
	DefaultOutput       = sharedcfg.DefaultOutput
	DefaultLogLevel     = sharedcfg.DefaultLogLevel
	DefaultLogFormat    = sharedcfg.DefaultLogFormat
	DefaultPrompt       = sharedcfg.DefaultPrompt
)

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		DatabasePath: DefaultDatabaseFile,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Shell: ShellConfig{
			HistoryFile: sharedcfg.DefaultHistoryPath(),
			Prompt:      DefaultPrompt,
		},
	}
}
