package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/bookcatalog/internal/config"
	"github.com/leapstack-labs/bookcatalog/internal/state"
	"github.com/spf13/pflag"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "BOOKCATALOG_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > ./bookcatalog.yaml > ./bookcatalog.yml > ~/.bookcatalog/bookcatalog.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range sharedcfg.ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if home := sharedcfg.HomeDir(); home != "" {
		candidate := filepath.Join(home, sharedcfg.ConfigFileNames[0])
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, already absolute, or the in-memory path.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == state.MemoryPath || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey maps BOOKCATALOG_LOG_LEVEL to log_level and
// BOOKCATALOG_SHELL_PROMPT to shell.prompt.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "shell_"); ok {
		return "shell." + rest
	}
	return key
}

// checkFileKeys rejects keys in a config file that no setting reads, so a
// misspelled key fails loudly instead of being ignored.
func checkFileKeys(fk *koanf.Koanf) error {
	var probe Config
	return fk.UnmarshalWithConf("", &probe, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &probe,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	})
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"database":           defaults.DatabasePath,
		"output":             defaults.OutputFormat,
		"verbose":            false,
		"log_level":          defaults.LogLevel,
		"log_format":         defaults.LogFormat,
		"shell.history_file": defaults.Shell.HistoryFile,
		"shell.prompt":       defaults.Shell.Prompt,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file. A relative database path in the file is anchored at
	// the file's directory, not the working directory.
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if err := checkFileKeys(fk); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if fk.Exists("database") {
			baseDir := filepath.Dir(configFileUsed)
			if abs, err := filepath.Abs(baseDir); err == nil {
				baseDir = abs
			}
			if err := fk.Set("database", resolvePathRelativeTo(fk.String("database"), baseDir)); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
			}
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (BOOKCATALOG_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}
