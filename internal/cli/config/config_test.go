package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory with an empty HOME.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	ResetConfig()
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("database", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("log-level", "", "")
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabaseFile, cfg.DatabasePath)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultPrompt, cfg.Shell.Prompt)
	assert.NotEmpty(t, cfg.Shell.HistoryFile)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bookcatalog.yaml"), `
database: data/books.db
output: json
log_level: info
shell:
  prompt: "books> "
`)

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)

	assert.Equal(t, "bookcatalog.yaml", GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "data", "books.db"), cfg.DatabasePath, "relative to the config file")
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "books> ", cfg.Shell.Prompt)
}

func TestLoadConfig_YmlAndHomeFallback(t *testing.T) {
	dir := isolate(t)
	home := os.Getenv("HOME")
	writeFile(t, filepath.Join(home, ".bookcatalog", "bookcatalog.yaml"), "output: markdown\n")

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)

	// A file in the working directory wins over the home file.
	writeFile(t, filepath.Join(dir, "bookcatalog.yml"), "output: text\n")
	cfg, err = LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, "bookcatalog.yml", GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	other := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, other, "database: \":memory:\"\nlog_format: json\n")

	cfg, err := LoadConfig(other, newFlags())
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_UnknownFileKey(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bookcatalog.yaml"), "database: books.db\nshell:\n  promt: \"> \"\n")

	_, err := LoadConfig("", newFlags())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid keys")
	assert.Contains(t, err.Error(), "promt")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), newFlags())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bookcatalog.yaml"), "output: text\nlog_level: info\ndatabase: file.db\n")

	t.Setenv("BOOKCATALOG_OUTPUT", "json")
	t.Setenv("BOOKCATALOG_LOG_LEVEL", "error")
	t.Setenv("BOOKCATALOG_SHELL_PROMPT", "env> ")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "markdown", "--database", "flag.db"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat, "flag beats env and file")
	assert.Equal(t, "error", cfg.LogLevel, "env beats file")
	assert.Equal(t, "flag.db", cfg.DatabasePath, "flag paths are kept as given")
	assert.Equal(t, "env> ", cfg.Shell.Prompt)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bookcatalog.yaml"), "output: json\n")

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		errSubstr string
	}{
		{name: "output", env: map[string]string{"BOOKCATALOG_OUTPUT": "xml"}, errSubstr: "invalid output format"},
		{name: "log level", env: map[string]string{"BOOKCATALOG_LOG_LEVEL": "trace"}, errSubstr: "invalid log_level"},
		{name: "log format", env: map[string]string{"BOOKCATALOG_LOG_FORMAT": "logfmt"}, errSubstr: "invalid log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("", newFlags())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.DatabasePath = "  "
	assert.ErrorContains(t, cfg.Validate(), "database is required")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database", envKey("BOOKCATALOG_DATABASE"))
	assert.Equal(t, "log_format", envKey("BOOKCATALOG_LOG_FORMAT"))
	assert.Equal(t, "shell.history_file", envKey("BOOKCATALOG_SHELL_HISTORY_FILE"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Default()
	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	cfg.Verbose = true
	cfg.LogFormat = "json"
	NewLogger(cfg, &buf).Debug("detail", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"detail"`)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "debug", LogFormat: "text"}, &buf)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
