// Package config holds the default settings shared by the CLI and the
// interactive front ends.
package config

import (
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultDatabaseFile = "catalog.db"
	DefaultOutput       = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultPrompt       = "bookcatalog> "
	DefaultHistoryFile  = "history"
)

// HomeDirName is the per-user directory under $HOME that holds the
// fallback config file and the shell history.
const HomeDirName = ".bookcatalog"

// ConfigFileNames are the config file names looked up, in order.
var ConfigFileNames = []string{"bookcatalog.yaml", "bookcatalog.yml"}

// HomeDir returns ~/.bookcatalog, or "" when the home directory cannot be
// determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, HomeDirName)
}

// DefaultHistoryPath returns the shell history location, falling back to a
// file in the working directory when there is no home directory.
func DefaultHistoryPath() string {
	if dir := HomeDir(); dir != "" {
		return filepath.Join(dir, DefaultHistoryFile)
	}
	return "." + DefaultHistoryFile
}
