// Package commands implements the bookcatalog subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/bookcatalog/internal/cli/config"
	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/leapstack-labs/bookcatalog/internal/state"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Ctx      context.Context
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open, initialized
// store and a renderer. Returns the context and a cleanup function that
// must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store, err := openStore(cmdCtx.Ctx, cmdCtx.Cfg.DatabasePath, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Store = store

	cleanup := func() {
		if err := store.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close catalog", slog.Any("error", err))
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Useful for commands that don't need database access.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := config.GetLogger(ctx)
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Ctx:      ctx,
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// openStore opens the catalog at path and makes sure its schema exists.
// Failing here is fatal for every command that needs the catalog.
func openStore(ctx context.Context, path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	if path != state.MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, core.NewStoreError(core.KindStorage, "open database", fmt.Errorf("failed to create database directory: %w", err))
			}
		}
	}

	store := state.NewSQLiteStore(state.WithLogger(logger))
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debug("catalog ready", slog.String("path", path))
	return store, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// parseCode parses a book code argument.
func parseCode(arg string) (int64, error) {
	code, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || code <= 0 {
		return 0, &core.FieldError{Field: core.FieldCode, Reason: fmt.Sprintf("must be a positive integer, got %q", arg)}
	}
	return code, nil
}

// errNotFound reports a missing book. It is not part of the store error
// taxonomy: an absent record is a normal outcome for the store.
type errNotFound struct {
	code int64
}

func (e *errNotFound) Error() string {
	return fmt.Sprintf("book %d not found", e.code)
}

// IsNotFound reports whether err says a book does not exist.
func IsNotFound(err error) bool {
	var nf *errNotFound
	return errors.As(err, &nf)
}
