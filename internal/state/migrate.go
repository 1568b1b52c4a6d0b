package state

import (
	"context"
	"embed"
	"fmt"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// configureGoose points goose at the embedded migrations.
func configureGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate brings the schema up to the latest embedded version.
// Running it against an up-to-date database is a no-op.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	const op = "initialize schema"
	if s.db == nil {
		return core.NewStoreError(core.KindStorage, op, errNotOpened)
	}

	if err := configureGoose(); err != nil {
		return core.NewStoreError(core.KindStorage, op, err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return classifyError(op, fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

// SchemaVersion returns the current migration version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int64, error) {
	const op = "read schema version"
	if s.db == nil {
		return 0, core.NewStoreError(core.KindStorage, op, errNotOpened)
	}

	if err := configureGoose(); err != nil {
		return 0, core.NewStoreError(core.KindStorage, op, err)
	}
	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return 0, classifyError(op, err)
	}
	return version, nil
}
