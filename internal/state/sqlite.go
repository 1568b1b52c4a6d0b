// Package state persists the book catalog in a local SQLite file.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// busyTimeoutMillis bounds how long a statement waits on a locked file.
const busyTimeoutMillis = 5000

var errNotOpened = errors.New("database not opened")

var _ core.BookStore = (*SQLiteStore)(nil)

// SQLiteStore implements core.BookStore using SQLite.
//
// The store holds a connection pool but no session: every operation checks
// out its own *sql.Conn and returns it before the call ends. File-backed
// stores keep no idle connections, so a returned session is really closed.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for per-operation debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the SQLite database at path, creating the file if needed.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMillis)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return core.NewStoreError(core.KindStorage, "open database", err)
	}

	if path == MemoryPath {
		// Each connection to :memory: is a separate database; pin one.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxIdleConns(0)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return core.NewStoreError(core.KindStorage, "open database", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("database opened", slog.String("path", path))
	return nil
}

// Path returns the path passed to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the SQLite database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return core.NewStoreError(core.KindStorage, "close database", err)
	}
	return nil
}

// Initialize ensures the schema exists. It is idempotent.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	s.logger.Debug("schema ready", slog.String("path", s.path))
	return nil
}

// CheckIntegrity runs SQLite's integrity check and reports any problem it
// finds as a storage error.
func (s *SQLiteStore) CheckIntegrity(ctx context.Context) error {
	return s.withSession(ctx, "check integrity", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `PRAGMA integrity_check`)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		var problems []string
		for rows.Next() {
			var line string
			if err := rows.Scan(&line); err != nil {
				return err
			}
			if line != "ok" {
				problems = append(problems, line)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(problems) > 0 {
			return fmt.Errorf("integrity check failed: %s", strings.Join(problems, "; "))
		}
		return nil
	})
}

// --- sessions ---

// withSession runs fn on a dedicated connection and releases it on every
// exit path. Errors returned by fn are classified and tagged with op.
func (s *SQLiteStore) withSession(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	if s.db == nil {
		return core.NewStoreError(core.KindStorage, op, errNotOpened)
	}

	log := s.logger.With(slog.String("op", op), slog.String("session", uuid.NewString()))

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return classifyError(op, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn("failed to release session", slog.Any("error", cerr))
		}
	}()

	log.Debug("session opened")
	if err := fn(conn); err != nil {
		log.Debug("operation failed", slog.Any("error", err))
		return classifyError(op, err)
	}
	log.Debug("operation completed")
	return nil
}

// withTx runs fn inside a transaction on its own session. The transaction
// commits once when fn succeeds and rolls back otherwise.
func (s *SQLiteStore) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	return s.withSession(ctx, op, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		return nil
	})
}
