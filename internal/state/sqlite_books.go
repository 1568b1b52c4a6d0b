package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// Operation names, used as error context and log attributes.
const (
	opCreate         = "create book"
	opList           = "list books"
	opGet            = "get book"
	opUpdate         = "update book"
	opDelete         = "delete book"
	opSearchByTitle  = "search books by title"
	opSearchByAuthor = "search books by author"
	opCount          = "count books"
)

// bookColumns is the SELECT column list for book queries.
// It MUST match bookRow.scanArgs order.
const bookColumns = `code, title, author, genre, publisher, publication_year`

// bookRow holds one scanned row. Values are scanned untyped so that
// toDomain can run them through the same checks as any other input.
type bookRow struct {
	Code            any
	Title           any
	Author          any
	Genre           any
	Publisher       any
	PublicationYear any
}

// scanArgs returns pointers to all fields for sql.Scan().
func (r *bookRow) scanArgs() []any {
	return []any{
		&r.Code,
		&r.Title,
		&r.Author,
		&r.Genre,
		&r.Publisher,
		&r.PublicationYear,
	}
}

// toDomain rebuilds the row as a core.Book through core.BookFromMap.
func (r *bookRow) toDomain() (*core.Book, error) {
	book, err := core.BookFromMap(map[string]any{
		core.FieldCode:            r.Code,
		core.FieldTitle:           r.Title,
		core.FieldAuthor:          r.Author,
		core.FieldGenre:           r.Genre,
		core.FieldPublisher:       r.Publisher,
		core.FieldPublicationYear: r.PublicationYear,
	})
	if err != nil {
		return nil, fmt.Errorf("stored row (code=%v): %w", r.Code, err)
	}
	return book, nil
}

// likePattern builds a LIKE pattern that matches term as a literal
// substring. Use with ESCAPE '\'.
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

func requireBook(book *core.Book) error {
	if book == nil {
		return &core.FieldError{Field: "book", Reason: "is required"}
	}
	return nil
}

// Create inserts a new book and returns the code assigned by the store.
// The code is also set on book.
func (s *SQLiteStore) Create(ctx context.Context, book *core.Book) (int64, error) {
	if err := requireBook(book); err != nil {
		return 0, fmt.Errorf("%s: %w", opCreate, err)
	}
	if err := book.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", opCreate, err)
	}

	var code int64
	err := s.withTx(ctx, opCreate, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO books (title, author, genre, publisher, publication_year) VALUES (?, ?, ?, ?, ?)`,
			book.Title(), book.Author(), book.Genre(), book.Publisher(), book.PublicationYear(),
		)
		if err != nil {
			return err
		}
		code, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	if err := book.SetCode(code); err != nil {
		return 0, core.NewStoreError(core.KindStorage, opCreate, fmt.Errorf("store returned code %d: %w", code, err))
	}
	s.logger.Debug("book created", slog.Int64("code", code), slog.String("title", book.Title()))
	return code, nil
}

// List returns every book ordered by title.
func (s *SQLiteStore) List(ctx context.Context) ([]*core.Book, error) {
	return s.queryBooks(ctx, opList,
		`SELECT `+bookColumns+` FROM books ORDER BY title, code`)
}

// GetByCode returns the book with the given code. found is false, with a
// nil error, when no such book exists.
func (s *SQLiteStore) GetByCode(ctx context.Context, code int64) (*core.Book, bool, error) {
	var book *core.Book
	err := s.withSession(ctx, opGet, func(conn *sql.Conn) error {
		var row bookRow
		err := conn.QueryRowContext(ctx,
			`SELECT `+bookColumns+` FROM books WHERE code = ?`, code,
		).Scan(row.scanArgs()...)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		book, err = row.toDomain()
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return book, book != nil, nil
}

// Update replaces the five mutable fields of the book identified by
// book.Code(). It reports false, with a nil error, when no row matched.
func (s *SQLiteStore) Update(ctx context.Context, book *core.Book) (bool, error) {
	if err := requireBook(book); err != nil {
		return false, fmt.Errorf("%s: %w", opUpdate, err)
	}
	if !book.HasCode() {
		return false, fmt.Errorf("%s: %w", opUpdate, &core.FieldError{Field: core.FieldCode, Reason: "is required for update"})
	}
	if err := book.Validate(); err != nil {
		return false, fmt.Errorf("%s: %w", opUpdate, err)
	}

	var affected int64
	err := s.withTx(ctx, opUpdate, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE books SET title = ?, author = ?, genre = ?, publisher = ?, publication_year = ? WHERE code = ?`,
			book.Title(), book.Author(), book.Genre(), book.Publisher(), book.PublicationYear(), book.Code(),
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Delete removes the book with the given code. It reports false, with a
// nil error, when no row was removed.
func (s *SQLiteStore) Delete(ctx context.Context, code int64) (bool, error) {
	var affected int64
	err := s.withTx(ctx, opDelete, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE code = ?`, code)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SearchByTitle returns books whose title contains term, ignoring ASCII
// case, ordered by title.
func (s *SQLiteStore) SearchByTitle(ctx context.Context, term string) ([]*core.Book, error) {
	return s.queryBooks(ctx, opSearchByTitle,
		`SELECT `+bookColumns+` FROM books WHERE title LIKE ? ESCAPE '\' ORDER BY title, code`,
		likePattern(term))
}

// SearchByAuthor returns books whose author contains term, ignoring ASCII
// case, ordered by title.
func (s *SQLiteStore) SearchByAuthor(ctx context.Context, term string) ([]*core.Book, error) {
	return s.queryBooks(ctx, opSearchByAuthor,
		`SELECT `+bookColumns+` FROM books WHERE author LIKE ? ESCAPE '\' ORDER BY title, code`,
		likePattern(term))
}

// Count returns the total number of books.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.withSession(ctx, opCount, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// queryBooks runs a book SELECT and rebuilds every row. A row that fails
// validation fails the whole call.
func (s *SQLiteStore) queryBooks(ctx context.Context, op, query string, args ...any) ([]*core.Book, error) {
	books := []*core.Book{}
	err := s.withSession(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var row bookRow
			if err := rows.Scan(row.scanArgs()...); err != nil {
				return err
			}
			book, err := row.toDomain()
			if err != nil {
				return err
			}
			books = append(books, book)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}
