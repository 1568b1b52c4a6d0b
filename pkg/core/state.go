package core

import "context"

// BookStore defines the persistence operations for catalog records.
//
// Not-found and not-affected outcomes are reported through the boolean
// results, never as errors. Every returned error is either a *FieldError
// (a stored row failed validation on read, or the caller passed an invalid
// book) or a *StoreError of kind KindIntegrity or KindStorage.
type BookStore interface {
	Open(path string) error
	Close() error
	Initialize(ctx context.Context) error

	Create(ctx context.Context, book *Book) (int64, error)
	List(ctx context.Context) ([]*Book, error)
	GetByCode(ctx context.Context, code int64) (*Book, bool, error)
	Update(ctx context.Context, book *Book) (bool, error)
	Delete(ctx context.Context, code int64) (bool, error)
	SearchByTitle(ctx context.Context, term string) ([]*Book, error)
	SearchByAuthor(ctx context.Context, term string) ([]*Book, error)
	Count(ctx context.Context) (int, error)
}
