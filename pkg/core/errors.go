package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error kinds
// =============================================================================

// ErrorKind classifies every failure the catalog can report.
type ErrorKind int

// Error kinds. The set is closed: callers switch on it to decide how to
// present a failure.
const (
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown ErrorKind = iota
	// KindInvalidArgument marks a value rejected by a field invariant.
	KindInvalidArgument
	// KindIntegrity marks a store-level constraint violation.
	KindIntegrity
	// KindStorage marks any other store failure (I/O, connectivity, corruption).
	KindStorage
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIntegrity:
		return "integrity error"
	case KindStorage:
		return "storage error"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIntegrity       = errors.New("integrity error")
	ErrStorage         = errors.New("storage error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindIntegrity:
		return ErrIntegrity
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// =============================================================================
// FieldError
// =============================================================================

// FieldError reports a value rejected by a Book field invariant.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// =============================================================================
// StoreError
// =============================================================================

// StoreError wraps a failure of the backing store with the operation that
// produced it.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching the error's kind.
func (e *StoreError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewStoreError builds a StoreError. Kinds other than KindIntegrity are
// recorded as KindStorage.
func NewStoreError(kind ErrorKind, op string, err error) *StoreError {
	if kind != KindIntegrity {
		kind = KindStorage
	}
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first taxonomy error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return KindInvalidArgument
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, ErrStorage):
		return KindStorage
	}
	return KindUnknown
}
