// Package core defines the shared language of the book catalog.
//
// This package contains:
//   - The Book entity and its field-level validation
//   - The error taxonomy shared by the store and the CLI (ErrorKind, FieldError, StoreError)
//   - The BookStore service interface
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
