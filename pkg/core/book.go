package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Publication year bounds, inclusive.
const (
	MinPublicationYear = 1000
	MaxPublicationYear = 2030
)

// Field names used in maps, error messages and the JSON/YAML/CSV codecs.
const (
	FieldCode            = "code"
	FieldTitle           = "title"
	FieldAuthor          = "author"
	FieldGenre           = "genre"
	FieldPublisher       = "publisher"
	FieldPublicationYear = "publication_year"
)

// BookFields lists the serialized field names in their canonical order.
var BookFields = []string{
	FieldCode,
	FieldTitle,
	FieldAuthor,
	FieldGenre,
	FieldPublisher,
	FieldPublicationYear,
}

// Book is one catalog record.
//
// Fields are only reachable through setters, and a setter that rejects its
// value leaves the previous value in place. The zero Book has no code, empty
// text fields and the sentinel year 0; it must be filled in before it can be
// persisted.
type Book struct {
	code            int64
	title           string
	author          string
	genre           string
	publisher       string
	publicationYear int
}

// BookOption sets one field during NewBook.
type BookOption func(*Book) error

// WithCode sets the code.
func WithCode(code int64) BookOption {
	return func(b *Book) error { return b.SetCode(code) }
}

// WithTitle sets the title.
func WithTitle(title string) BookOption {
	return func(b *Book) error { return b.SetTitle(title) }
}

// WithAuthor sets the author.
func WithAuthor(author string) BookOption {
	return func(b *Book) error { return b.SetAuthor(author) }
}

// WithGenre sets the genre.
func WithGenre(genre string) BookOption {
	return func(b *Book) error { return b.SetGenre(genre) }
}

// WithPublisher sets the publisher.
func WithPublisher(publisher string) BookOption {
	return func(b *Book) error { return b.SetPublisher(publisher) }
}

// WithPublicationYear sets the publication year.
func WithPublicationYear(year int) BookOption {
	return func(b *Book) error { return b.SetPublicationYear(year) }
}

// NewBook builds a Book, applying each option through its setter.
// The first rejected value aborts construction.
func NewBook(opts ...BookOption) (*Book, error) {
	b := &Book{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// --- accessors ---

// Code returns the store-assigned identifier, or 0 when absent.
func (b *Book) Code() int64 { return b.code }

// HasCode reports whether the book carries an identifier.
func (b *Book) HasCode() bool { return b.code > 0 }

// Title returns the trimmed title.
func (b *Book) Title() string { return b.title }

// Author returns the trimmed author.
func (b *Book) Author() string { return b.author }

// Genre returns the trimmed genre.
func (b *Book) Genre() string { return b.genre }

// Publisher returns the trimmed publisher.
func (b *Book) Publisher() string { return b.publisher }

// PublicationYear returns the publication year, 0 when unset.
func (b *Book) PublicationYear() int { return b.publicationYear }

// --- setters ---

// SetCode assigns the identifier. It must be positive; use ClearCode to
// remove it.
func (b *Book) SetCode(code int64) error {
	if code <= 0 {
		return invalid(FieldCode, "must be a positive integer")
	}
	b.code = code
	return nil
}

// ClearCode removes the identifier.
func (b *Book) ClearCode() {
	b.code = 0
}

// SetTitle assigns the title.
func (b *Book) SetTitle(title string) error {
	return setText(&b.title, FieldTitle, title)
}

// SetAuthor assigns the author.
func (b *Book) SetAuthor(author string) error {
	return setText(&b.author, FieldAuthor, author)
}

// SetGenre assigns the genre.
func (b *Book) SetGenre(genre string) error {
	return setText(&b.genre, FieldGenre, genre)
}

// SetPublisher assigns the publisher.
func (b *Book) SetPublisher(publisher string) error {
	return setText(&b.publisher, FieldPublisher, publisher)
}

// SetPublicationYear assigns the publication year.
func (b *Book) SetPublicationYear(year int) error {
	if year < MinPublicationYear || year > MaxPublicationYear {
		return invalid(FieldPublicationYear,
			fmt.Sprintf("must be between %d and %d", MinPublicationYear, MaxPublicationYear))
	}
	b.publicationYear = year
	return nil
}

func setText(dst *string, field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return invalid(field, "must not be empty")
	}
	*dst = trimmed
	return nil
}

// Validate checks that every field required for persistence holds a valid
// value. It reports all failing fields at once.
func (b *Book) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value string
	}{
		{FieldTitle, b.title},
		{FieldAuthor, b.author},
		{FieldGenre, b.genre},
		{FieldPublisher, b.publisher},
	} {
		if f.value == "" {
			errs = append(errs, invalid(f.name, "must not be empty"))
		}
	}
	if b.publicationYear < MinPublicationYear || b.publicationYear > MaxPublicationYear {
		errs = append(errs, invalid(FieldPublicationYear,
			fmt.Sprintf("must be between %d and %d", MinPublicationYear, MaxPublicationYear)))
	}
	if b.code < 0 {
		errs = append(errs, invalid(FieldCode, "must be a positive integer"))
	}
	return errors.Join(errs...)
}

// Clone returns an independent copy.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// String returns a short summary for logs.
func (b *Book) String() string {
	return fmt.Sprintf("Book(code=%d, title=%q, author=%q)", b.code, b.title, b.author)
}

// =============================================================================
// Map conversion
// =============================================================================

// ToMap returns the book as a plain field map. The code is nil when absent.
func (b *Book) ToMap() map[string]any {
	var code any
	if b.HasCode() {
		code = b.code
	}
	return map[string]any{
		FieldCode:            code,
		FieldTitle:           b.title,
		FieldAuthor:          b.author,
		FieldGenre:           b.genre,
		FieldPublisher:       b.publisher,
		FieldPublicationYear: b.publicationYear,
	}
}

// BookFromMap rebuilds a Book from a field map, running every setter in
// order: code (optional), title, author, genre, publisher, publication year.
// Missing required keys and values of the wrong dynamic type are rejected.
func BookFromMap(m map[string]any) (*Book, error) {
	b := &Book{}

	if raw, ok := m[FieldCode]; ok && raw != nil {
		code, ok := toInt64(raw)
		if !ok {
			return nil, invalid(FieldCode, "must be an integer")
		}
		if err := b.SetCode(code); err != nil {
			return nil, err
		}
	}

	for _, f := range []struct {
		name string
		set  func(string) error
	}{
		{FieldTitle, b.SetTitle},
		{FieldAuthor, b.SetAuthor},
		{FieldGenre, b.SetGenre},
		{FieldPublisher, b.SetPublisher},
	} {
		raw, ok := m[f.name]
		if !ok || raw == nil {
			return nil, invalid(f.name, "is required")
		}
		s, ok := raw.(string)
		if !ok {
			return nil, invalid(f.name, "must be a string")
		}
		if err := f.set(s); err != nil {
			return nil, err
		}
	}

	raw, ok := m[FieldPublicationYear]
	if !ok || raw == nil {
		return nil, invalid(FieldPublicationYear, "is required")
	}
	year, ok := toInt64(raw)
	if !ok || year < math.MinInt32 || year > math.MaxInt32 {
		return nil, invalid(FieldPublicationYear, "must be an integer")
	}
	if err := b.SetPublicationYear(int(year)); err != nil {
		return nil, err
	}

	return b, nil
}

// toInt64 accepts Go integer kinds and json.Number holding an integer.
// Floats, bools and strings are rejected.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func uintToInt64(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON encodes the book through ToMap.
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToMap())
}

// UnmarshalJSON decodes the book through BookFromMap. The receiver is only
// replaced when every field validates.
func (b *Book) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	decoded, err := BookFromMap(m)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}
