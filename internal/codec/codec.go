// Package codec converts the catalog to and from portable file formats.
package codec

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// Record is one decoded book before validation, keyed by core field names.
type Record = map[string]any

// Importer decodes book records from a file format.
type Importer interface {
	Parse(r io.Reader) ([]Record, error)
	Format() string
}

// Exporter encodes books into a file format.
type Exporter interface {
	Export(books []*core.Book, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format.
type Codec interface {
	Importer
	Exporter
}

// Formats lists the supported format identifiers.
var Formats = []string{"json", "yaml", "csv"}

// ForFormat returns the codec for a format identifier. "yml" is accepted
// as an alias for yaml.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "csv":
		return NewCSVCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// FormatFromPath guesses the format from a file extension. It returns ""
// when the extension is not recognized.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	ext := strings.ToLower(path[i+1:])
	if ext == "yml" {
		return "yaml"
	}
	if slices.Contains(Formats, ext) {
		return ext
	}
	return ""
}

// NewBook validates one imported record. Any code in the record is
// dropped: imported books always receive a fresh code from the store.
func NewBook(rec Record) (*core.Book, error) {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != core.FieldCode {
			fields[k] = v
		}
	}
	return core.BookFromMap(fields)
}
