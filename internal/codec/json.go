package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// jsonDocument is the exported file shape.
type jsonDocument struct {
	Books []*core.Book `json:"books"`
}

// Parse reads either {"books": [...]} or a bare array of book objects.
// Numbers are kept as json.Number so integer checks stay exact.
func (c *JSONCodec) Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nonNil(records), nil
	}

	var doc struct {
		Books []Record `json:"books"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nonNil(doc.Books), nil
}

// Export exports books to JSON
func (c *JSONCodec) Export(books []*core.Book, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if books == nil {
		books = []*core.Book{}
	}
	if err := encoder.Encode(jsonDocument{Books: books}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func nonNil(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
