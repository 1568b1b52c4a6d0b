package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// CSVCodec handles CSV import/export. The first row is a header naming
// core fields; the code column is optional.
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Parse imports book records from CSV. Integer columns that do not parse
// are passed through as strings and rejected during validation.
func (c *CSVCodec) Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(core.BookFields, header[i]) {
			return nil, fmt.Errorf("failed to parse CSV header: unknown column %q", name)
		}
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		rec := make(Record, len(header))
		for i, name := range header {
			rec[name] = csvValue(name, row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

func csvValue(field, raw string) any {
	if field != core.FieldCode && field != core.FieldPublicationYear {
		return raw
	}
	s := strings.TrimSpace(raw)
	if field == core.FieldCode && s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return raw
}

// Export exports books to CSV with a header row.
func (c *CSVCodec) Export(books []*core.Book, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(core.BookFields); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	for _, b := range books {
		if err := writer.Write([]string{
			strconv.FormatInt(b.Code(), 10),
			b.Title(),
			b.Author(),
			b.Genre(),
			b.Publisher(),
			strconv.Itoa(b.PublicationYear()),
		}); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
