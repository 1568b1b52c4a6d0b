package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument represents the YAML structure for catalog data
type yamlDocument struct {
	Books []yamlBook `yaml:"books"`
}

type yamlBook struct {
	Code            int64  `yaml:"code,omitempty"`
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	Genre           string `yaml:"genre"`
	Publisher       string `yaml:"publisher"`
	PublicationYear int    `yaml:"publication_year"`
}

// Parse imports book records from YAML. Values are decoded untyped so
// that type errors surface as field errors during validation.
func (c *YAMLCodec) Parse(r io.Reader) ([]Record, error) {
	var doc struct {
		Books []Record `yaml:"books"`
	}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nonNil(doc.Books), nil
}

// Export exports books to YAML
func (c *YAMLCodec) Export(books []*core.Book, w io.Writer) error {
	doc := yamlDocument{Books: make([]yamlBook, 0, len(books))}
	for _, b := range books {
		doc.Books = append(doc.Books, yamlBook{
			Code:            b.Code(),
			Title:           b.Title(),
			Author:          b.Author(),
			Genre:           b.Genre(),
			Publisher:       b.Publisher(),
			PublicationYear: b.PublicationYear(),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
