package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks(t *testing.T) []*core.Book {
	t.Helper()
	dune, err := core.NewBook(
		core.WithCode(1),
		core.WithTitle("Dune"),
		core.WithAuthor("Herbert"),
		core.WithGenre("SciFi"),
		core.WithPublisher("Ace"),
		core.WithPublicationYear(1965),
	)
	require.NoError(t, err)
	quoted, err := core.NewBook(
		core.WithCode(2),
		core.WithTitle(`Say "Hello", World`),
		core.WithAuthor("O'Brien"),
		core.WithGenre("Essays"),
		core.WithPublisher("Small, Press"),
		core.WithPublicationYear(2001),
	)
	require.NoError(t, err)
	return []*core.Book{dune, quoted}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"json", "yaml", "yml", "CSV"} {
		c, err := ForFormat(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, c.Format())
	}

	_, err := ForFormat("xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "json", FormatFromPath("books.json"))
	assert.Equal(t, "yaml", FormatFromPath("/tmp/books.YML"))
	assert.Equal(t, "yaml", FormatFromPath("books.yaml"))
	assert.Equal(t, "csv", FormatFromPath("dir.v2/books.csv"))
	assert.Equal(t, "", FormatFromPath("books"))
	assert.Equal(t, "", FormatFromPath("books.txt"))
}

// Every codec must read back what it wrote, minus codes.
func TestCodecs_ExportThenImport(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, c.Export(sampleBooks(t), &buf))

			records, err := c.Parse(&buf)
			require.NoError(t, err)
			require.Len(t, records, 2)

			for i, want := range sampleBooks(t) {
				got, err := NewBook(records[i])
				require.NoError(t, err)
				assert.False(t, got.HasCode(), "codes are not imported")
				assert.Equal(t, want.Title(), got.Title())
				assert.Equal(t, want.Publisher(), got.Publisher())
				assert.Equal(t, want.PublicationYear(), got.PublicationYear())
			}
		})
	}
}

func TestJSONCodec_Parse(t *testing.T) {
	c := NewJSONCodec()

	records, err := c.Parse(strings.NewReader(`[{"title":"A","author":"B","genre":"C","publisher":"D","publication_year":1999}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	_, err = NewBook(records[0])
	require.NoError(t, err)

	records, err = c.Parse(strings.NewReader(`{"books":[{"title":"A","publication_year":1999.5}]}`))
	require.NoError(t, err)
	_, err = NewBook(records[0])
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	records, err = c.Parse(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err = c.Parse(strings.NewReader(`{"books":`))
	assert.ErrorContains(t, err, "failed to parse JSON")
}

func TestYAMLCodec_Parse(t *testing.T) {
	c := NewYAMLCodec()

	records, err := c.Parse(strings.NewReader(`
books:
  - title: Dune
    author: Herbert
    genre: SciFi
    publisher: Ace
    publication_year: 1965
  - title: Broken
    author: X
    genre: Y
    publisher: Z
    publication_year: "soon"
`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	dune, err := NewBook(records[0])
	require.NoError(t, err)
	assert.Equal(t, 1965, dune.PublicationYear())

	_, err = NewBook(records[1])
	var fe *core.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, core.FieldPublicationYear, fe.Field)

	records, err = c.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = c.Parse(strings.NewReader("books: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestCSVCodec_Parse(t *testing.T) {
	c := NewCSVCodec()

	records, err := c.Parse(strings.NewReader("Title,Author,Genre,Publisher,Publication_Year\nDune,Herbert,SciFi,Ace,1965\nOdd,A,B,C,MCMLXV\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	dune, err := NewBook(records[0])
	require.NoError(t, err)
	assert.Equal(t, "Dune", dune.Title())

	_, err = NewBook(records[1])
	assert.ErrorContains(t, err, "must be an integer")

	_, err = c.Parse(strings.NewReader("title,isbn\nA,1\n"))
	assert.ErrorContains(t, err, `unknown column "isbn"`)

	_, err = c.Parse(strings.NewReader("title,author\nA\n"))
	assert.ErrorContains(t, err, "failed to parse CSV")

	records, err = c.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVCodec_ExportHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVCodec().Export(nil, &buf))
	assert.Equal(t, "code,title,author,genre,publisher,publication_year\n", buf.String())
}

func TestJSONCodec_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(nil, &buf))
	assert.JSONEq(t, `{"books":[]}`, buf.String())
}
