package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
)

// BookInfo is the JSON shape of one book.
type BookInfo struct {
	Code            int64  `json:"code"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
}

// BookListOutput is the JSON shape of list and search results.
type BookListOutput struct {
	Books []BookInfo `json:"books"`
	Total int        `json:"total"`
}

// NewBookInfo converts a book for JSON output.
func NewBookInfo(b *core.Book) BookInfo {
	return BookInfo{
		Code:            b.Code(),
		Title:           b.Title(),
		Author:          b.Author(),
		Genre:           b.Genre(),
		Publisher:       b.Publisher(),
		PublicationYear: b.PublicationYear(),
	}
}

var bookHeader = []string{"Code", "Title", "Author", "Genre", "Publisher", "Year"}

func bookCells(b *core.Book) []string {
	return []string{
		strconv.FormatInt(b.Code(), 10),
		b.Title(),
		b.Author(),
		b.Genre(),
		b.Publisher(),
		strconv.Itoa(b.PublicationYear()),
	}
}

// Books writes a list of books under title, followed by a total line.
func (r *Renderer) Books(title string, books []*core.Book) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		out := BookListOutput{Books: make([]BookInfo, 0, len(books)), Total: len(books)}
		for _, b := range books {
			out.Books = append(out.Books, NewBookInfo(b))
		}
		return r.JSON(out)
	case ModeMarkdown:
		r.booksMarkdown(title, books)
	default:
		r.booksText(title, books)
	}
	return nil
}

func (r *Renderer) booksText(title string, books []*core.Book) {
	if title != "" {
		r.Header(1, title)
	}
	if len(books) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)

		header := make(table.Row, len(bookHeader))
		for i, h := range bookHeader {
			header[i] = h
		}
		t.AppendHeader(header)

		for _, b := range books {
			cells := bookCells(b)
			row := make(table.Row, len(cells))
			for i, c := range cells {
				row[i] = c
			}
			t.AppendRow(row)
		}
		t.Render()
	}
	r.Muted(TotalLine(len(books)))
}

func (r *Renderer) booksMarkdown(title string, books []*core.Book) {
	if title != "" {
		r.Header(1, title)
	}
	if len(books) > 0 {
		r.Printf("| %s |\n", strings.Join(bookHeader, " | "))
		seps := make([]string, len(bookHeader))
		for i := range seps {
			seps[i] = "---"
		}
		r.Printf("| %s |\n", strings.Join(seps, " | "))
		for _, b := range books {
			cells := bookCells(b)
			for i, c := range cells {
				cells[i] = escapeMarkdownCell(c)
			}
			r.Printf("| %s |\n", strings.Join(cells, " | "))
		}
		r.Println("")
	}
	r.Println(TotalLine(len(books)))
}

// Book writes the details of one book.
func (r *Renderer) Book(b *core.Book) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(NewBookInfo(b))
	case ModeMarkdown:
		r.Header(1, b.Title())
		for i, cell := range bookCells(b) {
			r.Println(FormatKeyValue(bookHeader[i], cell))
		}
	default:
		r.Header(1, b.Title())
		for i, cell := range bookCells(b) {
			r.StatusLine(fmt.Sprintf("%-9s", bookHeader[i]), "", cell)
		}
	}
	return nil
}

// TotalLine returns "N book(s)".
func TotalLine(n int) string {
	if n == 1 {
		return "1 book"
	}
	return fmt.Sprintf("%d books", n)
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
