package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// bookFlags holds the per-field flags shared by add and update.
type bookFlags struct {
	title     string
	author    string
	genre     string
	publisher string
	year      int
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title")
	cmd.Flags().StringVar(&f.author, "author", "", "Author name")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Genre")
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "Publisher")
	cmd.Flags().IntVar(&f.year, "year", 0, fmt.Sprintf("Publication year (%d-%d)", core.MinPublicationYear, core.MaxPublicationYear))
}

// options returns a BookOption for every field.
func (f *bookFlags) options() []core.BookOption {
	return []core.BookOption{
		core.WithTitle(f.title),
		core.WithAuthor(f.author),
		core.WithGenre(f.genre),
		core.WithPublisher(f.publisher),
		core.WithPublicationYear(f.year),
	}
}

// apply sets only the fields whose flags were given on the command line.
// It reports how many fields were changed.
func (f *bookFlags) apply(cmd *cobra.Command, b *core.Book) (int, error) {
	changed := 0
	set := func(flag string, fn func() error) error {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		changed++
		return fn()
	}

	if err := set("title", func() error { return b.SetTitle(f.title) }); err != nil {
		return changed, err
	}
	if err := set("author", func() error { return b.SetAuthor(f.author) }); err != nil {
		return changed, err
	}
	if err := set("genre", func() error { return b.SetGenre(f.genre) }); err != nil {
		return changed, err
	}
	if err := set("publisher", func() error { return b.SetPublisher(f.publisher) }); err != nil {
		return changed, err
	}
	if err := set("year", func() error { return b.SetPublicationYear(f.year) }); err != nil {
		return changed, err
	}
	return changed, nil
}

// confirm asks a yes/no question on in and reports whether the answer was yes.
// Anything other than y or yes, including EOF, counts as no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
