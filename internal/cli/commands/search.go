package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// Search fields accepted by --by.
const (
	searchByTitle  = "title"
	searchByAuthor = "author"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Find books by title or author",
		Long: `Find books whose title (default) or author contains the term.

Matching ignores ASCII letter case. An empty or missing term lists every book.`,
		Example: `  bookcatalog search app
  bookcatalog search --by author herbert`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return runSearch(cmd, by, term)
		},
	}
	cmd.Flags().StringVar(&by, "by", searchByTitle, "Field to search (title|author)")
	_ = cmd.RegisterFlagCompletionFunc("by", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{searchByTitle, searchByAuthor}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// BookSearcher is the subset of the store used for searching.
type BookSearcher interface {
	List(ctx context.Context) ([]*core.Book, error)
	SearchByTitle(ctx context.Context, term string) ([]*core.Book, error)
	SearchByAuthor(ctx context.Context, term string) ([]*core.Book, error)
}

// searchBooks runs a search. A blank term lists everything.
func searchBooks(ctx context.Context, s BookSearcher, by, term string) ([]*core.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	switch by {
	case searchByAuthor:
		return s.SearchByAuthor(ctx, term)
	case searchByTitle, "":
		return s.SearchByTitle(ctx, term)
	default:
		return nil, &core.FieldError{Field: "by", Reason: fmt.Sprintf("must be %q or %q", searchByTitle, searchByAuthor)}
	}
}

func runSearch(cmd *cobra.Command, by, term string) error {
	by = strings.ToLower(strings.TrimSpace(by))
	if by != searchByTitle && by != searchByAuthor {
		return &core.FieldError{Field: "by", Reason: fmt.Sprintf("must be %q or %q", searchByTitle, searchByAuthor)}
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	books, err := searchBooks(cmdCtx.Ctx, cmdCtx.Store, by, term)
	if err != nil {
		return err
	}

	title := "Books"
	if strings.TrimSpace(term) != "" {
		title = fmt.Sprintf("Books with %s matching %q", by, term)
	}
	return cmdCtx.Renderer.Books(title, books)
}
