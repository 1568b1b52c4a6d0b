package commands

import (
	"fmt"

	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add a book to the catalog and print the code it was assigned.

All five fields are required. Text fields are trimmed and must not be
blank; the publication year must lie between 1000 and 2030.`,
		Example: `  bookcatalog add --title Dune --author Herbert --genre SciFi --publisher Ace --year 1965`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, flags *bookFlags) error {
	book, err := core.NewBook(flags.options()...)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	code, err := cmdCtx.Store.Create(cmdCtx.Ctx, book)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.NewBookInfo(book))
	}
	r.Success(fmt.Sprintf("Added book %d: %s", code, book.Title()))
	return nil
}
