package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Change fields of an existing book",
		Long: `Change one or more fields of the book with the given code.

Only the flags you pass are changed; every other field keeps its stored value.`,
		Example: `  bookcatalog update 1 --year 1966
  bookcatalog update 1 --title "Dune Messiah" --year 1969`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args[0], &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, arg string, flags *bookFlags) error {
	code, err := parseCode(arg)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	book, found, err := cmdCtx.Store.GetByCode(cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !found {
		return &errNotFound{code: code}
	}

	changed, err := flags.apply(cmd, book)
	if err != nil {
		return err
	}
	if changed == 0 {
		return errors.New("nothing to update: pass at least one of --title, --author, --genre, --publisher, --year")
	}

	updated, err := cmdCtx.Store.Update(cmdCtx.Ctx, book)
	if err != nil {
		return err
	}
	if !updated {
		return &errNotFound{code: code}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.NewBookInfo(book))
	}
	r.Success(fmt.Sprintf("Updated book %d", code))
	return nil
}
