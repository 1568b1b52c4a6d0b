package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <code>",
		Aliases: []string{"rm"},
		Short:   "Delete a book",
		Long: `Delete the book with the given code.

The book is shown and confirmation is asked for on stdin unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, arg string, yes bool) error {
	code, err := parseCode(arg)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if !yes {
		book, found, err := cmdCtx.Store.GetByCode(cmdCtx.Ctx, code)
		if err != nil {
			return err
		}
		if !found {
			return &errNotFound{code: code}
		}
		question := fmt.Sprintf("Delete %q by %s (code %d)?", book.Title(), book.Author(), code)
		if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
			r.Muted("Cancelled")
			return nil
		}
	}

	deleted, err := cmdCtx.Store.Delete(cmdCtx.Ctx, code)
	if err != nil {
		return err
	}
	if !deleted {
		return &errNotFound{code: code}
	}
	r.Success(fmt.Sprintf("Deleted book %d", code))
	return nil
}
