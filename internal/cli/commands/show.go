package commands

import (
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show one book",
		Long:  `Show every field of the book with the given code.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseCode(args[0])
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
			return cmdCtx.Renderer.Book(book)
		},
	}
}
