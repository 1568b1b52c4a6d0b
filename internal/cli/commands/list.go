package commands

import (
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all books ordered by title",
		Long: `List every book in the catalog, ordered by title.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List books (auto-detect output format)
  bookcatalog list

  # List books as JSON
  bookcatalog list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	books, err := cmdCtx.Store.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Books("Books", books)
}
