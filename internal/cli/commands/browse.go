package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/bookcatalog/internal/state"
	"github.com/leapstack-labs/bookcatalog/internal/tui"
	"github.com/spf13/cobra"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in a full-screen table",
		Long: `Open a full-screen table of every book.

Press / to search as you type, tab to switch between title and author
search, d to delete the selected book and q to quit. The table reloads by
itself when another process changes the catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := tui.Options{
				Logger: cmdCtx.Logger,
				Program: []tea.ProgramOption{
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				},
			}
			if path := cmdCtx.Store.Path(); path != state.MemoryPath {
				opts.WatchPath = path
			}
			return tui.Run(cmdCtx.Ctx, cmdCtx.Store, opts)
		},
	}
}
