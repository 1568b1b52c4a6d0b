package commands

import (
	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := cmdCtx.Store.Count(cmdCtx.Ctx)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]int{"total": n})
			}
			r.Println(output.TotalLine(n))
			return nil
		},
	}
}
