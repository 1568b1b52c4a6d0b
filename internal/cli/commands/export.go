package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/bookcatalog/internal/codec"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var format, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalog to a file",
		Long: `Write every book, ordered by title, as JSON, YAML or CSV.

Without --file the data goes to stdout. Without --format the format is
taken from the file extension, defaulting to JSON.`,
		Example: `  bookcatalog export --file books.yaml
  bookcatalog export --format csv > books.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, format, file)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json|yaml|csv)")
	cmd.Flags().StringVar(&file, "file", "", "Destination file (default: stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return codec.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// resolveFormat picks the explicit format, else the file extension, else JSON.
func resolveFormat(format, path string) string {
	if format != "" {
		return format
	}
	if f := codec.FormatFromPath(path); f != "" {
		return f
	}
	return "json"
}

func runExport(cmd *cobra.Command, format, file string) error {
	c, err := codec.ForFormat(resolveFormat(format, file))
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	books, err := cmdCtx.Store.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if file != "" {
		f, err := os.Create(file) //nolint:gosec // user-chosen destination
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := c.Export(books, w); err != nil {
		return err
	}
	if file != "" {
		cmdCtx.Renderer.Success(fmt.Sprintf("Exported %d book(s) to %s", len(books), file))
	}
	return nil
}
