package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/leapstack-labs/bookcatalog/internal/codec"
	"github.com/leapstack-labs/bookcatalog/pkg/core"
	"github.com/spf13/cobra"
)

// ImportResult summarizes an import run.
type ImportResult struct {
	Created  []int64       `json:"created"`
	Rejected []ImportError `json:"rejected"`
}

// ImportError describes one record that could not be imported.
type ImportError struct {
	Record int    `json:"record"`
	Error  string `json:"error"`
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var format string
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add books from a JSON, YAML or CSV file",
		Long: `Add every valid record in the file as a new book.

Codes in the file are ignored; each book is assigned a fresh code. Records
are validated and created one at a time, so a bad record does not undo the
good ones before it. With --strict the whole file is validated first and
nothing is written if any record is invalid.`,
		Example: `  bookcatalog import books.yaml
  bookcatalog import --format csv export.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], format, strict)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (json|yaml|csv); default from extension")
	cmd.Flags().BoolVar(&strict, "strict", false, "Validate every record before writing any")

	return cmd
}

func runImport(cmd *cobra.Command, path, format string, strict bool) error {
	c, err := codec.ForFormat(resolveFormat(format, path))
	if err != nil {
		return err
	}

	f, err := os.Open(path) //nolint:gosec // user-chosen source
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := c.Parse(f)
	if err != nil {
		return err
	}

	books := make([]*core.Book, len(records))
	result := ImportResult{Created: []int64{}, Rejected: []ImportError{}}
	var firstErr error
	for i, rec := range records {
		book, err := codec.NewBook(rec)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			result.Rejected = append(result.Rejected, ImportError{Record: i + 1, Error: err.Error()})
			continue
		}
		books[i] = book
	}
	if strict && firstErr != nil {
		return fmt.Errorf("record %d: %w (%d invalid record(s), nothing imported)",
			result.Rejected[0].Record, firstErr, len(result.Rejected))
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	for i, book := range books {
		if book == nil {
			continue
		}
		code, err := cmdCtx.Store.Create(cmdCtx.Ctx, book)
		if err != nil {
			if core.KindOf(err) == core.KindStorage {
				return err
			}
			result.Rejected = append(result.Rejected, ImportError{Record: i + 1, Error: err.Error()})
			continue
		}
		cmdCtx.Logger.Debug("imported book", slog.Int("record", i+1), slog.Int64("code", code))
		result.Created = append(result.Created, code)
	}

	return renderImport(cmdCtx.Renderer, path, result)
}

func renderImport(r *output.Renderer, path string, result ImportResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}
	for _, rej := range result.Rejected {
		r.Warning(fmt.Sprintf("record %d skipped: %s", rej.Record, rej.Error))
	}
	r.Success(fmt.Sprintf("Imported %d of %d record(s) from %s",
		len(result.Created), len(result.Created)+len(result.Rejected), path))
	return nil
}
