package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/leapstack-labs/bookcatalog/internal/cli/output"
	"github.com/leapstack-labs/bookcatalog/internal/state"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Database      string        `json:"database"`
	SizeBytes     int64         `json:"size_bytes"`
	SchemaVersion int64         `json:"schema_version"`
	Books         int           `json:"books"`
	Checks        []HealthCheck `json:"checks"`
	Healthy       bool          `json:"healthy"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "error"
	Detail string `json:"detail,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the catalog database",
		Long: `Report on the catalog database and check it for problems.

The doctor command reports:
- Database location and size
- Schema version
- Number of books
- SQLite integrity check
- Whether every stored record still passes field validation`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	report := buildDoctorOutput(cmdCtx)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(report); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, report)
	default:
		renderDoctorText(r, report)
	}

	if !report.Healthy {
		return fmt.Errorf("catalog %s has problems", report.Database)
	}
	return nil
}

func buildDoctorOutput(cmdCtx *CommandContext) *DoctorOutput {
	ctx := cmdCtx.Ctx
	store := cmdCtx.Store
	report := &DoctorOutput{Database: store.Path(), Healthy: true}

	if store.Path() != state.MemoryPath {
		if info, err := os.Stat(store.Path()); err == nil {
			report.SizeBytes = info.Size()
		}
	}

	checks := []struct {
		name string
		run  func() (string, error)
	}{
		{"schema version", func() (string, error) {
			v, err := store.SchemaVersion(ctx)
			report.SchemaVersion = v
			return strconv.FormatInt(v, 10), err
		}},
		{"book count", func() (string, error) {
			n, err := store.Count(ctx)
			report.Books = n
			return strconv.Itoa(n), err
		}},
		{"integrity check", func() (string, error) {
			return "ok", store.CheckIntegrity(ctx)
		}},
		{"record validation", func() (string, error) {
			books, err := store.List(ctx)
			return fmt.Sprintf("%d valid", len(books)), err
		}},
	}

	// Checks are independent reads; each runs on its own session.
	report.Checks = make([]HealthCheck, len(checks))
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			detail, err := c.run()
			check := HealthCheck{Name: c.name, Status: "pass", Detail: detail}
			if err != nil {
				check.Status = "error"
				check.Detail = err.Error()
			}
			report.Checks[i] = check
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range report.Checks {
		if c.Status != "pass" {
			report.Healthy = false
		}
	}
	cmdCtx.Logger.Debug("doctor finished", slog.Bool("healthy", report.Healthy))
	return report
}

func renderDoctorText(r *output.Renderer, report *DoctorOutput) {
	titler := cases.Title(language.English)

	r.Header(1, "Catalog Health")
	r.StatusLine("Database", "", report.Database)
	r.StatusLine("Size", "", fmt.Sprintf("%d bytes", report.SizeBytes))
	r.Println("")

	r.Header(2, "Checks")
	for _, c := range report.Checks {
		status := "success"
		if c.Status != "pass" {
			status = "error"
		}
		r.StatusLine(titler.String(c.Name), status, c.Detail)
	}
	r.Println("")

	if report.Healthy {
		r.Success("Catalog is healthy")
	} else {
		r.Error("Catalog has problems")
	}
}

func renderDoctorMarkdown(r *output.Renderer, report *DoctorOutput) {
	titler := cases.Title(language.English)

	r.Println(output.FormatHeader(1, "Catalog Health"))
	r.Println("")
	r.Println(output.FormatKeyValue("Database", report.Database))
	r.Println(output.FormatKeyValue("Size", fmt.Sprintf("%d bytes", report.SizeBytes)))
	r.Println("")
	r.Println(output.FormatHeader(2, "Checks"))
	r.Println("")
	r.Println("| Check | Status | Detail |")
	r.Println("| --- | --- | --- |")
	for _, c := range report.Checks {
		r.Printf("| %s | %s | %s |\n", titler.String(c.Name), c.Status, c.Detail)
	}
}
