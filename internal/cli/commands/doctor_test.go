package commands

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/bookcatalog/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctor_Healthy(t *testing.T) {
	dbPath := testutil.SetupCatalog(t, "json")
	seed(t, dbPath, book(t, "Dune", "Herbert", 1965))

	out, _, err := run(t, NewDoctorCommand(), "")
	require.NoError(t, err)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Healthy)
	assert.Equal(t, dbPath, report.Database)
	assert.Equal(t, int64(1), report.SchemaVersion)
	assert.Equal(t, 1, report.Books)
	assert.Positive(t, report.SizeBytes)

	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
		assert.Equal(t, "pass", c.Status, c.Name)
	}
	assert.Equal(t, []string{"schema version", "book count", "integrity check", "record validation"}, names)
}

func TestDoctor_InvalidRecord(t *testing.T) {
	dbPath := testutil.SetupCatalog(t, "text")
	seed(t, dbPath, book(t, "Dune", "Herbert", 1965))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO books (title, author, genre, publisher, publication_year)
		VALUES ('Old', 'Scribe', 'Myth', 'Clay', 999)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := run(t, NewDoctorCommand(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has problems")
	assert.Contains(t, out, "Record Validation")
	assert.Contains(t, out, "publication_year must be between 1000 and 2030")
}

func TestDoctor_Markdown(t *testing.T) {
	testutil.SetupCatalog(t, "markdown")

	out, _, err := run(t, NewDoctorCommand(), "")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Catalog Health")
	assert.Contains(t, out, "| Integrity Check | pass | ok |")
	assert.Contains(t, out, "| Book Count | pass | 0 |")
}
