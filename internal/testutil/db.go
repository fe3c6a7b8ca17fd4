package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/console/internal/history/migrations"
)

// NewTestDB creates an in-memory SQLite database with migrations applied.
// The database is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open in-memory database")

	// Every pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, migrations.Run(db), "failed to run migrations")
	return db
}

// SeedHistory inserts lines into the history table under session.
func SeedHistory(t *testing.T, db *sql.DB, session string, lines ...string) {
	t.Helper()

	for _, line := range lines {
		_, err := db.Exec("INSERT INTO history (line, session) VALUES (?, ?)", line, session)
		require.NoError(t, err, "failed to seed history line %q", line)
	}
}
