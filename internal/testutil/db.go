// Package testutil holds helpers shared by package tests.
package testutil

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// OpenSQLite opens a fresh SQLite database file in t's temp dir. The
// database is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })
	return db
}

// MustExec runs statements on db, failing the test on the first error.
func MustExec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, st := range stmts {
		_, err := db.Exec(st)
		require.NoError(t, err, st)
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
