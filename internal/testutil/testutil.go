package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps the in-memory database alive for the test.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	sqlxDB, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlxDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlxDB), "failed to apply migrations")
	return sqlxDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// LanguageID returns the id of a seeded language.
func LanguageID(t *testing.T, q *sqlx.DB, code string) int64 {
	t.Helper()

	var id int64
	err := q.GetContext(context.Background(), &id, q.Rebind(`SELECT id FROM languages WHERE code = ?`), code)
	require.NoError(t, err, "language %s not seeded", code)
	return id
}

// CountRows returns the number of rows in table matching an optional flashcard id.
func CountRows(t *testing.T, q *sqlx.DB, table, flashcardID string) int {
	t.Helper()

	var n int
	err := q.GetContext(context.Background(), &n, q.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE flashcard_id = ?`), flashcardID)
	require.NoError(t, err)
	return n
}
