package sqlite

import (
	"database/sql"
	"testing"

	"legend-tracker/internal/database"

	"github.com/rs/zerolog"
)

// openTestDB opens a throwaway in-memory database with migrations applied.
// MaxOpenConns is pinned to 1 so the pool does not hand out a second,
// empty :memory: database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db, zerolog.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
