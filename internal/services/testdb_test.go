package services

import (
	"database/sql"
	"testing"

	"github.com/isdelr/taskvault-be/internal/database"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps the in-memory database alive across queries.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
