// Package testdb opens a migrated in-memory database for tests.
package testdb

import (
	"database/sql"
	"testing"

	"campuscms/internal/database"
)

func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
