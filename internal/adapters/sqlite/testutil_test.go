// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup goes through setupTestDB, which loads db.GetSchemaSQL() so
// tests always run against the authoritative schema. Do not hardcode CREATE
// TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/debits/internal/adapters/sqlite"
	"github.com/example/debits/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTemplate creates a template with the given items and returns its ID.
func seedTemplate(t *testing.T, repo *sqlite.ChecklistRepository, name, workspaceID string, items []string) int64 {
	t.Helper()

	id, err := repo.CreateTemplate(context.Background(), name, workspaceID, "U_CREATOR", items)
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	return id
}

// seedBalance credits a user so tests start from a known balance.
func seedBalance(t *testing.T, repo *sqlite.LedgerRepository, workspaceID, userID string, amount int64) {
	t.Helper()

	if _, err := repo.Add(context.Background(), workspaceID, userID, amount, ""); err != nil {
		t.Fatalf("seed Add failed: %v", err)
	}
}
