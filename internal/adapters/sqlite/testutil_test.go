// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/dispatch/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// openFileDB opens path the way the CLI does, so several handles can share one file.
func openFileDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	fileDB, err := db.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	t.Cleanup(func() {
		fileDB.Close()
	})
	return fileDB
}

// seedUnit inserts a roster unit.
func seedUnit(t *testing.T, db *sql.DB, id string, level int, element string) {
	t.Helper()
	var el any
	if element != "" {
		el = element
	}
	_, err := db.Exec("INSERT INTO units (id, name, level, element) VALUES (?, ?, ?, ?)", id, "Unit "+id, level, el)
	if err != nil {
		t.Fatalf("failed to seed unit: %v", err)
	}
}
