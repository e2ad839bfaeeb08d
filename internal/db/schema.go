package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it via
// GetSchemaSQL() so repository code fails fast with "no such column" on drift.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Active dispatch missions (ongoing or completed, not yet claimed)
CREATE TABLE IF NOT EXISTS dispatch_missions (
	id TEXT PRIMARY KEY,
	region_id TEXT NOT NULL,
	unit_ids TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	duration INTEGER NOT NULL CHECK(duration > 0),
	end_time INTEGER NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('ongoing', 'completed')) DEFAULT 'ongoing',
	rewards TEXT,
	great_success INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL
);

-- Claimed missions, kept for display
CREATE TABLE IF NOT EXISTS dispatch_history (
	id TEXT PRIMARY KEY,
	region_id TEXT NOT NULL,
	unit_ids TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	rewards TEXT NOT NULL,
	great_success INTEGER NOT NULL DEFAULT 0,
	claimed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dispatch_history_claimed ON dispatch_history(claimed_at);

-- Unit roster (the unit registry)
CREATE TABLE IF NOT EXISTS units (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	level INTEGER NOT NULL DEFAULT 1 CHECK(level >= 0),
	element TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Player material inventory
CREATE TABLE IF NOT EXISTS materials (
	user_id TEXT NOT NULL,
	material_id TEXT NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 0 CHECK(quantity >= 0),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, material_id)
);

-- Applied reward grants, one per claimed mission
CREATE TABLE IF NOT EXISTS reward_grants (
	grant_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	granted_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the schema on a fresh database or migrates an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	var oldTableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = 'dispatch_missions'").Scan(&oldTableCount)
	if err != nil {
		return err
	}
	if oldTableCount > 0 {
		// Tables without version tracking - replay migrations
		return RunMigrations(db)
	}

	// Completely fresh install - create modern schema directly and
	// mark every migration as applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
