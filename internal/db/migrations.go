package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_dispatch_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_great_success_to_missions",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_reward_grants_table",
		Up:      migrationV3,
	},
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations applies every migration newer than the recorded schema version.
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}

func migrationV1(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dispatch_missions (
			id TEXT PRIMARY KEY,
			region_id TEXT NOT NULL,
			unit_ids TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			duration INTEGER NOT NULL CHECK(duration > 0),
			end_time INTEGER NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('ongoing', 'completed')) DEFAULT 'ongoing',
			rewards TEXT,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dispatch_history (
			id TEXT PRIMARY KEY,
			region_id TEXT NOT NULL,
			unit_ids TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			rewards TEXT NOT NULL,
			claimed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dispatch_history_claimed ON dispatch_history(claimed_at)`,
		`CREATE TABLE IF NOT EXISTS units (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1 CHECK(level >= 0),
			element TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS materials (
			user_id TEXT NOT NULL,
			material_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0 CHECK(quantity >= 0),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, material_id)
		)`,
	}
	return execAll(tx, stmts)
}

func migrationV2(tx *sql.Tx) error {
	return execAll(tx, []string{
		`ALTER TABLE dispatch_missions ADD COLUMN great_success INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE dispatch_history ADD COLUMN great_success INTEGER NOT NULL DEFAULT 0`,
	})
}

func migrationV3(tx *sql.Tx) error {
	return execAll(tx, []string{
		`CREATE TABLE IF NOT EXISTS reward_grants (
			grant_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			granted_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	})
}

func execAll(tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
