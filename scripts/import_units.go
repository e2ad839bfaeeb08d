//go:build ignore

// import_units bulk-loads a YAML roster into the dispatch database.
//
//	go run scripts/import_units.go -file roster.yaml [-db path] [-dry-run]
//
// roster.yaml:
//
//	units:
//	  - id: m4
//	    name: Ember Fox
//	    level: 8
//	    element: FIRE
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// Unit represents one roster entry in the import file
type Unit struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Level   int    `yaml:"level"`
	Element string `yaml:"element"`
}

type rosterFile struct {
	Units []Unit `yaml:"units"`
}

func main() {
	file := flag.String("file", "", "YAML roster to import")
	dbPath := flag.String("db", "", "Database path (default ~/.dispatch/dispatch.db)")
	dryRun := flag.Bool("dry-run", false, "Preview import without executing")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		os.Exit(1)
	}

	if *dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home dir: %v\n", err)
			os.Exit(1)
		}
		*dbPath = filepath.Join(homeDir, ".dispatch", "dispatch.db")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading roster: %v\n", err)
		os.Exit(1)
	}
	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing roster: %v\n", err)
		os.Exit(1)
	}

	if len(roster.Units) == 0 {
		fmt.Println("No units found to import")
		return
	}

	fmt.Printf("Found %d unit(s) to import:\n\n", len(roster.Units))
	for _, u := range roster.Units {
		fmt.Printf("  %s: %s (level %d, %s)\n", u.ID, u.Name, u.Level, elementOrDash(u.Element))
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("=== DRY RUN - No changes made ===")
		return
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	imported, err := importUnits(db, roster.Units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing units: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Import complete: %d/%d units added (existing ids skipped) ===\n", imported, len(roster.Units))
}

func importUnits(db *sql.DB, units []Unit) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, u := range units {
		if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Name) == "" {
			return 0, fmt.Errorf("unit %q: id and name are required", u.ID)
		}
		var element any
		if e := strings.ToUpper(strings.TrimSpace(u.Element)); e != "" {
			element = e
		}
		res, err := tx.Exec("INSERT OR IGNORE INTO units (id, name, level, element) VALUES (?, ?, ?, ?)",
			u.ID, u.Name, u.Level, element)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", u.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}

	return imported, tx.Commit()
}

func elementOrDash(e string) string {
	if e == "" {
		return "-"
	}
	return e
}
