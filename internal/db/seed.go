package db

import (
	"database/sql"
	"fmt"
)

// SeedUnits populates the unit roster with a starter party.
// Existing units are left untouched.
func SeedUnits(database *sql.DB) error {
	units := []struct {
		id, name, element string
		level             int
	}{
		{"m1", "Basic Slime", "EARTH", 1},
		{"m2", "Fang Hound", "FIRE", 5},
		{"m3", "Tide Sprite", "WATER", 12},
	}
	for _, u := range units {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO units (id, name, level, element) VALUES (?, ?, ?, ?)",
			u.id, u.name, u.level, u.element,
		); err != nil {
			return fmt.Errorf("seed units: %w", err)
		}
	}
	return nil
}
