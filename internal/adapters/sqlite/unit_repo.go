package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// UnitRepository implements secondary.UnitRepository with SQLite.
type UnitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new SQLite unit repository.
func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// Exists reports whether a unit with the given ID is on the roster.
func (r *UnitRepository) Exists(ctx context.Context, unitID string) (bool, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM units WHERE id = ?", unitID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check unit %s: %w", unitID, err)
	}
	return count > 0, nil
}

// LevelOf returns the unit's level.
func (r *UnitRepository) LevelOf(ctx context.Context, unitID string) (int, error) {
	u, err := r.get(ctx, unitID)
	if err != nil {
		return 0, err
	}
	return u.Level, nil
}

// ElementOf returns the unit's element, empty if it has none.
func (r *UnitRepository) ElementOf(ctx context.Context, unitID string) (string, error) {
	u, err := r.get(ctx, unitID)
	if err != nil {
		return "", err
	}
	return u.Element, nil
}

// Create adds a unit to the roster.
func (r *UnitRepository) Create(ctx context.Context, unit *secondary.UnitRecord) error {
	var element sql.NullString
	if unit.Element != "" {
		element = sql.NullString{String: unit.Element, Valid: true}
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO units (id, name, level, element) VALUES (?, ?, ?, ?)",
		unit.ID, unit.Name, unit.Level, element,
	)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// List returns every unit ordered by ID.
func (r *UnitRepository) List(ctx context.Context) ([]*secondary.UnitRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT id, name, level, element FROM units ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*secondary.UnitRecord
	for rows.Next() {
		var element sql.NullString
		u := &secondary.UnitRecord{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Level, &element); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		u.Element = element.String
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate units: %w", err)
	}
	return units, nil
}

func (r *UnitRepository) get(ctx context.Context, unitID string) (*secondary.UnitRecord, error) {
	var element sql.NullString
	u := &secondary.UnitRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, level, element FROM units WHERE id = ?", unitID,
	).Scan(&u.ID, &u.Name, &u.Level, &element)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unit %s not found", unitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	u.Element = element.String
	return u, nil
}

// Ensure UnitRepository implements the interface
var _ secondary.UnitRepository = (*UnitRepository)(nil)
