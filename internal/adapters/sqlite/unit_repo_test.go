package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestUnitRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	seedUnit(t, db, "m1", 1, "EARTH")
	seedUnit(t, db, "m3", 10, "")
	repo := sqlite.NewUnitRepository(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		id          string
		wantExists  bool
		wantLevel   int
		wantElement string
	}{
		{name: "unit with element", id: "m1", wantExists: true, wantLevel: 1, wantElement: "EARTH"},
		{name: "unit without element", id: "m3", wantExists: true, wantLevel: 10},
		{name: "unknown unit", id: "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.Exists(ctx, tt.id)
			if err != nil {
				t.Fatalf("Exists failed: %v", err)
			}
			if exists != tt.wantExists {
				t.Errorf("Exists() = %v, want %v", exists, tt.wantExists)
			}

			level, err := repo.LevelOf(ctx, tt.id)
			if !tt.wantExists {
				if err == nil {
					t.Error("LevelOf() expected error for unknown unit")
				}
				return
			}
			if err != nil {
				t.Fatalf("LevelOf failed: %v", err)
			}
			if level != tt.wantLevel {
				t.Errorf("LevelOf() = %d, want %d", level, tt.wantLevel)
			}

			element, err := repo.ElementOf(ctx, tt.id)
			if err != nil {
				t.Fatalf("ElementOf failed: %v", err)
			}
			if element != tt.wantElement {
				t.Errorf("ElementOf() = %q, want %q", element, tt.wantElement)
			}
		})
	}
}

func TestUnitRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewUnitRepository(db)
	ctx := context.Background()

	for _, u := range []*secondary.UnitRecord{
		{ID: "m2", Name: "Fang Hound", Level: 5, Element: "FIRE"},
		{ID: "m1", Name: "Basic Slime", Level: 1},
	} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create(%s) failed: %v", u.ID, err)
		}
	}

	if err := repo.Create(ctx, &secondary.UnitRecord{ID: "m1", Name: "Dup", Level: 1}); err == nil {
		t.Error("Create() expected error for duplicate id")
	}

	units, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("List() returned %d units, want 2", len(units))
	}
	if units[0].ID != "m1" || units[1].Element != "FIRE" {
		t.Errorf("List() = [%+v %+v], want ordered by id", units[0], units[1])
	}
}
