package app

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// mockUnitRepository implements secondary.UnitRepository for testing.
type mockUnitRepository struct {
	*mockUnitRegistry
	created   []*secondary.UnitRecord
	createErr error
}

func (m *mockUnitRepository) Create(ctx context.Context, unit *secondary.UnitRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, unit)
	m.units[unit.ID] = mockUnit{level: unit.Level, element: unit.Element}
	return nil
}

func (m *mockUnitRepository) List(ctx context.Context) ([]*secondary.UnitRecord, error) {
	var ids []string
	for id := range m.units {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	records := make([]*secondary.UnitRecord, len(ids))
	for i, id := range ids {
		u := m.units[id]
		records[i] = &secondary.UnitRecord{ID: id, Name: "Unit " + id, Level: u.level, Element: u.element}
	}
	return records, nil
}

// mockMaterialRepository implements secondary.MaterialRepository for testing.
type mockMaterialRepository struct {
	*mockInventory
	byUser map[string]map[string]int
}

func (m *mockMaterialRepository) ListMaterials(ctx context.Context, userID string) (map[string]int, error) {
	return m.byUser[userID], nil
}

func addUnitRequest(id, name string, level int, element string) primary.AddUnitRequest {
	return primary.AddUnitRequest{ID: id, Name: name, Level: level, Element: element}
}

func newRosterFixture(t *testing.T) (*RosterServiceImpl, *dispatchFixture, *mockUnitRepository) {
	t.Helper()
	f := newDispatchFixture(t, defaultOptions())
	units := &mockUnitRepository{mockUnitRegistry: f.units}
	materials := &mockMaterialRepository{
		mockInventory: f.inventory,
		byUser: map[string]map[string]int{
			"player-1": {"herb_common": 4},
			"player-9": {"iron_ore": 1},
		},
	}
	return NewRosterService(units, materials, f.service, "player-1"), f, units
}

func TestRosterService_AddUnit(t *testing.T) {
	svc, _, units := newRosterFixture(t)
	ctx := context.Background()

	unit, err := svc.AddUnit(ctx, addUnitRequest("m9", "Storm Imp", 7, "wind"))
	if err != nil {
		t.Fatalf("AddUnit failed: %v", err)
	}
	if unit.Element != "WIND" || unit.Dispatched {
		t.Errorf("AddUnit() = %+v, want normalized element and not dispatched", unit)
	}
	if len(units.created) != 1 || units.created[0].ID != "m9" {
		t.Errorf("created = %v, want m9 persisted", units.created)
	}
}

func TestRosterService_AddUnitErrors(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		element   string
		createErr error
	}{
		{name: "duplicate id", id: "m1"},
		{name: "unknown element", id: "m9", element: "plasma"},
		{name: "repository failure", id: "m9", createErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, units := newRosterFixture(t)
			units.createErr = tt.createErr

			_, err := svc.AddUnit(context.Background(), addUnitRequest(tt.id, "Name", 1, tt.element))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestRosterService_ListUnitsShowsDispatchState(t *testing.T) {
	svc, f, _ := newRosterFixture(t)
	ctx := context.Background()
	missionID := f.start(t, "forest_1", 300, "m2")

	units, err := svc.ListUnits(ctx)
	if err != nil {
		t.Fatalf("ListUnits failed: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("ListUnits() returned %d units, want 3", len(units))
	}
	for _, u := range units {
		wantDispatched := u.ID == "m2"
		if u.Dispatched != wantDispatched {
			t.Errorf("unit %s Dispatched = %v, want %v", u.ID, u.Dispatched, wantDispatched)
		}
		if wantDispatched && u.MissionID != missionID {
			t.Errorf("unit %s MissionID = %q, want %q", u.ID, u.MissionID, missionID)
		}
	}
}

func TestRosterService_Inventory(t *testing.T) {
	svc, _, _ := newRosterFixture(t)

	got, err := svc.Inventory(context.Background())
	if err != nil {
		t.Fatalf("Inventory failed: %v", err)
	}
	if got["herb_common"] != 4 {
		t.Errorf("Inventory() = %v, want default player's balances", got)
	}

	got, _ = svc.Inventory(ctxutil.WithPlayerID(context.Background(), "player-9"))
	if got["iron_ore"] != 1 {
		t.Errorf("Inventory() = %v, want player-9's balances", got)
	}
}
