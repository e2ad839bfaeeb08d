package primary

import "context"

// RosterService defines the primary port for the player's units and materials.
type RosterService interface {
	// AddUnit adds a unit to the roster.
	AddUnit(ctx context.Context, req AddUnitRequest) (*Unit, error)

	// ListUnits returns every unit with its dispatch state.
	ListUnits(ctx context.Context) ([]*Unit, error)

	// Inventory returns the current player's material balances.
	Inventory(ctx context.Context) (map[string]int, error)
}

// AddUnitRequest contains parameters for adding a unit.
type AddUnitRequest struct {
	ID      string
	Name    string
	Level   int
	Element string
}

// Unit represents a roster unit at the port boundary.
type Unit struct {
	ID         string
	Name       string
	Level      int
	Element    string
	Dispatched bool
	MissionID  string // set while dispatched
}
