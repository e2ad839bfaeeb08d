// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// InventoryService defines the secondary port that credits rewards to a player.
type InventoryService interface {
	// ApplyRewards applies every delta in the grant or none of them.
	// A grant ID that was already applied must succeed without applying again.
	ApplyRewards(ctx context.Context, grant RewardGrant) error
}

// RewardGrant is one all-or-nothing inventory update.
type RewardGrant struct {
	GrantID string // idempotency key, the mission ID
	UserID  string
	Deltas  map[string]int
}

// UnitRegistry defines the read-only secondary port for unit lookups.
type UnitRegistry interface {
	// Exists reports whether the unit is owned by the player.
	Exists(ctx context.Context, unitID string) (bool, error)

	// LevelOf returns the unit's level.
	LevelOf(ctx context.Context, unitID string) (int, error)

	// ElementOf returns the unit's element, or empty string if it has none.
	ElementOf(ctx context.Context, unitID string) (string, error)
}

// MissionRepository defines the secondary port for mission persistence.
type MissionRepository interface {
	// WithinLock runs fn holding the store's write lock. Repository calls made
	// with the ctx passed to fn share the lock, so a read-modify-write inside fn
	// cannot interleave with another process. Writes made before fn fails are kept.
	WithinLock(ctx context.Context, fn func(ctx context.Context) error) error

	// LoadActive returns every persisted active mission.
	LoadActive(ctx context.Context) ([]*MissionRecord, error)

	// SaveActive makes the persisted active set equal to missions, touching only changed rows.
	SaveActive(ctx context.Context, missions []*MissionRecord) error

	// AppendHistory records a claimed mission and trims history to limit entries.
	AppendHistory(ctx context.Context, mission *MissionRecord, limit int) error

	// LoadHistory returns up to limit claimed missions, most recent first.
	LoadHistory(ctx context.Context, limit int) ([]*MissionRecord, error)
}

// MissionRecord represents a mission as stored in persistence.
type MissionRecord struct {
	ID           string
	RegionID     string
	UnitIDs      []string
	StartTime    int64
	Duration     int
	EndTime      int64
	Status       string
	Rewards      map[string]int // nil until claim time
	GreatSuccess bool
	ClaimedAt    int64 // zero until claimed
}

// UnitRepository extends UnitRegistry with roster management.
type UnitRepository interface {
	UnitRegistry

	// Create adds a unit to the roster.
	Create(ctx context.Context, unit *UnitRecord) error

	// List returns every unit ordered by ID.
	List(ctx context.Context) ([]*UnitRecord, error)
}

// UnitRecord represents a roster unit as stored in persistence.
type UnitRecord struct {
	ID      string
	Name    string
	Level   int
	Element string
}

// MaterialRepository extends InventoryService with read access to balances.
type MaterialRepository interface {
	InventoryService

	// ListMaterials returns the player's non-zero balances keyed by material ID.
	ListMaterials(ctx context.Context, userID string) (map[string]int, error)
}
