// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// DispatchService defines the primary port for expedition dispatch.
// Implementations live in the application layer, adapters in CLI layers.
type DispatchService interface {
	// Restore loads persisted active missions. Call once before any other operation.
	Restore(ctx context.Context) error

	// StartMission sends units on a timed expedition into a region.
	StartMission(ctx context.Context, req StartMissionRequest) (*StartMissionResponse, error)

	// Tick flips every elapsed ongoing mission to completed and returns their IDs.
	Tick(ctx context.Context) []string

	// ClaimRewards rolls and applies rewards for a completed mission.
	ClaimRewards(ctx context.Context, missionID string) (*ClaimResult, error)

	// CancelMission drops a mission and releases its units. Unknown IDs are a no-op.
	CancelMission(ctx context.Context, missionID string) error

	// GetMission retrieves an active mission by ID.
	GetMission(ctx context.Context, missionID string) (*Mission, error)

	// ListActive lists missions that are ongoing or completed.
	ListActive(ctx context.Context) []*Mission

	// ListHistory lists claimed missions, most recent first.
	ListHistory(ctx context.Context) []*Mission

	// IsUnitDispatched reports whether a unit is attached to an active mission.
	IsUnitDispatched(ctx context.Context, unitID string) bool

	// AvailableUnits filters allUnitIDs down to units not on an active mission.
	AvailableUnits(ctx context.Context, allUnitIDs []string) []string

	// Slots reports active mission count and capacity.
	Slots(ctx context.Context) (used, capacity int)
}

// StartMissionRequest contains parameters for starting a mission.
type StartMissionRequest struct {
	RegionID string
	UnitIDs  []string
	Duration int // seconds
}

// StartMissionResponse contains the result of starting a mission.
type StartMissionResponse struct {
	MissionID string
	Mission   *Mission
	Dropped   []string // requested unit ids that did not resolve
}

// ClaimResult contains the rewards granted by a claim.
type ClaimResult struct {
	MissionID    string
	Rewards      map[string]int
	GreatSuccess bool
}

// Mission represents a mission at the port boundary.
type Mission struct {
	ID           string
	RegionID     string
	RegionName   string
	UnitIDs      []string
	StartTime    int64 // ms since epoch
	Duration     int   // seconds
	EndTime      int64 // ms since epoch
	Status       string
	Progress     float64
	Rewards      map[string]int
	GreatSuccess bool
	ClaimedAt    int64
}
