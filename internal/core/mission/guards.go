package mission

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Err     error  // Taxonomy error (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
// The returned error wraps Err so callers can match it with errors.Is.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Err == nil {
		return fmt.Errorf("%s", r.Reason)
	}
	return fmt.Errorf("%w: %s", r.Err, r.Reason)
}

func deny(err error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...), Err: err}
}

// StartContext provides everything the start guard needs.
// Populated by the caller with pre-resolved lookups; the guard does no I/O.
type StartContext struct {
	RegionID      string
	RegionExists  bool
	Duration      int
	StartTime     int64 // ms since epoch the mission would start at
	DurationValid bool // duration is one of the region's options (or the check is disabled)
	RequestedIDs  []string
	UnknownIDs    []string // requested ids the unit registry could not resolve
	StrictUnits   bool     // reject when any id is unknown instead of dropping it
	DispatchedIDs []string // requested valid ids already attached to an active mission
	ActiveCount   int
	MaxSlots      int
}

// CanStartMission evaluates whether a new mission may be created.
// Checks run in order: region, duration, units, exclusivity, slots.
func CanStartMission(ctx StartContext) GuardResult {
	if !ctx.RegionExists {
		return deny(ErrRegionNotFound, "Region %s does not exist", ctx.RegionID)
	}
	if ctx.Duration <= 0 {
		return deny(ErrInvalidDuration, "Duration must be positive (got %d)", ctx.Duration)
	}
	if int64(ctx.Duration) > MaxDurationSeconds(ctx.StartTime) {
		return deny(ErrInvalidDuration, "Duration %ds is too long", ctx.Duration)
	}
	if !ctx.DurationValid {
		return deny(ErrInvalidDuration, "Duration %ds is not offered by region %s", ctx.Duration, ctx.RegionID)
	}
	if len(ctx.RequestedIDs) == 0 {
		return deny(ErrInvalidUnits, "No units supplied")
	}
	if ctx.StrictUnits && len(ctx.UnknownIDs) > 0 {
		return deny(ErrInvalidUnits, "Unknown units: %s", strings.Join(ctx.UnknownIDs, ", "))
	}
	if len(ctx.UnknownIDs) >= len(ctx.RequestedIDs) {
		return deny(ErrInvalidUnits, "None of the supplied units exist: %s", strings.Join(ctx.RequestedIDs, ", "))
	}
	if len(ctx.DispatchedIDs) > 0 {
		return deny(ErrUnitAlreadyDispatched, "Units already on a mission: %s", strings.Join(ctx.DispatchedIDs, ", "))
	}
	if ctx.ActiveCount >= ctx.MaxSlots {
		return deny(ErrSlotsFull, "No dispatch slots available (%d/%d)", ctx.ActiveCount, ctx.MaxSlots)
	}
	return GuardResult{Allowed: true}
}

// ClaimContext provides context for the claim guard.
type ClaimContext struct {
	MissionID     string
	MissionExists bool
	Status        Status // effective status, already derived from elapsed time
	Remaining     string // human-readable time left, used in the reason
}

// CanClaimMission evaluates whether rewards may be claimed.
// Rule: the mission must exist in the active set and be completed.
func CanClaimMission(ctx ClaimContext) GuardResult {
	if !ctx.MissionExists {
		return deny(ErrMissionNotFound, "Mission %s not found", ctx.MissionID)
	}
	if ctx.Status != StatusCompleted {
		if ctx.Remaining != "" {
			return deny(ErrNotYetComplete, "Mission %s is still %s (%s remaining)", ctx.MissionID, ctx.Status, ctx.Remaining)
		}
		return deny(ErrNotYetComplete, "Mission %s is still %s", ctx.MissionID, ctx.Status)
	}
	return GuardResult{Allowed: true}
}
