package mission

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func validStart() StartContext {
	return StartContext{
		RegionID:      "forest_1",
		RegionExists:  true,
		Duration:      300,
		DurationValid: true,
		RequestedIDs:  []string{"m1"},
		ActiveCount:   0,
		MaxSlots:      2,
	}
}

func TestCanStartMission(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*StartContext)
		wantAllowed bool
		wantErr     error
		wantReason  string
	}{
		{
			name:        "valid request is allowed",
			mutate:      func(*StartContext) {},
			wantAllowed: true,
		},
		{
			name:       "unknown region",
			mutate:     func(c *StartContext) { c.RegionID = "bad_region"; c.RegionExists = false },
			wantErr:    ErrRegionNotFound,
			wantReason: "Region bad_region does not exist",
		},
		{
			name:       "non-positive duration",
			mutate:     func(c *StartContext) { c.Duration = 0 },
			wantErr:    ErrInvalidDuration,
			wantReason: "Duration must be positive (got 0)",
		},
		{
			name:       "duration whose end time overflows",
			mutate:     func(c *StartContext) { c.Duration = math.MaxInt; c.DurationValid = true },
			wantErr:    ErrInvalidDuration,
			wantReason: fmt.Sprintf("Duration %ds is too long", math.MaxInt),
		},
		{
			name:        "longest representable duration is allowed",
			mutate:      func(c *StartContext) { c.StartTime = 1_000; c.Duration = int(MaxDurationSeconds(1_000)) },
			wantAllowed: true,
		},
		{
			name:       "duration not offered",
			mutate:     func(c *StartContext) { c.Duration = 42; c.DurationValid = false },
			wantErr:    ErrInvalidDuration,
			wantReason: "Duration 42s is not offered by region forest_1",
		},
		{
			name:       "no units",
			mutate:     func(c *StartContext) { c.RequestedIDs = nil },
			wantErr:    ErrInvalidUnits,
			wantReason: "No units supplied",
		},
		{
			name: "all units unknown",
			mutate: func(c *StartContext) {
				c.RequestedIDs = []string{"x", "y"}
				c.UnknownIDs = []string{"x", "y"}
			},
			wantErr:    ErrInvalidUnits,
			wantReason: "None of the supplied units exist: x, y",
		},
		{
			name: "some unknown units are dropped in lenient mode",
			mutate: func(c *StartContext) {
				c.RequestedIDs = []string{"m1", "ghost"}
				c.UnknownIDs = []string{"ghost"}
			},
			wantAllowed: true,
		},
		{
			name: "some unknown units are rejected in strict mode",
			mutate: func(c *StartContext) {
				c.RequestedIDs = []string{"m1", "ghost"}
				c.UnknownIDs = []string{"ghost"}
				c.StrictUnits = true
			},
			wantErr:    ErrInvalidUnits,
			wantReason: "Unknown units: ghost",
		},
		{
			name:       "unit already dispatched",
			mutate:     func(c *StartContext) { c.DispatchedIDs = []string{"m1"} },
			wantErr:    ErrUnitAlreadyDispatched,
			wantReason: "Units already on a mission: m1",
		},
		{
			name:       "slots full",
			mutate:     func(c *StartContext) { c.ActiveCount = 2 },
			wantErr:    ErrSlotsFull,
			wantReason: "No dispatch slots available (2/2)",
		},
		{
			name: "region is checked before slots",
			mutate: func(c *StartContext) {
				c.RegionExists = false
				c.ActiveCount = 2
			},
			wantErr:    ErrRegionNotFound,
			wantReason: "Region forest_1 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := validStart()
			tt.mutate(&ctx)
			result := CanStartMission(ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanStartMission() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanStartMission() Reason = %q, want %q", result.Reason, tt.wantReason)
			}

			err := result.Error()
			if tt.wantAllowed {
				if err != nil {
					t.Errorf("CanStartMission().Error() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanStartMission().Error() = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanClaimMission(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ClaimContext
		wantAllowed bool
		wantErr     error
		wantReason  string
	}{
		{
			name:        "completed mission can be claimed",
			ctx:         ClaimContext{MissionID: "d1", MissionExists: true, Status: StatusCompleted},
			wantAllowed: true,
		},
		{
			name:       "unknown mission",
			ctx:        ClaimContext{MissionID: "d1"},
			wantErr:    ErrMissionNotFound,
			wantReason: "Mission d1 not found",
		},
		{
			name:       "ongoing mission",
			ctx:        ClaimContext{MissionID: "d1", MissionExists: true, Status: StatusOngoing, Remaining: "1s"},
			wantErr:    ErrNotYetComplete,
			wantReason: "Mission d1 is still ongoing (1s remaining)",
		},
		{
			name:       "ongoing mission without remaining hint",
			ctx:        ClaimContext{MissionID: "d1", MissionExists: true, Status: StatusOngoing},
			wantErr:    ErrNotYetComplete,
			wantReason: "Mission d1 is still ongoing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanClaimMission(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanClaimMission() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanClaimMission() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if !tt.wantAllowed && !errors.Is(result.Error(), tt.wantErr) {
				t.Errorf("CanClaimMission().Error() = %v, want errors.Is %v", result.Error(), tt.wantErr)
			}
		})
	}
}

func TestGuardResult_ErrorWithoutTaxonomy(t *testing.T) {
	r := GuardResult{Allowed: false, Reason: "nope"}
	if r.Error() == nil || r.Error().Error() != "nope" {
		t.Errorf("Error() = %v, want \"nope\"", r.Error())
	}
}
