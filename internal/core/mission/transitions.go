// Package mission contains the pure business logic for dispatch missions.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import (
	"math"
	"time"
)

// Status represents the possible states of a mission.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusClaimed   Status = "claimed"
)

// rank orders statuses so transitions can be checked for monotonicity.
func (s Status) rank() int {
	switch s {
	case StatusOngoing:
		return 0
	case StatusCompleted:
		return 1
	case StatusClaimed:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s.rank() >= 0
}

// IsActive reports whether a mission in this status holds its units and a slot.
func (s Status) IsActive() bool {
	return s == StatusOngoing || s == StatusCompleted
}

// InitialStatus returns the initial status for a new mission.
func InitialStatus() Status {
	return StatusOngoing
}

// CanTransition reports whether from -> to is a legal single step.
// Rule: ongoing -> completed -> claimed, never skipping backwards.
// Completed may be skipped when a claim completes a due mission inline.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return to.rank() > from.rank()
}

// MaxDurationSeconds is the longest duration whose end time fits in int64 milliseconds.
func MaxDurationSeconds(startMillis int64) int64 {
	if startMillis < 0 {
		startMillis = 0
	}
	return (math.MaxInt64 - startMillis) / 1000
}

// EndTime computes the absolute end timestamp in milliseconds.
// Callers bound durationSeconds with MaxDurationSeconds first.
func EndTime(startMillis int64, durationSeconds int) int64 {
	return startMillis + int64(durationSeconds)*1000
}

// IsDue reports whether a mission ending at endMillis has elapsed at now.
// Completion is derived from absolute time, so a late check still completes correctly.
func IsDue(endMillis int64, now time.Time) bool {
	return now.UnixMilli() >= endMillis
}

// EffectiveStatus returns the status a mission should be treated as at now.
// An ongoing mission past its end time is completed even if no tick has recorded it.
func EffectiveStatus(current Status, endMillis int64, now time.Time) Status {
	if current == StatusOngoing && IsDue(endMillis, now) {
		return StatusCompleted
	}
	return current
}

// Progress returns elapsed fraction in [0, 1].
func Progress(startMillis, endMillis int64, now time.Time) float64 {
	total := endMillis - startMillis
	if total <= 0 {
		return 1
	}
	elapsed := now.UnixMilli() - startMillis
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= total:
		return 1
	}
	return float64(elapsed) / float64(total)
}

// Remaining returns time left until endMillis, never negative.
func Remaining(endMillis int64, now time.Time) time.Duration {
	left := endMillis - now.UnixMilli()
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}
