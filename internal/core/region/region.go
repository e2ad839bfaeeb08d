// Package region contains the static catalog of dispatchable regions.
// This is part of the Functional Core - no I/O beyond parsing bytes handed in by the caller.
package region

import "strings"

// RewardEntry is one row of a region's reward table.
type RewardEntry struct {
	MaterialID string  `yaml:"material_id"`
	Min        int     `yaml:"min"`
	Max        int     `yaml:"max"`
	Chance     float64 `yaml:"chance"` // 0 < chance <= 1
}

// UnlockCondition gates a region behind a facility level.
type UnlockCondition struct {
	FacilityLevel int `yaml:"facility_level"`
}

// Region is an immutable catalog-defined dispatch destination.
type Region struct {
	ID                 string           `yaml:"id"`
	Name               string           `yaml:"name"`
	Description        string           `yaml:"description"`
	RecommendedLevel   int              `yaml:"recommended_level"`
	RequiredAttributes []string         `yaml:"required_attributes,omitempty"`
	Element            string           `yaml:"element,omitempty"`
	DurationOptions    []int            `yaml:"duration_options"` // seconds
	Rewards            []RewardEntry    `yaml:"rewards"`
	UnlockCondition    *UnlockCondition `yaml:"unlock_condition,omitempty"`
}

// HasDuration reports whether seconds is one of the region's duration options.
func (r Region) HasDuration(seconds int) bool {
	for _, d := range r.DurationOptions {
		if d == seconds {
			return true
		}
	}
	return false
}

// MatchesElement reports whether element matches the region's element, ignoring case.
// Regions without an element never match.
func (r Region) MatchesElement(element string) bool {
	if r.Element == "" || element == "" {
		return false
	}
	return strings.EqualFold(r.Element, element)
}

// clone returns a deep copy so catalog entries cannot be mutated through a lookup.
func (r Region) clone() Region {
	c := r
	c.RequiredAttributes = append([]string(nil), r.RequiredAttributes...)
	c.DurationOptions = append([]int(nil), r.DurationOptions...)
	c.Rewards = append([]RewardEntry(nil), r.Rewards...)
	if r.UnlockCondition != nil {
		u := *r.UnlockCondition
		c.UnlockCondition = &u
	}
	return c
}
