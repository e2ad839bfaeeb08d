// Package reward rolls material rewards from a region's reward table.
// This is part of the Functional Core - randomness is injected, nothing else is touched.
package reward

import (
	"math"

	"github.com/example/dispatch/internal/core/region"
)

// Map is material id -> quantity. It never holds zero or negative amounts.
type Map map[string]int

// Source is the randomness a roll consumes. *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Resolve rolls every table entry independently against chance*bonusFactor and
// draws a uniform amount in [min, max] for each hit. A roll equal to the product
// still hits, and a product of 1 or more is a guaranteed hit. Amounts for a repeated material are summed; zero amounts are omitted.
func Resolve(table []region.RewardEntry, bonusFactor float64, rng Source) Map {
	out := make(Map)
	for _, entry := range table {
		if rng.Float64() > entry.Chance*bonusFactor {
			continue
		}
		amount := entry.Min
		if span := entry.Max - entry.Min; span > 0 {
			amount += rng.IntN(span + 1)
		}
		if amount <= 0 {
			continue
		}
		out[entry.MaterialID] += amount
	}
	return out
}

// BonusFactor derives the chance multiplier from dispatched unit levels: 1 + 1% per level.
func BonusFactor(levels []int) float64 {
	total := 0
	for _, l := range levels {
		total += l
	}
	return 1 + float64(total)*0.01
}

const (
	// BaseGreatSuccessChance is the chance of a great success for any mission.
	BaseGreatSuccessChance = 0.05
	// ElementGreatSuccessBonus is added when a dispatched unit shares the region's element.
	ElementGreatSuccessBonus = 0.10
	// GreatSuccessMultiplier scales every amount on a great success.
	GreatSuccessMultiplier = 1.5
)

// GreatSuccessChance returns the great-success probability for a mission.
func GreatSuccessChance(elementMatch bool) float64 {
	if elementMatch {
		return BaseGreatSuccessChance + ElementGreatSuccessBonus
	}
	return BaseGreatSuccessChance
}

// RollGreatSuccess reports whether a roll against chance succeeded.
func RollGreatSuccess(chance float64, rng Source) bool {
	return rng.Float64() < chance
}

// ApplyGreatSuccess returns a copy of m with each amount multiplied and floored, minimum 1.
func ApplyGreatSuccess(m Map, multiplier float64) Map {
	out := make(Map, len(m))
	for id, qty := range m {
		scaled := int(math.Floor(float64(qty) * multiplier))
		if scaled < 1 {
			scaled = 1
		}
		out[id] = scaled
	}
	return out
}

// Total returns the sum of all quantities.
func (m Map) Total() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

// Clone returns an independent copy of m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for id, qty := range m {
		out[id] = qty
	}
	return out
}
