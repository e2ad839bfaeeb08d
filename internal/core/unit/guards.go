// Package unit contains the pure rules for roster units.
package unit

import (
	"fmt"
	"slices"
	"strings"
)

// Elements lists the unit elements a roster accepts.
var Elements = []string{"FIRE", "WATER", "EARTH", "WIND", "LIGHT", "DARK", "CHAOS"}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// AddUnitContext provides context for unit creation guards.
type AddUnitContext struct {
	ID       string
	Name     string
	Level    int
	Element  string
	IDExists bool
}

// NormalizeElement upper-cases an element name. Empty stays empty.
func NormalizeElement(element string) string {
	return strings.ToUpper(strings.TrimSpace(element))
}

// CanAddUnit evaluates whether a unit can join the roster.
func CanAddUnit(ctx AddUnitContext) GuardResult {
	if strings.TrimSpace(ctx.ID) == "" {
		return GuardResult{Reason: "unit id must not be empty"}
	}
	if ctx.IDExists {
		return GuardResult{Reason: fmt.Sprintf("unit %s already exists", ctx.ID)}
	}
	if strings.TrimSpace(ctx.Name) == "" {
		return GuardResult{Reason: "unit name must not be empty"}
	}
	if ctx.Level < 0 {
		return GuardResult{Reason: fmt.Sprintf("unit level must not be negative (got %d)", ctx.Level)}
	}
	if el := NormalizeElement(ctx.Element); el != "" && !slices.Contains(Elements, el) {
		return GuardResult{Reason: fmt.Sprintf("unknown element %q (valid: %s)", ctx.Element, strings.Join(Elements, ", "))}
	}
	return GuardResult{Allowed: true}
}
