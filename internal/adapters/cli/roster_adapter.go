package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/dispatch/internal/core/region"
	"github.com/example/dispatch/internal/ports/primary"
)

// RosterAdapter translates unit, inventory and region commands to service calls.
type RosterAdapter struct {
	service       primary.RosterService
	catalog       *region.Catalog
	facilityLevel int
	out           io.Writer
}

// NewRosterAdapter creates a new RosterAdapter.
// facilityLevel decides which regions are shown as locked.
func NewRosterAdapter(service primary.RosterService, catalog *region.Catalog, facilityLevel int, out io.Writer) *RosterAdapter {
	return &RosterAdapter{
		service:       service,
		catalog:       catalog,
		facilityLevel: facilityLevel,
		out:           out,
	}
}

// AddUnit adds a unit to the roster.
func (a *RosterAdapter) AddUnit(ctx context.Context, req primary.AddUnitRequest) (*primary.Unit, error) {
	unit, err := a.service.AddUnit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to add unit: %w", err)
	}
	fmt.Fprintf(a.out, "%s Added unit %s (%s, level %d)\n",
		color.New(color.FgGreen).Sprint("✓"), unit.ID, unit.Name, unit.Level)
	return unit, nil
}

// ListUnits prints the roster.
func (a *RosterAdapter) ListUnits(ctx context.Context) ([]*primary.Unit, error) {
	units, err := a.service.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	if len(units) == 0 {
		fmt.Fprintln(a.out, "No units found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Add one:")
		fmt.Fprintln(a.out, "  dispatch unit add m1 --name Slime --level 1 --element EARTH")
		return units, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLEVEL\tELEMENT\tSTATE")
	fmt.Fprintln(w, "--\t----\t-----\t-------\t-----")
	for _, u := range units {
		state := color.New(color.FgGreen).Sprint("idle")
		if u.Dispatched {
			state = color.New(color.FgYellow).Sprintf("on %s", u.MissionID)
		}
		element := u.Element
		if element == "" {
			element = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", u.ID, u.Name, u.Level, element, state)
	}
	w.Flush()
	return units, nil
}

// ShowInventory prints material balances.
func (a *RosterAdapter) ShowInventory(ctx context.Context) (map[string]int, error) {
	balances, err := a.service.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if len(balances) == 0 {
		fmt.Fprintln(a.out, "Inventory is empty.")
		return balances, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tQUANTITY")
	fmt.Fprintln(w, "--------\t--------")
	for _, id := range slices.Sorted(maps.Keys(balances)) {
		fmt.Fprintf(w, "%s\t%d\n", id, balances[id])
	}
	w.Flush()
	return balances, nil
}

// ListRegions prints the region catalog.
func (a *RosterAdapter) ListRegions() []region.Region {
	regions := a.catalog.Regions()
	locked := 0
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLEVEL\tDURATIONS\tSTATE")
	fmt.Fprintln(w, "--\t----\t-----\t---------\t-----")
	for _, r := range regions {
		state := color.New(color.FgGreen).Sprint("open")
		if !a.unlock(r).Allowed {
			locked++
			state = color.New(color.FgRed).Sprintf("locked (facility %d)", r.UnlockCondition.FacilityLevel)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Name, r.RecommendedLevel, formatDurations(r.DurationOptions), state)
	}
	w.Flush()
	fmt.Fprintf(a.out, "\n%d regions, %d locked at facility level %d\n", a.catalog.Len(), locked, a.facilityLevel)
	return regions
}

// ShowRegion prints one region with its reward table.
func (a *RosterAdapter) ShowRegion(regionID string) (region.Region, error) {
	r, ok := a.catalog.FindRegion(regionID)
	if !ok {
		return region.Region{}, fmt.Errorf("region %s not found", regionID)
	}

	fmt.Fprintf(a.out, "\nRegion: %s\n", r.ID)
	fmt.Fprintf(a.out, "Name:      %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(a.out, "About:     %s\n", r.Description)
	}
	fmt.Fprintf(a.out, "Level:     %d\n", r.RecommendedLevel)
	if r.Element != "" {
		fmt.Fprintf(a.out, "Element:   %s\n", r.Element)
	}
	fmt.Fprintf(a.out, "Durations: %s\n", formatDurations(r.DurationOptions))
	if r.UnlockCondition != nil {
		fmt.Fprintf(a.out, "Unlock:    facility level %d\n", r.UnlockCondition.FacilityLevel)
	}
	if result := a.unlock(r); !result.Allowed {
		fmt.Fprintf(a.out, "State:     %s\n", color.New(color.FgRed).Sprint(result.Reason))
	} else {
		fmt.Fprintf(a.out, "State:     %s\n", color.New(color.FgGreen).Sprint("open"))
	}
	fmt.Fprintln(a.out, "Rewards:")
	for _, e := range r.Rewards {
		fmt.Fprintf(a.out, "  %-16s %d-%d  %3.0f%%\n", e.MaterialID, e.Min, e.Max, e.Chance*100)
	}
	fmt.Fprintln(a.out)
	return r, nil
}

func (a *RosterAdapter) unlock(r region.Region) region.GuardResult {
	return region.CanUnlockRegion(region.UnlockContext{
		RegionID:      r.ID,
		FacilityLevel: a.facilityLevel,
		Condition:     r.UnlockCondition,
	})
}

func formatDurations(options []int) string {
	s := ""
	for i, d := range options {
		if i > 0 {
			s += ", "
		}
		s += formatSeconds(d)
	}
	return s
}
