package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/dispatch/internal/core/reward"
	"github.com/example/dispatch/internal/ports/primary"
)

// DispatchAdapter is a thin adapter that translates CLI operations to DispatchService calls.
// It depends only on the DispatchService interface, enabling easy testing with mocks.
type DispatchAdapter struct {
	service primary.DispatchService
	out     io.Writer
}

// NewDispatchAdapter creates a new DispatchAdapter with the given service.
func NewDispatchAdapter(service primary.DispatchService, out io.Writer) *DispatchAdapter {
	return &DispatchAdapter{
		service: service,
		out:     out,
	}
}

// Start dispatches units into a region.
func (a *DispatchAdapter) Start(ctx context.Context, regionID string, duration int, unitIDs []string) (*primary.StartMissionResponse, error) {
	resp, err := a.service.StartMission(ctx, primary.StartMissionRequest{
		RegionID: regionID,
		UnitIDs:  unitIDs,
		Duration: duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mission: %w", err)
	}

	m := resp.Mission
	fmt.Fprintf(a.out, "%s Dispatched %s to %s for %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		strings.Join(m.UnitIDs, ", "),
		m.RegionName,
		formatSeconds(m.Duration),
	)
	fmt.Fprintf(a.out, "  Mission: %s\n", resp.MissionID)
	if len(resp.Dropped) > 0 {
		fmt.Fprintf(a.out, "  %s unknown units skipped: %s\n",
			color.New(color.FgYellow).Sprint("!"),
			strings.Join(resp.Dropped, ", "),
		)
	}
	return resp, nil
}

// Tick advances mission state and reports completions.
func (a *DispatchAdapter) Tick(ctx context.Context) []string {
	completed := a.service.Tick(ctx)
	if len(completed) == 0 {
		fmt.Fprintln(a.out, "No missions completed.")
		return completed
	}
	for _, id := range completed {
		fmt.Fprintf(a.out, "%s %s completed\n", color.New(color.FgGreen).Sprint("✓"), id)
	}
	return completed
}

// Claim claims a completed mission and prints the rewards.
func (a *DispatchAdapter) Claim(ctx context.Context, missionID string) (*primary.ClaimResult, error) {
	result, err := a.service.ClaimRewards(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim mission: %w", err)
	}

	header := "Rewards claimed"
	if result.GreatSuccess {
		header = color.New(color.FgHiMagenta).Sprint("GREAT SUCCESS!") + " " + header
	}
	fmt.Fprintf(a.out, "%s for %s (%d items)\n", header, result.MissionID, reward.Map(result.Rewards).Total())
	a.printRewards(result.Rewards)
	return result, nil
}

// Cancel cancels a mission and releases its units.
func (a *DispatchAdapter) Cancel(ctx context.Context, missionID string) error {
	if err := a.service.CancelMission(ctx, missionID); err != nil {
		return fmt.Errorf("failed to cancel mission: %w", err)
	}
	fmt.Fprintf(a.out, "%s Mission %s cancelled\n", color.New(color.FgYellow).Sprint("✗"), missionID)
	return nil
}

// List prints active missions and slot usage.
func (a *DispatchAdapter) List(ctx context.Context) []*primary.Mission {
	missions := a.service.ListActive(ctx)
	used, capacity := a.service.Slots(ctx)
	fmt.Fprintf(a.out, "Slots: %d/%d\n", used, capacity)

	if len(missions) == 0 {
		fmt.Fprintln(a.out, "No active missions.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Start one:")
		fmt.Fprintln(a.out, "  dispatch start forest_1 --units m1 --duration 300")
		return missions
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tREGION\tUNITS\tSTATUS\tPROGRESS")
	fmt.Fprintln(w, "--\t------\t-----\t------\t--------")
	for _, m := range missions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.RegionID,
			strings.Join(m.UnitIDs, ","),
			statusMarker(m.Status),
			formatProgress(m),
		)
	}
	w.Flush()
	return missions
}

// History prints claimed missions, most recent first.
func (a *DispatchAdapter) History(ctx context.Context) []*primary.Mission {
	missions := a.service.ListHistory(ctx)
	if len(missions) == 0 {
		fmt.Fprintln(a.out, "No claimed missions yet.")
		return missions
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tREGION\tCLAIMED\tREWARDS")
	fmt.Fprintln(w, "--\t------\t-------\t-------")
	for _, m := range missions {
		rewards := formatRewards(m.Rewards)
		if m.GreatSuccess {
			rewards += color.New(color.FgHiMagenta).Sprint(" ★")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.ID,
			m.RegionID,
			time.UnixMilli(m.ClaimedAt).Format(time.DateTime),
			rewards,
		)
	}
	w.Flush()
	return missions
}

func (a *DispatchAdapter) printRewards(rewards map[string]int) {
	if len(rewards) == 0 {
		fmt.Fprintln(a.out, "  (nothing found)")
		return
	}
	for _, id := range slices.Sorted(maps.Keys(rewards)) {
		fmt.Fprintf(a.out, "  +%d %s\n", rewards[id], id)
	}
}

func statusMarker(status string) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).Sprint(status)
	case "ongoing":
		return color.New(color.FgCyan).Sprint(status)
	default:
		return status
	}
}

func formatProgress(m *primary.Mission) string {
	if m.Status == "completed" {
		return "100% ready to claim"
	}
	remaining := int((1 - m.Progress) * float64(m.Duration))
	return fmt.Sprintf("%3.0f%% %s left", m.Progress*100, formatSeconds(remaining))
}

func formatRewards(rewards map[string]int) string {
	if len(rewards) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(rewards))
	for _, id := range slices.Sorted(maps.Keys(rewards)) {
		parts = append(parts, fmt.Sprintf("%s x%d", id, rewards[id]))
	}
	return strings.Join(parts, ", ")
}

func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
