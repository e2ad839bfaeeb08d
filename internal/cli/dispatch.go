package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

var startCmd = &cobra.Command{
	Use:   "start [region-id]",
	Short: "Send units on an expedition into a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		units, _ := cmd.Flags().GetStringSlice("units")
		duration, _ := cmd.Flags().GetInt("duration")

		_, err := wire.DispatchAdapter().Start(wire.Context(), args[0], duration, units)
		return err
	},
}

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Mark every elapsed mission as completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		wire.DispatchAdapter().Tick(wire.Context())
		return nil
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim [mission-id]",
	Short: "Claim the rewards of a completed mission",
	Long: `Claim rewards for a mission. Missions whose timer has elapsed are
completed on the spot, no prior tick is needed.

With --all every claimable mission is claimed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := wire.Context()
		all, _ := cmd.Flags().GetBool("all")
		adapter := wire.DispatchAdapter()

		if !all {
			if len(args) != 1 {
				return fmt.Errorf("specify a mission id or --all")
			}
			_, err := adapter.Claim(ctx, args[0])
			return err
		}

		wire.DispatchService().Tick(ctx)
		claimed := 0
		for _, m := range wire.DispatchService().ListActive(ctx) {
			if m.Status != "completed" {
				continue
			}
			if _, err := adapter.Claim(ctx, m.ID); err != nil {
				return err
			}
			claimed++
		}
		if claimed == 0 {
			fmt.Println("Nothing to claim.")
		}
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [mission-id]",
	Short: "Cancel a mission and release its units (no rewards)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.DispatchAdapter().Cancel(wire.Context(), args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active missions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := wire.Context()
		// Listing reflects elapsed timers.
		wire.DispatchService().Tick(ctx)
		wire.DispatchAdapter().List(ctx)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List claimed missions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		wire.DispatchAdapter().History(wire.Context())
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tick driver until interrupted",
	Long: `Run ticks the dispatch engine immediately and then every tick_interval_ms
milliseconds, reporting missions as they complete. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		autoClaim, _ := cmd.Flags().GetBool("auto-claim")

		ctx, stop := signal.NotifyContext(wire.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		adapter := wire.DispatchAdapter()
		ticker := wire.Ticker()
		ticker.OnComplete(func(missionIDs []string) {
			fmt.Printf("Completed: %s\n", strings.Join(missionIDs, ", "))
			if !autoClaim {
				return
			}
			for _, id := range missionIDs {
				if _, err := adapter.Claim(ctx, id); err != nil {
					wire.Logger().Warn("auto-claim failed", "mission_id", id, "err", err)
				}
			}
		})

		return ticker.Run(ctx)
	},
}

func init() {
	// start flags
	startCmd.Flags().StringSliceP("units", "u", nil, "Unit IDs to dispatch (comma separated)")
	startCmd.Flags().IntP("duration", "d", 300, "Mission duration in seconds")
	startCmd.MarkFlagRequired("units")

	// claim flags
	claimCmd.Flags().Bool("all", false, "Claim every completed mission")

	// run flags
	runCmd.Flags().Bool("auto-claim", false, "Claim missions as soon as they complete")
}

// DispatchCmds returns the mission lifecycle commands
func DispatchCmds() []*cobra.Command {
	return []*cobra.Command{startCmd, tickCmd, claimCmd, cancelCmd, listCmd, historyCmd, runCmd}
}
