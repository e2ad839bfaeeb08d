package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/cli"
	"github.com/example/dispatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dispatch",
		Short:   "Dispatch - idle expedition engine",
		Version: version.String(),
		Long: `Dispatch sends units on timed expeditions into regions. Missions complete
after their duration elapses and yield randomized material rewards when claimed.`,
		SilenceUsage: true,
	}

	// Mission lifecycle
	rootCmd.AddCommand(cli.DispatchCmds()...)

	// Catalog, roster and inventory
	rootCmd.AddCommand(cli.RegionCmd())
	rootCmd.AddCommand(cli.UnitCmd())
	rootCmd.AddCommand(cli.InventoryCmd())

	rootCmd.AddCommand(cli.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
