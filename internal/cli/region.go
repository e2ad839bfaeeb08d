package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Browse expedition regions",
}

var regionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		wire.RosterAdapter().ListRegions()
		return nil
	},
}

var regionShowCmd = &cobra.Command{
	Use:   "show [region-id]",
	Short: "Show region details and reward table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.RosterAdapter().ShowRegion(args[0])
		return err
	},
}

func init() {
	regionCmd.AddCommand(regionListCmd)
	regionCmd.AddCommand(regionShowCmd)
}

// RegionCmd returns the region command
func RegionCmd() *cobra.Command {
	return regionCmd
}
