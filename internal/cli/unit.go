package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var unitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Manage the unit roster",
}

var unitAddCmd = &cobra.Command{
	Use:   "add [unit-id]",
	Short: "Add a unit to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		level, _ := cmd.Flags().GetInt("level")
		element, _ := cmd.Flags().GetString("element")

		_, err := wire.RosterAdapter().AddUnit(wire.Context(), primary.AddUnitRequest{
			ID:      args[0],
			Name:    name,
			Level:   level,
			Element: element,
		})
		return err
	},
}

var unitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List units and whether they are on a mission",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.RosterAdapter().ListUnits(wire.Context())
		return err
	},
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show collected materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.RosterAdapter().ShowInventory(wire.Context())
		return err
	},
}

func init() {
	// unit add flags
	unitAddCmd.Flags().StringP("name", "n", "", "Unit name")
	unitAddCmd.Flags().IntP("level", "l", 1, "Unit level")
	unitAddCmd.Flags().StringP("element", "e", "", "Unit element (FIRE, WATER, EARTH, WIND, LIGHT, DARK, CHAOS)")
	unitAddCmd.MarkFlagRequired("name")

	unitCmd.AddCommand(unitAddCmd)
	unitCmd.AddCommand(unitListCmd)
}

// UnitCmd returns the unit command
func UnitCmd() *cobra.Command {
	return unitCmd
}

// InventoryCmd returns the inventory command
func InventoryCmd() *cobra.Command {
	return inventoryCmd
}
