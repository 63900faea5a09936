package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var catchUserID int

var catchCmd = &cobra.Command{
	Use:   "catch [name]",
	Short: "Add a pokemon to a user's party",
	Long: `Record that a user caught the named pokemon. The name must exist in
the catalog; the new party member gets the next slot number for that
user. Slot numbers are never reused, even after deletions.

Examples:
  pokelab catch 피카츄 --user 1
  pokelab catch 꼬부기 --user 2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		slot, err := db.AddUserPokemon(context.Background(), catchUserID, name)
		if err != nil {
			HandleError(err, "Failed to catch pokemon")
		}

		fmt.Printf("%s joined user %d's party in slot %d!\n", name, catchUserID, slot)
	},
}

func init() {
	catchCmd.Flags().IntVarP(&catchUserID, "user", "u", 1, "User ID catching the pokemon")
	rootCmd.AddCommand(catchCmd)
}
