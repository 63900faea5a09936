package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details [dexnum]",
	Short: "Get detailed information about a pokemon",
	Long: `Get detailed information about a specific pokemon by dex number.
Returns catalog data as JSON.

Example:
  pokelab details 25`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dexnum, err := strconv.Atoi(args[0])
		if err != nil {
			HandleError(err, "Dex number must be an integer")
		}

		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		pokemon, err := db.GetPokemonByDex(context.Background(), dexnum)
		if err != nil {
			HandleError(err, "Failed to get pokemon details")
		}

		// Convert to JSON output format
		output, err := json.MarshalIndent(pokemon, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}
