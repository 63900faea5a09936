package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var partyCmd = &cobra.Command{
	Use:   "party [user-id]",
	Short: "List a user's party",
	Long: `List the pokemon a user owns, ordered by slot number.
Results are returned as JSON.

Example:
  pokelab party 1`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID, err := strconv.Atoi(args[0])
		if err != nil {
			HandleError(err, "User ID must be an integer")
		}

		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		party, err := db.GetUserParty(context.Background(), userID)
		if err != nil {
			HandleError(err, "Failed to load party")
		}

		output, err := json.MarshalIndent(party, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(partyCmd)
}
