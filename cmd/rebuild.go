package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-types",
	Short: "Rebuild the type effectiveness matrix",
	Long: `Rebuild the 18x18 type effectiveness matrix from the built-in ruleset.
The existing matrix is cleared and repopulated in a single transaction.
This also runs automatically on every startup.

Example:
  pokelab rebuild-types`,
	Run: func(cmd *cobra.Command, args []string) {
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		if err := db.RebuildTypeEffectiveness(context.Background()); err != nil {
			HandleError(err, "Failed to rebuild type effectiveness matrix")
		}

		fmt.Println("Type effectiveness matrix rebuilt (324 matchups).")
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
