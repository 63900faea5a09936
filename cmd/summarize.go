package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeTable string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the contents of a table",
	Long: `The SUMMARIZE command computes a number of aggregates over all columns
of a table (min, max, approx_unique, avg, std, q25, q50, q75, count),
and returns these along with the column name, column type, and the
percentage of NULL values in the column.
Note that the quantiles and percentiles are approximate values.

Only tables known to the schema registry can be summarized.

Examples:
  pokelab summarize --table pokemon
  pokelab summarize --table type_effectiveness`,
	Run: func(cmd *cobra.Command, args []string) {
		if summarizeTable == "" {
			HandleError(fmt.Errorf("table is required"), "Missing parameter")
		}

		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		result, err := db.Summarize(context.Background(), summarizeTable)
		if err != nil {
			HandleError(err, "Failed to execute summarize query")
		}

		// Convert to JSON output
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeTable, "table", "t", "", "Table name to summarize (required)")
	_ = summarizeCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(summarizeCmd)
}
