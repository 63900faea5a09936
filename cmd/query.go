package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queryString string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a read-only SQL query (DuckDB SQL)",
	Long: `Execute the requested QUERY against the DuckDB database.
Only read-only statements are allowed: the query must begin with
SELECT or WITH. Anything else is rejected before reaching the engine.

Examples:
  pokelab query --sql "SELECT name, speed FROM pokemon ORDER BY speed DESC LIMIT 5"
  pokelab query --sql "SELECT COUNT(*) AS total FROM pokemon WHERE generation = 1"`,
	Run: func(cmd *cobra.Command, args []string) {
		if queryString == "" {
			HandleError(fmt.Errorf("query is required"), "Missing query parameter")
		}

		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		// Execute the query
		result, err := db.ExecuteQuery(context.Background(), queryString)
		if err != nil {
			HandleError(err, "Failed to execute query")
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
	queryCmd.Flags().StringVarP(&queryString, "sql", "q", "", "SQL query to execute (required)")
	_ = queryCmd.MarkFlagRequired("sql")
	rootCmd.AddCommand(queryCmd)
}
