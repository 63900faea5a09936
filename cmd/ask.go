package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a natural language question about pokemon",
	Long: `Ask a question in natural language. The question is translated into
DuckDB SQL by Claude, executed against the local database, and the
result is printed.

Requires ANTHROPIC_API_KEY environment variable to be set.

Examples:
  pokelab ask "전기 타입 포켓몬 중에 제일 빠른 다섯은?"
  pokelab ask "피카츄가 꼬부기를 공격하면 몇 배야?"
  pokelab ask --json "1세대 포켓몬은 몇 마리야?"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := args[0]

		analyst, cleanup, err := InitAnalyst(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize")
		}
		defer cleanup()

		answer := analyst.Ask(context.Background(), question)
		if answer.Err != nil {
			HandleError(answer.Err, "Query failed")
		}

		if askJSON {
			output, err := json.MarshalIndent(answer, "", "  ")
			if err != nil {
				HandleError(err, "Failed to encode JSON")
			}
			fmt.Println(string(output))
			return
		}

		if answer.Explanation != "" {
			fmt.Println(answer.Explanation)
		}
		if answer.SQL != "" {
			fmt.Printf("\nSQL: %s\n", answer.SQL)
		}
		if answer.Rows != nil {
			fmt.Println()
			printResultTable(answer.Rows)
		}
	},
}

// printResultTable renders a QueryResult as an aligned text table.
func printResultTable(result *QueryResult) {
	if len(result.Rows) == 0 {
		fmt.Println("(no rows)")
		return
	}

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(result.Rows))
	for r, row := range result.Rows {
		cells[r] = make([]string, len(row))
		for c, v := range row {
			s := fmt.Sprintf("%v", v)
			if v == nil {
				s = "NULL"
			}
			cells[r][c] = s
			if len(s) > widths[c] {
				widths[c] = len(s)
			}
		}
	}

	for i, col := range result.Columns {
		fmt.Printf("%-*s  ", widths[i], col)
	}
	fmt.Println()
	for _, row := range cells {
		for c, s := range row {
			fmt.Printf("%-*s  ", widths[c], s)
		}
		fmt.Println()
	}
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Output the full answer as JSON")
	rootCmd.AddCommand(askCmd)
}
