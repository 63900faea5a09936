package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportGeneration int
	reportTypes      []string
)

var reportCmd = &cobra.Command{
	Use:   "report [question]...",
	Short: "Run questions and generate a research report",
	Long: `Run one or more questions through the conversational pipeline, then
generate Professor Oak's research report over the accumulated results.
The report is printed as an HTML fragment.

Requires ANTHROPIC_API_KEY environment variable to be set.

Examples:
  pokelab report "전기 타입 중 제일 빠른 다섯은?" "1세대 전설 포켓몬은?"
  pokelab report --generation 1 "1세대 포켓몬 타입 분포는?"
  pokelab report --type Electric --type Water "전기랑 물 타입 비교해줘"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyst, cleanup, err := InitAnalyst(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize")
		}
		defer cleanup()

		ctx := context.Background()
		for _, question := range args {
			answer := analyst.Ask(ctx, question)
			if answer.Err != nil {
				fmt.Printf("Skipping %q: %v\n", question, answer.Err)
				continue
			}
			fmt.Printf("Answered: %s\n", question)
		}

		html, err := analyst.Report(ctx, reportGeneration, reportTypes)
		if err != nil {
			HandleError(err, "Failed to generate report")
		}

		fmt.Println(html)
	},
}

func init() {
	reportCmd.Flags().IntVarP(&reportGeneration, "generation", "g", 0, "Restrict the report to one generation (0 = all)")
	reportCmd.Flags().StringArrayVarP(&reportTypes, "type", "t", nil, "Restrict the report to these types (repeatable)")
	rootCmd.AddCommand(reportCmd)
}
