package cmd

import (
	"github.com/spf13/cobra"
)

var (
	dataDir string
	rootCmd = &cobra.Command{
		Use:   "pokelab",
		Short: "Pokelab - Conversational pokemon analytics",
		Long: `Pokelab is a CLI/TUI application for exploring a pokemon catalog
through natural language. Questions are translated into DuckDB SQL
by Claude and executed against a local database.

When run without commands, it launches an interactive chat TUI.
Use subcommands for CLI mode with JSON output.`,
		Run: func(cmd *cobra.Command, args []string) {
			// No subcommand specified - launch TUI
			LaunchTUI(dataDir)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "data/", "Directory containing CSV data files")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
