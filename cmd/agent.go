package cmd

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"github.com/spf13/cobra"
	"pokelab/internal/agent"
)

var agentCmd = &cobra.Command{
	Use:   "agent [question]",
	Short: "Ask a question through the tool-using Claude agent",
	Long: `Ask a free-form question and let Claude decide which tools to use:
running SQL, inspecting the schema, looking up pokemon, managing a
party, or the translation pipeline itself. Unlike "ask", the agent can
combine several tool calls into one answer.

Requires ANTHROPIC_API_KEY environment variable to be set.

Examples:
  pokelab agent "전기 타입 중 제일 빠른 포켓몬을 잡아줘"
  pokelab agent "Compare the stat totals of the starter pokemon"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := args[0]

		// Wrap the initialization functions to match the agent package's interfaces
		initStoreWrapper := func(dataDir string) (agent.Store, func(), error) {
			db, cleanup, err := InitDB(dataDir)
			if err != nil {
				return nil, nil, err
			}
			return &storeAdapter{db: db}, cleanup, nil
		}

		initAnalystWrapper := func(dataDir string) (agent.Analyst, func(), error) {
			analyst, cleanup, err := InitAnalyst(dataDir)
			if err != nil {
				return nil, nil, err
			}
			return &analystAdapter{analyst: analyst}, cleanup, nil
		}

		// Create the agent using the factory with options
		fantasyAgent, err := agent.NewResearchAgent(
			agent.WithAPIKeyFromEnv(),
			agent.WithDataDir(dataDir),
			agent.WithStoreInitializer(initStoreWrapper),
			agent.WithAnalystInitializer(initAnalystWrapper),
		)
		if err != nil {
			HandleError(err, "Failed to create agent")
		}

		ctx := context.Background()

		// Generate the response
		result, err := fantasyAgent.Generate(ctx, fantasy.AgentCall{Prompt: question})
		if err != nil {
			HandleError(err, "Failed to generate response")
		}

		// Print the response
		fmt.Println(result.Response.Content.Text())
	},
}

// storeAdapter adapts cmd.Store to agent.Store
type storeAdapter struct {
	db Store
}

func (a *storeAdapter) ExecuteQuery(ctx context.Context, sqlText string) (any, error) {
	return a.db.ExecuteQuery(ctx, sqlText)
}

func (a *storeAdapter) GetPokemonByDex(ctx context.Context, dexnum int) (any, error) {
	return a.db.GetPokemonByDex(ctx, dexnum)
}

func (a *storeAdapter) AddUserPokemon(ctx context.Context, userID int, name string) (int, error) {
	return a.db.AddUserPokemon(ctx, userID, name)
}

func (a *storeAdapter) GetUserParty(ctx context.Context, userID int) (any, error) {
	return a.db.GetUserParty(ctx, userID)
}

func (a *storeAdapter) Close() error {
	return a.db.Close()
}

// analystAdapter adapts cmd.Analyst to agent.Analyst
type analystAdapter struct {
	analyst Analyst
}

func (a *analystAdapter) Ask(ctx context.Context, question string) (any, error) {
	answer := a.analyst.Ask(ctx, question)
	if answer.Err != nil {
		return nil, answer.Err
	}
	return answer, nil
}

func init() {
	rootCmd.AddCommand(agentCmd)
}
