package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"charm.land/fantasy"
)

// Store is the slice of database behavior the tools need. Result payloads are
// opaque here; they only get JSON-encoded for the model.
type Store interface {
	ExecuteQuery(ctx context.Context, sqlText string) (any, error)
	GetPokemonByDex(ctx context.Context, dexnum int) (any, error)
	AddUserPokemon(ctx context.Context, userID int, name string) (int, error)
	GetUserParty(ctx context.Context, userID int) (any, error)
	Close() error
}

// Analyst runs the translation pipeline for one question.
type Analyst interface {
	Ask(ctx context.Context, question string) (any, error)
}

// InitStoreFunc opens the database; the returned func releases it.
type InitStoreFunc func(dataDir string) (Store, func(), error)

// InitAnalystFunc builds the conversational pipeline.
type InitAnalystFunc func(dataDir string) (Analyst, func(), error)

// CreateTools builds the Fantasy tool set. Each tool opens the database on
// demand and closes it when done, so the agent never holds a connection
// across turns.
func CreateTools(dataDir string, initStore InitStoreFunc, initAnalyst InitAnalystFunc) []fantasy.Tool {
	return []fantasy.Tool{
		runSQLTool(dataDir, initStore),
		schemaTool(dataDir, initStore),
		detailsTool(dataDir, initStore),
		catchTool(dataDir, initStore),
		partyTool(dataDir, initStore),
		askTool(dataDir, initAnalyst),
	}
}

func toJSON(v any) (string, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result as JSON: %v", err)
	}
	return string(jsonBytes), nil
}

func runSQLTool(dataDir string, initStore InitStoreFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		sqlText, ok := params["sql"].(string)
		if !ok || sqlText == "" {
			return "", fmt.Errorf("sql parameter is required")
		}

		db, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		result, err := db.ExecuteQuery(ctx, sqlText)
		if err != nil {
			return "", fmt.Errorf("failed to execute query: %v", err)
		}

		return toJSON(result)
	}

	return fantasy.NewAgentTool(
		"run_sql",
		"Run a read-only SQL query (SELECT or WITH) against the pokemon database",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "A single DuckDB SELECT statement. Writes are rejected.",
				},
			},
			"required": []string{"sql"},
		}),
	)
}

func schemaTool(dataDir string, initStore InitStoreFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		table, ok := params["table"].(string)
		if !ok || table == "" {
			return "", fmt.Errorf("table parameter is required")
		}

		db, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		result, err := db.ExecuteQuery(ctx, fmt.Sprintf("SELECT name, type FROM pragma_table_info('%s')", table))
		if err != nil {
			return "", fmt.Errorf("failed to get schema: %v", err)
		}

		return toJSON(result)
	}

	return fantasy.NewAgentTool(
		"get_schema",
		"List the columns of a table in the pokemon database",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name: pokemon, UserData, UserPokemon, or type_effectiveness",
				},
			},
			"required": []string{"table"},
		}),
	)
}

func detailsTool(dataDir string, initStore InitStoreFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		dexnum, ok := params["dexnum"].(float64)
		if !ok {
			return "", fmt.Errorf("dexnum parameter is required")
		}

		db, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		pokemon, err := db.GetPokemonByDex(ctx, int(dexnum))
		if err != nil {
			return "", fmt.Errorf("failed to get pokemon details: %v", err)
		}

		return toJSON(pokemon)
	}

	return fantasy.NewAgentTool(
		"details",
		"Get detailed catalog information about a pokemon by dex number",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"dexnum": map[string]interface{}{
					"type":        "integer",
					"description": "The national dex number of the pokemon",
				},
			},
			"required": []string{"dexnum"},
		}),
	)
}

func catchTool(dataDir string, initStore InitStoreFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		name, ok := params["name"].(string)
		if !ok || name == "" {
			return "", fmt.Errorf("name parameter is required")
		}
		userID := 1
		if u, ok := params["user_id"].(float64); ok {
			userID = int(u)
		}

		db, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		slot, err := db.AddUserPokemon(ctx, userID, name)
		if err != nil {
			return "", fmt.Errorf("failed to catch pokemon: %v", err)
		}

		return toJSON(map[string]interface{}{
			"user_id": userID,
			"name":    name,
			"slot_no": slot,
		})
	}

	return fantasy.NewAgentTool(
		"catch",
		"Add a pokemon to a user's party by its Korean name",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The pokemon's name as it appears in the catalog (Korean)",
				},
				"user_id": map[string]interface{}{
					"type":        "integer",
					"description": "The user catching the pokemon (default: 1)",
				},
			},
			"required": []string{"name"},
		}),
	)
}

func partyTool(dataDir string, initStore InitStoreFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		userID, ok := params["user_id"].(float64)
		if !ok {
			return "", fmt.Errorf("user_id parameter is required")
		}

		db, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		party, err := db.GetUserParty(ctx, int(userID))
		if err != nil {
			return "", fmt.Errorf("failed to load party: %v", err)
		}

		return toJSON(party)
	}

	return fantasy.NewAgentTool(
		"party",
		"List the pokemon a user owns, ordered by slot number",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "integer",
					"description": "The user whose party to list",
				},
			},
			"required": []string{"user_id"},
		}),
	)
}

func askTool(dataDir string, initAnalyst InitAnalystFunc) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		question, ok := params["question"].(string)
		if !ok || question == "" {
			return "", fmt.Errorf("question parameter is required")
		}

		analyst, cleanup, err := initAnalyst(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize: %v", err)
		}
		defer cleanup()

		answer, err := analyst.Ask(ctx, question)
		if err != nil {
			return "", fmt.Errorf("query failed: %v", err)
		}

		return toJSON(answer)
	}

	return fantasy.NewAgentTool(
		"ask_database",
		"Translate a natural language question into SQL and run it",
		toolFunc,
		fantasy.WithParameters(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "A natural language question about the pokemon data",
				},
			},
			"required": []string{"question"},
		}),
	)
}
