package cmd

import (
	"context"
	"fmt"
	"os"
)

// QueryResult is a column-ordered result set (matches main.RowSet)
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// PokemonData represents one catalog entry (matches main.Pokemon)
type PokemonData struct {
	Dexnum     int    `json:"dexnum"`
	Name       string `json:"name"`
	Generation int    `json:"generation"`
	Type1      string `json:"type1"`
	Type2      string `json:"type2,omitempty"`
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	SpAtk      int    `json:"sp_atk"`
	SpDef      int    `json:"sp_def"`
	Speed      int    `json:"speed"`
	Total      int    `json:"total"`
}

// PartyMemberData is one owned pokemon (matches main.PartyMember)
type PartyMemberData struct {
	SlotNo      int    `json:"slot_no"`
	PokemonID   int    `json:"pokemon_id"`
	PokemonName string `json:"pokemon_name"`
}

// Store wraps database operations for CLI commands
type Store interface {
	ExecuteQuery(ctx context.Context, sqlText string) (*QueryResult, error)
	Summarize(ctx context.Context, table string) (*QueryResult, error)
	AddUserPokemon(ctx context.Context, userID int, name string) (int, error)
	GetUserParty(ctx context.Context, userID int) ([]PartyMemberData, error)
	GetPokemonByDex(ctx context.Context, dexnum int) (*PokemonData, error)
	RebuildTypeEffectiveness(ctx context.Context) error
	Close() error
}

// AskAnswer is one conversational exchange (matches main.Answer)
type AskAnswer struct {
	Question    string       `json:"question"`
	SQL         string       `json:"sql,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Rows        *QueryResult `json:"rows,omitempty"`
	Err         error        `json:"-"`
}

// Analyst runs the conversational pipeline and the final report
type Analyst interface {
	Ask(ctx context.Context, question string) AskAnswer
	Report(ctx context.Context, generation int, types []string) (string, error)
}

// These variables will be set by main package
var (
	LaunchTUI   func(dataDir string)
	InitDB      func(dataDir string) (Store, func(), error)
	InitAnalyst func(dataDir string) (Analyst, func(), error)
	StartServer func(port int, dataDir string) error
)

// HandleError prints error and exits
func HandleError(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}
