package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SchemaOutput represents the schema information for a table
type SchemaOutput struct {
	TableName   string       `json:"table_name"`
	ColumnCount int          `json:"column_count"`
	Columns     []ColumnInfo `json:"columns"`
}

// ColumnInfo represents information about a single column
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Retrieve a summary of the DuckDB database schema",
	Long: `Retrieve a summary of the local DuckDB database schema.
This command returns information about all tables and their columns in the database.

Examples:
  pokelab schema`,
	Run: func(cmd *cobra.Command, args []string) {
		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		// Get schema information for all tables
		tables := []string{"pokemon", "UserData", "UserPokemon", "type_effectiveness"}
		schemas := make([]SchemaOutput, 0, len(tables))

		for _, tableName := range tables {
			schema, err := getTableSchema(db, tableName)
			if err != nil {
				// Skip tables that don't exist
				continue
			}
			schemas = append(schemas, schema)
		}

		// Convert to JSON output
		output, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

// getTableSchema retrieves schema information for a specific table. The
// pragma is queried as a table function so it passes the read-only gate.
func getTableSchema(db Store, tableName string) (SchemaOutput, error) {
	query := fmt.Sprintf("SELECT name, type, \"notnull\" FROM pragma_table_info('%s')", tableName)
	result, err := db.ExecuteQuery(context.Background(), query)
	if err != nil {
		return SchemaOutput{}, fmt.Errorf("failed to get schema for table %s: %w", tableName, err)
	}
	if len(result.Rows) == 0 {
		return SchemaOutput{}, fmt.Errorf("table %s not found", tableName)
	}

	schema := SchemaOutput{
		TableName: tableName,
		Columns:   []ColumnInfo{},
	}

	for _, row := range result.Rows {
		if len(row) < 3 {
			continue
		}
		name, _ := row[0].(string)
		colType, _ := row[1].(string)

		nullable := "YES"
		if notnull, ok := row[2].(bool); ok && notnull {
			nullable = "NO"
		}

		schema.Columns = append(schema.Columns, ColumnInfo{
			Name:     name,
			Type:     colType,
			Nullable: nullable,
		})
	}

	schema.ColumnCount = len(schema.Columns)

	return schema, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
