package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

type Pokemon struct {
	Dexnum     int
	Name       string
	Generation int
	Type1      string
	Type2      sql.NullString
	Species    sql.NullString
	Height     sql.NullFloat64
	Weight     sql.NullFloat64
	HP         int
	Attack     int
	Defense    int
	SpAtk      int
	SpDef      int
	Speed      int
	Total      int
}

type PartyMember struct {
	UserPokemonID int
	UserID        int
	PokemonID     int
	PokemonName   string
	SlotNo        int
}

type DB struct {
	conn    *sql.DB
	dataDir string
}

func NewDB(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, "pokelab.duckdb")

	// Check if database needs to be initialized
	needsInit := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		needsInit = true
	}

	// Open the database file
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open DuckDB database", "error", err, "db_path", dbPath)
		}
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	d := &DB{
		conn:    db,
		dataDir: dataDir,
	}

	// Initialize database if needed
	if needsInit {
		fmt.Println("📊 Initializing database from CSV files...")
		if err := d.initializeDatabase(); err != nil {
			db.Close()
			if logger != nil {
				logger.Error("Database initialization failed", "error", err, "data_dir", dataDir)
			}
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		fmt.Println("✅ Database initialized successfully!")
		if logger != nil {
			logger.Info("Database initialized successfully", "db_path", dbPath)
		}
	}

	// The effectiveness matrix is always rebuilt from the in-code ruleset so
	// a stale or hand-edited table cannot survive a restart.
	if err := d.RebuildTypeEffectiveness(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	// Schema registry drift is reported but never fatal
	warnings, err := d.ValidateRegistry(context.Background())
	if err != nil {
		if logger != nil {
			logger.Warn("Schema registry validation failed", "error", err)
		}
	}
	for _, w := range warnings {
		fmt.Printf("⚠ %s\n", w)
		if logger != nil {
			logger.Warn("Schema registry drift", "detail", w)
		}
	}

	return d, nil
}

// CheckDataFiles verifies the source CSVs exist before we try to initialize.
// Returns the list of missing files; an empty list means we are good to go.
func CheckDataFiles(dataDir string) []string {
	required := []string{"pokemon_data.csv", "userdata.csv", "user_pokemon.csv"}
	var missing []string
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(dataDir, name)); os.IsNotExist(err) {
			missing = append(missing, name)
		}
	}
	return missing
}

// initializeDatabase creates tables and loads data from CSV files
func (d *DB) initializeDatabase() error {
	pokemonFile := filepath.Join(d.dataDir, "pokemon_data.csv")
	userFile := filepath.Join(d.dataDir, "userdata.csv")
	partyFile := filepath.Join(d.dataDir, "user_pokemon.csv")

	// Start transaction for faster bulk insert
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Ignore error - will fail if transaction was committed
	}()

	// Create pokemon table
	fmt.Println("   Loading pokemon catalog...")
	start := time.Now()
	_, err = tx.Exec(fmt.Sprintf(`
		CREATE TABLE pokemon AS
		SELECT * FROM read_csv('%s', header=true)
	`, pokemonFile))
	if err != nil {
		return fmt.Errorf("failed to create pokemon table: %w", err)
	}
	fmt.Printf("   ✓ Pokemon catalog loaded (%v)\n", time.Since(start))

	// Create indexes on pokemon table
	fmt.Println("   Creating indexes on pokemon...")
	start = time.Now()
	_, err = tx.Exec(`CREATE INDEX idx_pokemon_dexnum ON pokemon(dexnum)`)
	if err != nil {
		return fmt.Errorf("failed to create index on dexnum: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX idx_pokemon_name ON pokemon(name)`)
	if err != nil {
		return fmt.Errorf("failed to create index on name: %w", err)
	}
	_, err = tx.Exec(`CREATE INDEX idx_pokemon_type1 ON pokemon(type1)`)
	if err != nil {
		return fmt.Errorf("failed to create index on type1: %w", err)
	}
	fmt.Printf("   ✓ Indexes created (%v)\n", time.Since(start))

	// Create user table
	fmt.Println("   Loading user data...")
	start = time.Now()
	_, err = tx.Exec(fmt.Sprintf(`
		CREATE TABLE UserData AS
		SELECT * FROM read_csv('%s', header=true)
	`, userFile))
	if err != nil {
		return fmt.Errorf("failed to create UserData table: %w", err)
	}
	fmt.Printf("   ✓ Users loaded (%v)\n", time.Since(start))

	// Create party table
	fmt.Println("   Loading party data...")
	start = time.Now()
	_, err = tx.Exec(fmt.Sprintf(`
		CREATE TABLE UserPokemon AS
		SELECT * FROM read_csv('%s', header=true)
	`, partyFile))
	if err != nil {
		return fmt.Errorf("failed to create UserPokemon table: %w", err)
	}
	fmt.Printf("   ✓ Parties loaded (%v)\n", time.Since(start))

	// Create index on party table
	_, err = tx.Exec(`CREATE INDEX idx_userpokemon_user ON UserPokemon(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create index on UserPokemon user_id: %w", err)
	}

	// Commit transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// ExecuteQuery runs a single read-only statement and returns the full result
// set. Anything that is not SELECT-shaped is rejected before it touches the
// engine. A query that succeeds with zero rows is a success, not an error.
func (d *DB) ExecuteQuery(ctx context.Context, sqlText string) (*RowSet, error) {
	if err := guardReadOnly(sqlText); err != nil {
		if logger != nil {
			logger.Warn("Rejected non-read-only statement", "sql", sqlText)
		}
		return nil, err
	}

	rows, err := d.conn.QueryContext(ctx, sqlText)
	if err != nil {
		if logger != nil {
			logger.Error("Query execution failed", "error", err, "sql", sqlText)
		}
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}

	result := &RowSet{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &ExecutionError{SQL: sqlText, Err: err}
		}
		result.Rows = append(result.Rows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}

	return result, nil
}

// normalizeValues converts driver-specific scan results into plain Go values
// that survive JSON round-trips. DuckDB hands back []byte for some VARCHAR
// columns.
func normalizeValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			out[i] = string(b)
		} else {
			out[i] = v
		}
	}
	return out
}

// AddUserPokemon records that a user caught the named pokemon. The slot
// number is one more than the user's current maximum, so deleted slots are
// never reused. Returns the assigned slot.
func (d *DB) AddUserPokemon(ctx context.Context, userID int, name string) (int, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var dexnum int
	err = tx.QueryRowContext(ctx, `SELECT dexnum FROM pokemon WHERE name = $1 LIMIT 1`, name).Scan(&dexnum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &LookupNotFoundError{Name: name}
		}
		return 0, fmt.Errorf("failed to look up pokemon: %w", err)
	}

	var slot, recordID int
	err = tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(MAX(slot_no), 0) + 1,
			(SELECT COALESCE(MAX(user_pokemon_id), 0) + 1 FROM UserPokemon)
		FROM UserPokemon
		WHERE user_id = $1
	`, userID).Scan(&slot, &recordID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next slot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO UserPokemon (user_pokemon_id, user_id, pokemon_id, pokemon_name, slot_no)
		VALUES ($1, $2, $3, $4, $5)
	`, recordID, userID, dexnum, name, slot)
	if err != nil {
		return 0, fmt.Errorf("failed to insert party member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	if logger != nil {
		logger.Info("Pokemon added to party", "user_id", userID, "pokemon", name, "slot", slot)
	}

	return slot, nil
}

// GetUserParty returns the user's owned pokemon ordered by slot.
func (d *DB) GetUserParty(ctx context.Context, userID int) ([]PartyMember, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT user_pokemon_id, user_id, pokemon_id, pokemon_name, slot_no
		FROM UserPokemon
		WHERE user_id = $1
		ORDER BY slot_no
	`, userID)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to query party", "error", err, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to query party: %w", err)
	}
	defer rows.Close()

	var party []PartyMember
	for rows.Next() {
		var m PartyMember
		if err := rows.Scan(&m.UserPokemonID, &m.UserID, &m.PokemonID, &m.PokemonName, &m.SlotNo); err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		party = append(party, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return party, nil
}

const pokemonSelect = `
	SELECT dexnum, name, generation, type1, type2, species,
		height, weight, hp, attack, defense, sp_atk, sp_def, speed, total
	FROM pokemon
`

func (d *DB) scanPokemon(row *sql.Row) (*Pokemon, error) {
	var p Pokemon
	err := row.Scan(
		&p.Dexnum,
		&p.Name,
		&p.Generation,
		&p.Type1,
		&p.Type2,
		&p.Species,
		&p.Height,
		&p.Weight,
		&p.HP,
		&p.Attack,
		&p.Defense,
		&p.SpAtk,
		&p.SpDef,
		&p.Speed,
		&p.Total,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) GetPokemonByDex(ctx context.Context, dexnum int) (*Pokemon, error) {
	row := d.conn.QueryRowContext(ctx, pokemonSelect+` WHERE dexnum = $1 LIMIT 1`, dexnum)
	p, err := d.scanPokemon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pokemon #%d not found", dexnum)
		}
		if logger != nil {
			logger.Error("Failed to get pokemon by dexnum", "error", err, "dexnum", dexnum)
		}
		return nil, fmt.Errorf("failed to get pokemon: %w", err)
	}
	return p, nil
}

func (d *DB) GetPokemonByName(ctx context.Context, name string) (*Pokemon, error) {
	row := d.conn.QueryRowContext(ctx, pokemonSelect+` WHERE name = $1 LIMIT 1`, name)
	p, err := d.scanPokemon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &LookupNotFoundError{Name: name}
		}
		if logger != nil {
			logger.Error("Failed to get pokemon by name", "error", err, "name", name)
		}
		return nil, fmt.Errorf("failed to get pokemon: %w", err)
	}
	return p, nil
}

// Summarize returns DuckDB's SUMMARIZE output for a registered table. The
// table name comes from the registry, not from user input, so this is the one
// place a non-SELECT statement is allowed through.
func (d *DB) Summarize(ctx context.Context, table string) (*RowSet, error) {
	known := false
	for _, t := range RegistryTables {
		if t.Name == table {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	rows, err := d.conn.QueryContext(ctx, fmt.Sprintf("SUMMARIZE %s", table))
	if err != nil {
		return nil, &ExecutionError{SQL: "SUMMARIZE " + table, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{SQL: "SUMMARIZE " + table, Err: err}
	}

	result := &RowSet{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &ExecutionError{SQL: "SUMMARIZE " + table, Err: err}
		}
		result.Rows = append(result.Rows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pokemon) DisplayName() string {
	return fmt.Sprintf("#%d %s", p.Dexnum, p.Name)
}

func (p *Pokemon) TypeString() string {
	if p.Type2.Valid && p.Type2.String != "" {
		return fmt.Sprintf("%s / %s", p.Type1, p.Type2.String)
	}
	return p.Type1
}

func (p *Pokemon) HeightString() string {
	if p.Height.Valid {
		return fmt.Sprintf("%.1f m", p.Height.Float64)
	}
	return "N/A"
}

func (p *Pokemon) WeightString() string {
	if p.Weight.Valid {
		return fmt.Sprintf("%.1f kg", p.Weight.Float64)
	}
	return "N/A"
}

func (p *Pokemon) StatLine() string {
	return fmt.Sprintf("HP %d / Atk %d / Def %d / SpA %d / SpD %d / Spe %d (Total %d)",
		p.HP, p.Attack, p.Defense, p.SpAtk, p.SpDef, p.Speed, p.Total)
}
