package main

import (
	"context"
	"fmt"
)

// Types is the closed set of 18 type names used both as pokemon attributes
// and as the two dimensions of the effectiveness matrix.
var Types = []string{
	"Normal", "Fire", "Water", "Electric", "Grass", "Ice", "Fighting", "Poison",
	"Ground", "Flying", "Psychic", "Bug", "Rock", "Ghost", "Dragon", "Dark",
	"Steel", "Fairy",
}

// SuperEffective lists, per attacking type, the defending types that take 2x
// damage. Generations 1-5 chart.
var SuperEffective = map[string][]string{
	"Normal":   {},
	"Fire":     {"Grass", "Ice", "Bug", "Steel"},
	"Water":    {"Fire", "Ground", "Rock"},
	"Electric": {"Water", "Flying"},
	"Grass":    {"Water", "Ground", "Rock"},
	"Ice":      {"Grass", "Ground", "Flying", "Dragon"},
	"Fighting": {"Normal", "Ice", "Rock", "Dark", "Steel"},
	"Poison":   {"Grass", "Fairy"},
	"Ground":   {"Fire", "Electric", "Poison", "Rock", "Steel"},
	"Flying":   {"Grass", "Fighting", "Bug"},
	"Psychic":  {"Fighting", "Poison"},
	"Bug":      {"Grass", "Psychic", "Dark"},
	"Rock":     {"Fire", "Ice", "Flying", "Bug"},
	"Ghost":    {"Psychic", "Ghost"},
	"Dragon":   {"Dragon"},
	"Dark":     {"Psychic", "Ghost"},
	"Steel":    {"Ice", "Rock", "Fairy"},
	"Fairy":    {"Fighting", "Dragon", "Dark"},
}

// NotVeryEffective lists defending types that take 0.5x damage.
var NotVeryEffective = map[string][]string{
	"Normal":   {"Rock", "Steel"},
	"Fire":     {"Fire", "Water", "Rock", "Dragon"},
	"Water":    {"Water", "Grass", "Dragon"},
	"Electric": {"Electric", "Grass", "Dragon"},
	"Grass":    {"Fire", "Grass", "Poison", "Flying", "Bug", "Dragon", "Steel"},
	"Ice":      {"Fire", "Water", "Ice", "Steel"},
	"Fighting": {"Poison", "Flying", "Psychic", "Bug", "Fairy"},
	"Poison":   {"Poison", "Ground", "Rock", "Ghost"},
	"Ground":   {"Grass", "Bug"},
	"Flying":   {"Electric", "Rock", "Steel"},
	"Psychic":  {"Steel", "Psychic"},
	"Bug":      {"Fire", "Fighting", "Poison", "Flying", "Ghost", "Steel", "Fairy"},
	"Rock":     {"Fighting", "Ground", "Steel"},
	"Ghost":    {"Dark", "Steel"},
	"Dragon":   {"Steel"},
	"Dark":     {"Fighting", "Dark", "Fairy"},
	"Steel":    {"Fire", "Water", "Electric", "Steel"},
	"Fairy":    {"Fire", "Poison", "Steel"},
}

// NoEffect lists defending types that take no damage at all.
var NoEffect = map[string][]string{
	"Normal":   {"Ghost"},
	"Fighting": {"Ghost"},
	"Poison":   {"Steel"},
	"Ground":   {"Flying"},
	"Ghost":    {"Normal"},
	"Psychic":  {"Dark"},
	"Dragon":   {"Fairy"},
}

// TypeMatchup is one cell of the effectiveness matrix.
type TypeMatchup struct {
	Attacking  string
	Defending  string
	Multiplier float64
}

// BuildTypeChart produces exactly one matchup per ordered (attacking,
// defending) pair. The default multiplier is 1.0; rule precedence is
// super-effective > not-very-effective > no-effect, so a pair listed in more
// than one rule set resolves to the strongest effect.
func BuildTypeChart(types []string, super, notVery, noEffect map[string][]string) []TypeMatchup {
	contains := func(list []string, v string) bool {
		for _, item := range list {
			if item == v {
				return true
			}
		}
		return false
	}

	matchups := make([]TypeMatchup, 0, len(types)*len(types))
	for _, atk := range types {
		for _, def := range types {
			mult := 1.0
			switch {
			case contains(super[atk], def):
				mult = 2.0
			case contains(notVery[atk], def):
				mult = 0.5
			case contains(noEffect[atk], def):
				mult = 0.0
			}
			matchups = append(matchups, TypeMatchup{Attacking: atk, Defending: def, Multiplier: mult})
		}
	}
	return matchups
}

// RebuildTypeEffectiveness replaces the persisted matrix with a freshly built
// chart. The clear and reinsert happen inside one transaction, so readers
// never observe a mix of old and new rows; any failure rolls back and leaves
// the previous matrix intact.
func (d *DB) RebuildTypeEffectiveness(ctx context.Context) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return &MatrixRebuildError{Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS type_effectiveness (
			attacking_type VARCHAR,
			defending_type VARCHAR,
			multiplier DOUBLE,
			PRIMARY KEY (attacking_type, defending_type)
		)
	`)
	if err != nil {
		return &MatrixRebuildError{Err: fmt.Errorf("create table: %w", err)}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM type_effectiveness`); err != nil {
		return &MatrixRebuildError{Err: fmt.Errorf("clear matrix: %w", err)}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO type_effectiveness VALUES ($1, $2, $3)`)
	if err != nil {
		return &MatrixRebuildError{Err: fmt.Errorf("prepare insert: %w", err)}
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range BuildTypeChart(Types, SuperEffective, NotVeryEffective, NoEffect) {
		if _, err := stmt.ExecContext(ctx, m.Attacking, m.Defending, m.Multiplier); err != nil {
			return &MatrixRebuildError{Err: fmt.Errorf("insert %s vs %s: %w", m.Attacking, m.Defending, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &MatrixRebuildError{Err: fmt.Errorf("commit: %w", err)}
	}

	if logger != nil {
		logger.Info("Type effectiveness matrix rebuilt", "types", len(Types), "rows", len(Types)*len(Types))
	}

	return nil
}
