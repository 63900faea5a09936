package main

import (
	"context"
	"testing"
)

func TestBuildTypeChart(t *testing.T) {
	chart := BuildTypeChart(Types, SuperEffective, NotVeryEffective, NoEffect)

	if len(chart) != 324 {
		t.Fatalf("expected 324 matchups, got %d", len(chart))
	}

	seen := make(map[[2]string]bool)
	for _, m := range chart {
		key := [2]string{m.Attacking, m.Defending}
		if seen[key] {
			t.Errorf("duplicate matchup %s vs %s", m.Attacking, m.Defending)
		}
		seen[key] = true

		switch m.Multiplier {
		case 0.0, 0.5, 1.0, 2.0:
		default:
			t.Errorf("%s vs %s: unexpected multiplier %v", m.Attacking, m.Defending, m.Multiplier)
		}
	}

	for _, atk := range Types {
		for _, def := range Types {
			if !seen[[2]string{atk, def}] {
				t.Errorf("missing matchup %s vs %s", atk, def)
			}
		}
	}
}

func TestBuildTypeChartPrecedence(t *testing.T) {
	// A pair listed in several rule sets resolves to the strongest effect.
	types := []string{"A", "B"}
	super := map[string][]string{"A": {"B"}}
	notVery := map[string][]string{"A": {"B"}}
	noEffect := map[string][]string{"A": {"B"}}

	chart := BuildTypeChart(types, super, notVery, noEffect)
	for _, m := range chart {
		if m.Attacking == "A" && m.Defending == "B" {
			if m.Multiplier != 2.0 {
				t.Errorf("conflicting rules resolved to %v, want 2.0", m.Multiplier)
			}
			return
		}
	}
	t.Fatal("A vs B matchup missing")
}

func TestBuildTypeChartKnownMatchups(t *testing.T) {
	chart := BuildTypeChart(Types, SuperEffective, NotVeryEffective, NoEffect)
	lookup := make(map[[2]string]float64)
	for _, m := range chart {
		lookup[[2]string{m.Attacking, m.Defending}] = m.Multiplier
	}

	tests := []struct {
		name      string
		attacking string
		defending string
		want      float64
	}{
		{"electric shocks water", "Electric", "Water", 2.0},
		{"water douses fire", "Water", "Fire", 2.0},
		{"ground misses flying", "Ground", "Flying", 0.0},
		{"normal passes through ghost", "Normal", "Ghost", 0.0},
		{"electric resisted by dragon", "Electric", "Dragon", 0.5},
		{"fire resisted by water", "Fire", "Water", 0.5},
		{"psychic blind to dark", "Psychic", "Dark", 0.0},
		{"dragon cannot touch fairy", "Dragon", "Fairy", 0.0},
		{"neutral matchup", "Normal", "Fighting", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup[[2]string{tt.attacking, tt.defending}]
			if !ok {
				t.Fatalf("matchup %s vs %s missing from chart", tt.attacking, tt.defending)
			}
			if got != tt.want {
				t.Errorf("%s vs %s = %v, want %v", tt.attacking, tt.defending, got, tt.want)
			}
		})
	}
}

func TestRebuildTypeEffectiveness(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	countRows := func() int {
		rs, err := db.ExecuteQuery(ctx, "SELECT COUNT(*) FROM type_effectiveness")
		if err != nil {
			t.Fatalf("count query failed: %v", err)
		}
		n, ok := rs.Rows[0][0].(int64)
		if !ok {
			t.Fatalf("unexpected count type %T", rs.Rows[0][0])
		}
		return int(n)
	}

	if got := countRows(); got != 324 {
		t.Errorf("expected 324 rows after startup rebuild, got %d", got)
	}

	// Rebuilding again must not duplicate rows.
	if err := db.RebuildTypeEffectiveness(ctx); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if got := countRows(); got != 324 {
		t.Errorf("expected 324 rows after second rebuild, got %d", got)
	}

	rs, err := db.ExecuteQuery(ctx,
		"SELECT multiplier FROM type_effectiveness WHERE attacking_type = 'Electric' AND defending_type = 'Water'")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(rs.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rs.Rows))
	}
	if mult, ok := rs.Rows[0][0].(float64); !ok || mult != 2.0 {
		t.Errorf("Electric vs Water = %v, want 2.0", rs.Rows[0][0])
	}
}
