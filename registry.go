package main

import (
	"context"
	"fmt"
	"strings"
)

// SchemaDescription is the Korean schema summary handed to the model as part
// of the system prompt. It describes every table the translator may query,
// including the column semantics it needs to write joins correctly.
const SchemaDescription = `[데이터베이스 스키마]

1. pokemon (포켓몬 도감 데이터)
   - dexnum: 도감 번호 (INTEGER)
   - name: 포켓몬 이름, 한국어 (VARCHAR)
   - generation: 세대 (INTEGER, 1~9)
   - type1: 첫 번째 타입, 영어 (VARCHAR, 예: 'Electric')
   - type2: 두 번째 타입, 영어 (VARCHAR, 단일 타입이면 NULL)
   - species: 분류 (VARCHAR)
   - height: 키(m) (DOUBLE)
   - weight: 몸무게(kg) (DOUBLE)
   - ability1, ability2, hidden_ability: 특성 (VARCHAR)
   - hp, attack, defense, sp_atk, sp_def, speed: 종족값 (INTEGER)
   - total: 종족값 합계 (INTEGER)
   - ev_yield, catch_rate, base_friendship, base_exp, growth_rate: 육성 정보
   - egg_group1, egg_group2, percent_male, percent_female, egg_cycles: 번식 정보
   - special_group: 전설/환상/일반 구분 (VARCHAR)

2. UserData (사용자)
   - User_id: 사용자 ID (INTEGER)
   - Username: 사용자 이름 (VARCHAR)
   - Favorite_type: 선호 타입, 영어 (VARCHAR)

3. UserPokemon (사용자가 보유한 포켓몬)
   - user_pokemon_id: 보유 레코드 ID (INTEGER)
   - user_id: 소유자 ID (INTEGER, UserData.User_id 참조)
   - pokemon_id: 도감 번호 (INTEGER, pokemon.dexnum 참조)
   - pokemon_name: 포켓몬 이름 (VARCHAR)
   - slot_no: 사용자별 슬롯 번호 (INTEGER, 1부터 시작)

4. type_effectiveness (타입 상성표, 18x18 = 324행)
   - attacking_type: 공격 타입, 영어 (VARCHAR)
   - defending_type: 방어 타입, 영어 (VARCHAR)
   - multiplier: 배율 (DOUBLE, 0.0 / 0.5 / 1.0 / 2.0)`

// RegistryTable is one expected table with the columns queries depend on.
type RegistryTable struct {
	Name    string
	Columns []string
}

// RegistryTables enumerates the schema the prompt describes. Startup compares
// it against the live database so prompt text and reality cannot silently
// drift apart.
var RegistryTables = []RegistryTable{
	{
		Name: "pokemon",
		Columns: []string{
			"dexnum", "name", "generation", "type1", "type2", "species",
			"height", "weight", "ability1", "ability2", "hidden_ability",
			"hp", "attack", "defense", "sp_atk", "sp_def", "speed", "total",
			"ev_yield", "catch_rate", "base_friendship", "base_exp", "growth_rate",
			"egg_group1", "egg_group2", "percent_male", "percent_female",
			"egg_cycles", "special_group",
		},
	},
	{
		Name:    "UserData",
		Columns: []string{"User_id", "Username", "Favorite_type"},
	},
	{
		Name:    "UserPokemon",
		Columns: []string{"user_pokemon_id", "user_id", "pokemon_id", "pokemon_name", "slot_no"},
	},
	{
		Name:    "type_effectiveness",
		Columns: []string{"attacking_type", "defending_type", "multiplier"},
	},
}

// ValidateRegistry compares RegistryTables against the live catalog and
// returns a human-readable warning per discrepancy. Drift is reported, not
// fatal; callers decide whether to log or abort.
func (d *DB) ValidateRegistry(ctx context.Context) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = 'main'
	`)
	if err != nil {
		return nil, fmt.Errorf("reading information_schema: %w", err)
	}
	defer rows.Close()

	live := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scanning column info: %w", err)
		}
		key := strings.ToLower(table)
		if live[key] == nil {
			live[key] = make(map[string]bool)
		}
		live[key][strings.ToLower(column)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column info: %w", err)
	}

	var warnings []string
	for _, want := range RegistryTables {
		cols, ok := live[strings.ToLower(want.Name)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("table %s is described in the schema registry but missing from the database", want.Name))
			continue
		}
		for _, col := range want.Columns {
			if !cols[strings.ToLower(col)] {
				warnings = append(warnings, fmt.Sprintf("column %s.%s is described in the schema registry but missing from the database", want.Name, col))
			}
		}
	}
	return warnings, nil
}
