package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func TestParseTranslation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSQL string
		wantErr bool
	}{
		{
			"plain json",
			`{"sql": "SELECT 1", "explanation": "간단한 질의란다."}`,
			"SELECT 1",
			false,
		},
		{
			"json fence",
			"```json\n{\"sql\": \"SELECT name FROM pokemon\", \"explanation\": \"전부 보여주마.\"}\n```",
			"SELECT name FROM pokemon",
			false,
		},
		{
			"bare fence",
			"```\n{\"sql\": \"SELECT 2\", \"explanation\": \"x\"}\n```",
			"SELECT 2",
			false,
		},
		{
			"no sql answer",
			`{"sql": "", "explanation": "그건 데이터에 없는 내용이구나."}`,
			"",
			false,
		},
		{
			"garbage",
			"오박사: 허허, JSON이 아니구나.",
			"",
			true,
		},
		{
			"empty",
			"",
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTranslation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.SQL != tt.wantSQL {
				t.Errorf("SQL = %q, want %q", result.SQL, tt.wantSQL)
			}
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	t.Run("no history passes question through", func(t *testing.T) {
		got := buildUserPrompt("전기 타입 몇 마리야?", nil)
		if got != "전기 타입 몇 마리야?" {
			t.Errorf("prompt = %q", got)
		}
	})

	t.Run("history comes before the current question", func(t *testing.T) {
		got := buildUserPrompt("그중에 제일 빠른 건?", []string{
			"전기 타입 몇 마리야?",
			"1세대만 보여줘",
		})
		if !strings.Contains(got, "[이전 질문들]") {
			t.Error("missing history header")
		}
		if !strings.Contains(got, "[현재 질문]") {
			t.Error("missing current question header")
		}
		first := strings.Index(got, "전기 타입 몇 마리야?")
		second := strings.Index(got, "1세대만 보여줘")
		current := strings.Index(got, "그중에 제일 빠른 건?")
		if !(first < second && second < current) {
			t.Errorf("history out of order in %q", got)
		}
	})
}

func TestTranslationResultHasSQL(t *testing.T) {
	if (TranslationResult{SQL: "SELECT 1"}).HasSQL() != true {
		t.Error("expected HasSQL true")
	}
	if (TranslationResult{SQL: "   "}).HasSQL() {
		t.Error("whitespace-only SQL should not count")
	}
	if (TranslationResult{Explanation: "잡담이구나"}).HasSQL() {
		t.Error("empty SQL should not count")
	}
}

// cannedTransport answers every request with a fixed Messages API response.
type cannedTransport struct {
	body string
}

func (c cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(c.body)),
		Request:    req,
	}, nil
}

func newCannedTranslator(t *testing.T, result TranslationResult) *ClaudeTranslator {
	t.Helper()

	inner, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal translation: %v", err)
	}
	outer, err := json.Marshal(map[string]any{
		"id":    "msg_test",
		"type":  "message",
		"role":  "assistant",
		"model": "claude-haiku-4-5-20251001",
		"content": []map[string]any{
			{"type": "text", "text": string(inner)},
		},
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 1, "output_tokens": 1},
	})
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithHTTPClient(&http.Client{Transport: cannedTransport{body: string(outer)}}),
	)
	return &ClaudeTranslator{client: &client, model: anthropic.ModelClaudeHaiku4_5_20251001}
}

func TestTranslateNormalizesKoreanTypeLiterals(t *testing.T) {
	// The model is told to emit English type names but Korean ones slip
	// through; Translate has to hand back SQL that already runs.
	translator := newCannedTranslator(t, TranslationResult{
		SQL:         "SELECT name, speed FROM pokemon WHERE type1 = '전기' ORDER BY speed DESC LIMIT 5",
		Explanation: "가장 빠른 전기 타입 다섯을 골라 보았단다.",
	})

	result := translator.Translate(context.Background(), "가장 빠른 전기 타입 5마리는?", nil)
	if !result.HasSQL() {
		t.Fatalf("expected SQL, got explanation %q", result.Explanation)
	}
	if strings.Contains(result.SQL, "전기") {
		t.Errorf("Korean type literal survived normalization: %q", result.SQL)
	}
	if !strings.Contains(result.SQL, "'Electric'") {
		t.Errorf("expected English type literal in %q", result.SQL)
	}

	db, cleanup := SetupTestDB(t)
	defer cleanup()

	rs, err := db.ExecuteQuery(context.Background(), result.SQL)
	if err != nil {
		t.Fatalf("normalized SQL failed to run: %v", err)
	}
	if len(rs.Rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rs.Rows))
	}
	if rs.Rows[0][0] != "붐볼" {
		t.Errorf("fastest = %v, want 붐볼", rs.Rows[0][0])
	}
	for i := 1; i < len(rs.Rows); i++ {
		if rs.Rows[i][1].(int64) > rs.Rows[i-1][1].(int64) {
			t.Errorf("speeds not descending at row %d: %v", i, rs.Rows)
		}
	}
}

func TestTranslateWithoutAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	translator := NewClaudeTranslator()
	result := translator.Translate(context.Background(), "전기 타입 몇 마리야?", nil)

	if result.HasSQL() {
		t.Errorf("expected no SQL without a key, got %q", result.SQL)
	}
	if !strings.Contains(result.Explanation, "ANTHROPIC_API_KEY") {
		t.Errorf("explanation should point at the missing key, got %q", result.Explanation)
	}
}
