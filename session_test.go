package main

import (
	"context"
	"fmt"
	"testing"
)

func TestSessionAsk(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &stubTranslator{responses: map[string]TranslationResult{
		"전기 타입 중에 제일 빠른 다섯은?": {
			SQL:         "SELECT name, speed FROM pokemon WHERE type1 = 'Electric' ORDER BY speed DESC LIMIT 5",
			Explanation: "전기 타입을 스피드 순으로 정렬했단다.",
		},
	}}

	session := NewSession()
	answer := session.Ask(context.Background(), db, translator, "전기 타입 중에 제일 빠른 다섯은?")

	if answer.Err != nil {
		t.Fatalf("unexpected error: %v", answer.Err)
	}
	if answer.Rows == nil || len(answer.Rows.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %+v", answer.Rows)
	}

	var prev int64 = 1 << 62
	for i, row := range answer.Rows.Rows {
		speed, ok := row[1].(int64)
		if !ok {
			t.Fatalf("row %d speed has type %T", i, row[1])
		}
		if speed > prev {
			t.Errorf("speeds not descending at row %d: %d after %d", i, speed, prev)
		}
		prev = speed
	}
	if answer.Rows.Rows[0][0] != "붐볼" {
		t.Errorf("fastest electric = %v, want 붐볼", answer.Rows.Rows[0][0])
	}

	if len(session.Results) != 1 {
		t.Errorf("expected 1 stored result, got %d", len(session.Results))
	}
	if len(session.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(session.History))
	}
}

func TestSessionHistoryWindow(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &recordingTranslator{}
	session := NewSession()

	questions := make([]string, 5)
	for i := range questions {
		questions[i] = fmt.Sprintf("질문 %d", i+1)
		session.Ask(context.Background(), db, translator, questions[i])
	}

	if len(translator.seenHistory) != 5 {
		t.Fatalf("expected 5 translate calls, got %d", len(translator.seenHistory))
	}

	// The first call runs before any history exists.
	if len(translator.seenHistory[0]) != 0 {
		t.Errorf("first call saw history %v, want none", translator.seenHistory[0])
	}

	// The fifth call sees the three previous questions, oldest first, and
	// never the question being asked.
	last := translator.seenHistory[4]
	want := []string{"질문 2", "질문 3", "질문 4"}
	if len(last) != len(want) {
		t.Fatalf("fifth call saw %d history entries, want %d: %v", len(last), len(want), last)
	}
	for i := range want {
		if last[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, last[i], want[i])
		}
	}
}

func TestSessionAskNoSQL(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &stubTranslator{}
	session := NewSession()

	answer := session.Ask(context.Background(), db, translator, "안녕하세요!")
	if answer.SQL != "" {
		t.Errorf("expected no SQL, got %q", answer.SQL)
	}
	if answer.Explanation == "" {
		t.Error("expected a conversational explanation")
	}
	if answer.Err != nil {
		t.Errorf("unexpected error: %v", answer.Err)
	}

	// Small talk still counts as conversation context but produces no result.
	if len(session.Results) != 0 {
		t.Errorf("Results grew to %d on a no-SQL answer", len(session.Results))
	}
	if len(session.History) != 1 {
		t.Errorf("History = %d, want 1", len(session.History))
	}
}

func TestSessionAskBrokenSQL(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	translator := &stubTranslator{responses: map[string]TranslationResult{
		"이상한 질문": {
			SQL:         "SELECT missing_column FROM pokemon",
			Explanation: "시도해 보마.",
		},
	}}
	session := NewSession()

	answer := session.Ask(context.Background(), db, translator, "이상한 질문")
	if answer.Err == nil {
		t.Fatal("expected execution error")
	}
	if len(session.Results) != 0 {
		t.Errorf("failed query must not enter Results, got %d", len(session.Results))
	}
	if len(session.History) != 1 {
		t.Errorf("History = %d, want 1", len(session.History))
	}
}
