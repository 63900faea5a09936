package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (model, func()) {
	t.Helper()
	db, cleanup := SetupTestDB(t)
	translator := &stubTranslator{responses: map[string]TranslationResult{
		"전기 타입 몇 마리야?": {
			SQL:         "SELECT COUNT(*) AS cnt FROM pokemon WHERE type1 = 'Electric'",
			Explanation: "전기 타입을 세어 보았단다.",
		},
	}}
	return initialModel(db, translator, NewReportService()), cleanup
}

func TestInitialModel(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	if !m.input.Focused() {
		t.Error("input should start focused")
	}
	if len(m.transcript) != 0 {
		t.Errorf("transcript should start empty, got %d entries", len(m.transcript))
	}
	if m.thinking || m.reporting {
		t.Error("model should start idle")
	}
	if m.session == nil {
		t.Error("model should carry a session")
	}
}

func TestEnterWithEmptyInput(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(model)

	if cmd != nil {
		t.Error("empty input should not dispatch a question")
	}
	if got.thinking {
		t.Error("model should stay idle on empty input")
	}
}

func TestEnterDispatchesQuestion(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	m.input.SetValue("전기 타입 몇 마리야?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(model)

	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	if !got.thinking {
		t.Error("model should be thinking after dispatch")
	}
	if got.input.Value() != "" {
		t.Error("input should clear on dispatch")
	}
	if len(got.transcript) != 1 {
		t.Fatalf("transcript should show the question, got %d entries", len(got.transcript))
	}
	if !strings.Contains(got.transcript[0], "전기 타입 몇 마리야?") {
		t.Errorf("transcript entry missing the question: %q", got.transcript[0])
	}
}

func TestEnterWhileThinking(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	m.thinking = true
	m.input.SetValue("다른 질문")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("a question in flight should block new dispatches")
	}
}

func TestAskResultUpdatesModel(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	m.thinking = true
	answer := Answer{
		Question:    "전기 타입 몇 마리야?",
		SQL:         "SELECT COUNT(*) FROM pokemon WHERE type1 = 'Electric'",
		Explanation: "전기 타입을 세어 보았단다.",
		Rows:        &RowSet{Columns: []string{"cnt"}, Rows: [][]any{{int64(6)}}},
	}

	updated, _ := m.Update(askResultMsg{answer: answer})
	got := updated.(model)

	if got.thinking {
		t.Error("thinking should clear when the answer arrives")
	}
	if got.lastSQL != answer.SQL {
		t.Errorf("lastSQL = %q, want the executed SQL", got.lastSQL)
	}
	if got.err != nil {
		t.Errorf("unexpected error state: %v", got.err)
	}
	if len(got.transcript) != 1 {
		t.Fatalf("transcript should grow by one, got %d", len(got.transcript))
	}
	if !strings.Contains(got.transcript[0], "전기 타입을 세어 보았단다.") {
		t.Errorf("transcript missing explanation: %q", got.transcript[0])
	}
}

func TestRenderAnswerTypeBadgesAndSparkline(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	t.Run("type columns render badges", func(t *testing.T) {
		out := m.renderAnswer(Answer{
			Question: "킹드라의 타입은?",
			SQL:      "SELECT name, type1, type2 FROM pokemon WHERE name = '킹드라'",
			Rows: &RowSet{
				Columns: []string{"name", "type1", "type2"},
				Rows:    [][]any{{"킹드라", "Water", "Dragon"}},
			},
		})
		// The result table already shows each type once; the badge line
		// adds a second occurrence.
		if strings.Count(out, "Water") < 2 || strings.Count(out, "Dragon") < 2 {
			t.Errorf("answer missing type badges: %q", out)
		}
	})

	t.Run("stat column without labels renders a sparkline", func(t *testing.T) {
		out := m.renderAnswer(Answer{
			Question: "세대별 평균 스피드는?",
			SQL:      "SELECT generation, speed FROM pokemon",
			Rows: &RowSet{
				Columns: []string{"generation", "speed"},
				Rows: [][]any{
					{int64(1), int64(90)},
					{int64(1), int64(110)},
					{int64(2), int64(150)},
				},
			},
		})
		if !strings.ContainsAny(out, "▁▂▃▄▅▆▇█") {
			t.Errorf("answer missing sparkline: %q", out)
		}
	})
}

func TestAskResultWithError(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	m.thinking = true
	m.lastSQL = "SELECT 1"
	answer := Answer{
		Question: "고장난 질문",
		SQL:      "SELECT missing FROM pokemon",
		Err:      &ExecutionError{SQL: "SELECT missing FROM pokemon", Err: errTestBinder},
	}

	updated, _ := m.Update(askResultMsg{answer: answer})
	got := updated.(model)

	if got.err == nil {
		t.Error("error state should surface failed answers")
	}
	if got.lastSQL != "SELECT missing FROM pokemon" {
		t.Errorf("lastSQL should still track the attempted SQL, got %q", got.lastSQL)
	}
}

var errTestBinder = &LookupNotFoundError{Name: "missing"}

func TestWindowSizeReadiesViewport(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	if m.viewportReady {
		t.Fatal("viewport should not be ready before the first size message")
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(model)

	if !got.viewportReady {
		t.Error("viewport should be ready after a size message")
	}
	if got.viewport.Width != 120 {
		t.Errorf("viewport width = %d, want 120", got.viewport.Width)
	}
	if got.viewport.Height != 33 {
		t.Errorf("viewport height = %d, want 33", got.viewport.Height)
	}
}

func TestReportResultAppendsTranscript(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	m.reporting = true
	updated, _ := m.Update(reportResultMsg{html: "<div><p>총평이란다.</p></div>"})
	got := updated.(model)

	if got.reporting {
		t.Error("reporting should clear when the report arrives")
	}
	if len(got.transcript) != 1 {
		t.Fatalf("transcript should grow by one, got %d", len(got.transcript))
	}
	if !strings.Contains(got.transcript[0], "연구 리포트") {
		t.Errorf("transcript missing report header: %q", got.transcript[0])
	}
}

func TestViewShowsStatus(t *testing.T) {
	m, cleanup := newTestModel(t)
	defer cleanup()

	view := m.View()
	if !strings.Contains(view, "포켓몬 연구소") {
		t.Error("view missing header")
	}
	if !strings.Contains(view, "Enter: Ask") {
		t.Error("view missing help text")
	}

	m.thinking = true
	if !strings.Contains(m.View(), "생각 중") {
		t.Error("view missing thinking indicator")
	}
}
