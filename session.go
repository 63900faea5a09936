package main

import (
	"context"
)

// historyWindow is how many prior questions get sent along with a new one.
const historyWindow = 3

// AnalysisResult is one successfully answered question, kept for the final
// report.
type AnalysisResult struct {
	Question string  `json:"question"`
	SQL      string  `json:"sql"`
	Rows     *RowSet `json:"rows"`
}

// Answer is everything a front-end needs to render one exchange.
type Answer struct {
	Question    string  `json:"question"`
	SQL         string  `json:"sql,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
	Rows        *RowSet `json:"rows,omitempty"`
	Err         error   `json:"-"`
}

// Session accumulates the conversation state for one user: the questions
// asked so far and the results that executed successfully. A Session is not
// safe for concurrent use; callers serialize access per user.
type Session struct {
	History []string
	Results []AnalysisResult
}

func NewSession() *Session {
	return &Session{}
}

// Ask runs the full pipeline for one question: translate with recent history
// as context, then execute if the translation produced SQL. The question
// always joins the history, even when translation or execution failed, so
// follow-ups can still refer to it. Results only grows on success.
func (s *Session) Ask(ctx context.Context, db *DB, translator Translator, question string) Answer {
	history := s.recentHistory()
	result := translator.Translate(ctx, question, history)
	s.History = append(s.History, question)

	answer := Answer{
		Question:    question,
		SQL:         result.SQL,
		Explanation: result.Explanation,
	}

	if !result.HasSQL() {
		return answer
	}

	rows, err := db.ExecuteQuery(ctx, result.SQL)
	if err != nil {
		answer.Err = err
		return answer
	}

	answer.Rows = rows
	s.Results = append(s.Results, AnalysisResult{
		Question: question,
		SQL:      result.SQL,
		Rows:     rows,
	})
	return answer
}

// recentHistory returns up to historyWindow prior questions, oldest first.
func (s *Session) recentHistory() []string {
	if len(s.History) <= historyWindow {
		return s.History
	}
	return s.History[len(s.History)-historyWindow:]
}
