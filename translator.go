package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// TranslationResult is what comes back from a translation attempt. SQL is
// empty when the question could not be turned into a query; Explanation then
// carries the reason in the assistant's own voice, so callers render it the
// same way they would render a successful answer's commentary.
type TranslationResult struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation"`
}

// HasSQL reports whether the result carries a runnable query.
func (r TranslationResult) HasSQL() bool {
	return strings.TrimSpace(r.SQL) != ""
}

// Translator turns a natural-language question into a TranslationResult.
// History holds recent prior questions, oldest first, for follow-up context.
type Translator interface {
	Translate(ctx context.Context, question string, history []string) TranslationResult
}

// systemPrompt frames the model as Professor Oak and pins down the SQL rules
// the rest of the pipeline depends on. Kept in Korean because the users and
// the catalog's proper nouns are Korean.
const systemPrompt = `당신은 포켓몬 연구의 권위자 오박사입니다. 트레이너의 질문을 DuckDB SQL로 번역하는 것이 당신의 임무입니다.

` + SchemaDescription + `

[규칙]
1. 반드시 단일 SELECT 문(또는 WITH로 시작하는 CTE)만 작성하세요. INSERT, UPDATE, DELETE, DROP 등 데이터를 변경하는 문장은 절대 작성하지 마세요.
2. JSON 함수(json_extract 등)는 사용하지 마세요.
3. 타입 비교는 반드시 영어 타입명을 사용하세요 (예: type1 = 'Electric'). 한국어 타입명을 SQL에 쓰지 마세요.
4. 포켓몬 이름은 한국어 고유명사 그대로 사용하세요 (예: name = '피카츄').
5. 포켓몬 목록을 조회할 때는 가능하면 dexnum 컬럼을 함께 SELECT 하세요.
6. 방어 상성을 계산할 때는 두 타입 모두 고려하세요. type1과 type2 각각에 대해 type_effectiveness를 LEFT JOIN 하고, COALESCE(m1.multiplier, 1.0) * COALESCE(m2.multiplier, 1.0) 으로 최종 배율을 구하세요. 단일 타입(type2 IS NULL)은 COALESCE가 1.0으로 처리합니다.
7. "A가 B를 공격하면" 류의 질문은 공격자의 type1을 attacking_type으로 사용하세요.
8. 질문이 SQL로 답할 수 없는 경우(인사, 잡담, 데이터에 없는 내용)에는 sql을 빈 문자열로 두고 explanation에 오박사의 말투로 이유를 설명하세요.

[출력 형식]
반드시 아래 JSON 형식으로만 응답하세요. 다른 텍스트를 덧붙이지 마세요.
{"sql": "SELECT ...", "explanation": "오박사의 말투로 쓴 한 두 문장의 설명"}`

// ClaudeTranslator implements Translator on top of the Anthropic API.
type ClaudeTranslator struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewClaudeTranslator builds a translator from the environment. A missing
// ANTHROPIC_API_KEY is not an error; the translator is constructed with no
// client and every Translate call returns a diagnostic result telling the
// user how to fix their setup.
func NewClaudeTranslator() *ClaudeTranslator {
	t := &ClaudeTranslator{
		model: anthropic.ModelClaudeHaiku4_5_20251001,
	}
	if m := os.Getenv("POKELAB_MODEL"); m != "" {
		t.model = anthropic.Model(m)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		if logger != nil {
			logger.Warn("ANTHROPIC_API_KEY not set, translation disabled")
		}
		return t
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(60*time.Second),
	)
	t.client = &client
	return t
}

func (t *ClaudeTranslator) Translate(ctx context.Context, question string, history []string) TranslationResult {
	if t.client == nil {
		return TranslationResult{
			Explanation: "오박사: 허허, 연구소 단말기가 연결되어 있지 않구나. ANTHROPIC_API_KEY 환경 변수를 설정한 뒤 다시 물어보렴.",
		}
	}

	prompt := buildUserPrompt(question, history)

	params := anthropic.MessageNewParams{
		Model:     t.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := t.client.Messages.New(ctx, params)
	if err != nil {
		// One retry on transport failures; a second failure is final.
		if logger != nil {
			logger.Warn("Translation request failed, retrying once", "error", err)
		}
		message, err = t.client.Messages.New(ctx, params)
		if err != nil {
			if logger != nil {
				logger.Error("Translation request failed", "error", err, "question", question)
			}
			return TranslationResult{
				Explanation: fmt.Sprintf("오박사: 이런, 연구소 통신에 문제가 생긴 모양이다. 잠시 후 다시 시도해 보렴. (%v)", err),
			}
		}
	}

	var responseText string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			responseText += textBlock.Text
		}
	}

	result, err := parseTranslation(responseText)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to parse translation response", "error", err, "response", responseText)
		}
		return TranslationResult{
			Explanation: "오박사: 으음, 이번에는 대답을 제대로 정리하지 못했구나. 질문을 조금 바꿔서 다시 물어봐 주겠니?",
		}
	}

	// The model is told to emit English type literals but Korean ones still
	// slip through; normalize before the query ever runs.
	result.SQL = NormalizeTypeLiterals(result.SQL)
	return result
}

// buildUserPrompt prepends recent conversation context so follow-up questions
// like "그중에 제일 빠른 건?" resolve against what was just asked.
func buildUserPrompt(question string, history []string) string {
	if len(history) == 0 {
		return question
	}

	var sb strings.Builder
	sb.WriteString("[이전 질문들]\n")
	for _, h := range history {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}
	sb.WriteString("\n[현재 질문]\n")
	sb.WriteString(question)
	return sb.String()
}

// parseTranslation extracts the JSON payload from the model's reply. Models
// wrap JSON in markdown fences often enough that we strip them first.
func parseTranslation(text string) (TranslationResult, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var result TranslationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return TranslationResult{}, fmt.Errorf("failed to parse translation JSON: %w", err)
	}
	return result, nil
}
