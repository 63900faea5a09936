package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// reportSystemPrompt keeps the report in Professor Oak's voice and constrains
// the output to an HTML fragment the web layer can embed directly.
const reportSystemPrompt = `당신은 포켓몬 연구의 권위자 오박사입니다. 트레이너가 이번 세션에서 분석한 내용을 바탕으로 연구 리포트를 작성합니다.

[규칙]
1. 출력은 완전한 HTML 문서가 아니라 <div>로 감싼 HTML 조각이어야 합니다. <html>, <head>, <body> 태그를 쓰지 마세요.
2. 질문별로 <h3> 소제목을 달고, 데이터에서 읽어낸 인사이트를 두어 문장으로 정리하세요.
3. 표가 도움이 되면 <table>을 사용하세요. 제공된 데이터에 없는 수치를 지어내지 마세요.
4. 마지막에 오박사의 말투로 짧은 총평을 덧붙이세요.
5. 필터 조건이 주어지면 그 범위에 해당하는 내용만 다루세요.`

// reportPreviewRows caps how many rows of each result are shown to the model.
const reportPreviewRows = 5

// ReportService generates the end-of-session research report.
type ReportService struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewReportService() *ReportService {
	r := &ReportService{
		model: anthropic.ModelClaudeHaiku4_5_20251001,
	}
	if m := os.Getenv("POKELAB_MODEL"); m != "" {
		r.model = anthropic.Model(m)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return r
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(60*time.Second),
	)
	r.client = &client
	return r
}

// GenerateFinalReport summarizes the session's accumulated results as an HTML
// fragment. A session with no successful results gets a fixed message rather
// than an API call; generation 0 and an empty type list mean no filter.
func (r *ReportService) GenerateFinalReport(ctx context.Context, results []AnalysisResult, generation int, types []string) (string, error) {
	if len(results) == 0 {
		return "<div><p>오박사: 아직 분석한 내용이 없구나. 먼저 궁금한 것을 물어봐 주렴!</p></div>", nil
	}
	if r.client == nil {
		return "<div><p>오박사: 허허, 연구소 단말기가 연결되어 있지 않아 보고서를 쓸 수가 없구나. ANTHROPIC_API_KEY 환경 변수를 설정해 주렴.</p></div>", nil
	}

	prompt := buildReportPrompt(results, generation, types)

	params := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: reportSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := r.client.Messages.New(ctx, params)
	if err != nil {
		if logger != nil {
			logger.Error("Report generation failed", "error", err, "results", len(results))
		}
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	var html string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			html += textBlock.Text
		}
	}

	html = strings.TrimSpace(html)
	if strings.HasPrefix(html, "```html") {
		html = strings.TrimPrefix(html, "```html")
		html = strings.TrimSuffix(html, "```")
		html = strings.TrimSpace(html)
	}

	if logger != nil {
		logger.Info("Report generated", "results", len(results), "length", len(html))
	}

	return html, nil
}

// buildReportPrompt lays out one section per answered question with a short
// preview of its result rows, plus the requested filters.
func buildReportPrompt(results []AnalysisResult, generation int, types []string) string {
	var sb strings.Builder
	sb.WriteString("이번 세션에서 분석한 내용입니다.\n\n")

	for i, res := range results {
		fmt.Fprintf(&sb, "## 질문 %d: %s\n", i+1, res.Question)
		fmt.Fprintf(&sb, "실행한 SQL:\n%s\n\n", res.SQL)
		sb.WriteString("결과 미리보기:\n")
		sb.WriteString(res.Rows.Markdown(reportPreviewRows))
		sb.WriteString("\n\n")
	}

	filters := describeFilters(generation, types)
	if filters != "" {
		sb.WriteString("[리포트 필터]\n")
		sb.WriteString(filters)
		sb.WriteString("\n\n")
	}

	sb.WriteString("위 내용을 바탕으로 연구 리포트를 작성해 주세요.")
	return sb.String()
}

func describeFilters(generation int, types []string) string {
	var parts []string
	if generation > 0 {
		parts = append(parts, fmt.Sprintf("%d세대 포켓몬에 대한 내용만 다루세요.", generation))
	}
	if len(types) > 0 {
		parts = append(parts, fmt.Sprintf("다음 타입과 관련된 내용만 다루세요: %s", strings.Join(types, ", ")))
	}
	return strings.Join(parts, "\n")
}
