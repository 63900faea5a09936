package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"pokelab/cmd"
)

const (
	chartWidth     = 40
	displayMaxRows = 20
)

var logger *slog.Logger

// setupLogger creates and configures the application logger
func setupLogger(dataDir string) error {
	logPath := filepath.Join(dataDir, "err.log")

	// Create log file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // Include file:line information
	})

	logger = slog.New(handler)
	logger.Info("Application started", "version", "1.0", "data_dir", dataDir)

	return nil
}

// renderMarkdown renders markdown content with glamour for beautiful display
func renderMarkdown(content string, width int) (string, error) {
	// Account for borders, padding, and glamour's internal gutter
	const glamourGutter = 2
	const borderWidth = 4 // 2 for border characters, 2 for padding

	renderWidth := width - borderWidth - glamourGutter
	if renderWidth < 40 {
		renderWidth = 40 // Minimum width for readable content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return rendered, nil
}

type model struct {
	db            *DB
	translator    Translator
	reporter      *ReportService
	session       *Session
	input         textinput.Model
	viewport      viewport.Model
	transcript    []string
	lastSQL       string
	width         int
	height        int
	err           error
	thinking      bool
	reporting     bool
	viewportReady bool
}

type askResultMsg struct {
	answer Answer
}

type reportResultMsg struct {
	html string
	err  error
}

func askQuestion(session *Session, db *DB, translator Translator, question string) tea.Cmd {
	return func() tea.Msg {
		answer := session.Ask(context.Background(), db, translator, question)
		return askResultMsg{answer: answer}
	}
}

func generateReport(reporter *ReportService, results []AnalysisResult) tea.Cmd {
	return func() tea.Msg {
		html, err := reporter.GenerateFinalReport(context.Background(), results, 0, nil)
		return reportResultMsg{html: html, err: err}
	}
}

func initialModel(db *DB, translator Translator, reporter *ReportService) model {
	ti := textinput.New()
	ti.Placeholder = "궁금한 것을 물어보세요... (예: 전기 타입 중 제일 빠른 다섯은?)"
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 70

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return model{
		db:         db,
		translator: translator,
		reporter:   reporter,
		session:    NewSession(),
		input:      ti,
		viewport:   vp,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for the input box, status line, and help text
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 7
		m.viewportReady = true
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case askResultMsg:
		m.thinking = false
		answer := msg.answer

		if answer.SQL != "" {
			m.lastSQL = answer.SQL
		}

		m.transcript = append(m.transcript, m.renderAnswer(answer))
		if answer.Err != nil {
			m.err = answer.Err
			if logger != nil {
				logger.Error("Question failed", "error", answer.Err, "question", answer.Question)
			}
		} else {
			m.err = nil
			if logger != nil {
				logger.Info("Question answered", "question", answer.Question, "has_sql", answer.SQL != "")
			}
		}
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case reportResultMsg:
		m.reporting = false
		if msg.err != nil {
			m.err = fmt.Errorf("report generation failed: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.transcript = append(m.transcript, m.renderReport(msg.html))
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.thinking {
			return m, nil
		}
		m.thinking = true
		m.err = nil
		m.input.SetValue("")
		m.transcript = append(m.transcript, m.renderQuestion(question))
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, askQuestion(m.session, m.db, m.translator, question)

	case tea.KeyCtrlY:
		if m.lastSQL != "" {
			_ = clipboard.WriteAll(m.lastSQL)
		}
		return m, nil

	case tea.KeyCtrlR:
		if m.reporting || m.thinking {
			return m, nil
		}
		m.reporting = true
		m.err = nil
		return m, generateReport(m.reporter, m.session.Results)

	// Scrolling keys
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) renderQuestion(question string) string {
	questionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("226"))
	return questionStyle.Render("🧢 "+question) + "\n"
}

func (m model) renderAnswer(answer Answer) string {
	var b strings.Builder

	oakStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	sqlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	if answer.Explanation != "" {
		b.WriteString(oakStyle.Render("🔬 " + answer.Explanation))
		b.WriteString("\n")
	}

	if answer.SQL != "" {
		b.WriteString(sqlStyle.Render("   " + answer.SQL))
		b.WriteString("\n")
	}

	if answer.Err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ %v", answer.Err)))
		b.WriteString("\n")
		return b.String()
	}

	if answer.Rows != nil {
		rendered, err := renderMarkdown(answer.Rows.Markdown(displayMaxRows), m.width)
		if err != nil {
			b.WriteString(answer.Rows.Markdown(displayMaxRows))
			b.WriteString("\n")
		} else {
			b.WriteString(rendered)
		}

		if bars := StatBars(answer.Rows, chartWidth); bars != "" {
			b.WriteString(bars)
			b.WriteString("\n")
		} else if values := statValues(answer.Rows); len(values) > 1 {
			b.WriteString(sqlStyle.Render("추이 ") + Sparkline(values))
			b.WriteString("\n")
		}

		if badges := TypeBadges(answer.Rows); badges != "" {
			b.WriteString(badges)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m model) renderReport(html string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("📋 연구 리포트"))
	b.WriteString("\n")

	// The report arrives as an HTML fragment for the web UI; in the terminal
	// we show it raw so the researcher can paste it wherever it is needed.
	b.WriteString(html)
	b.WriteString("\n")
	return b.String()
}

func (m *model) refreshTranscript() {
	if !m.viewportReady {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
}

func (m model) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62"))

	b.WriteString(headerStyle.Render("⚗️  Pokelab - 오박사의 포켓몬 연구소"))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Input box
	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	// Status indicators
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("226")).
		Bold(true)

	if m.thinking {
		b.WriteString(statusStyle.Render("⏳ 오박사가 생각 중..."))
		b.WriteString("\n")
	}
	if m.reporting {
		b.WriteString(statusStyle.Render("⏳ 리포트 작성 중..."))
		b.WriteString("\n")
	}

	// Error display
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Error: %v", m.err)))
		b.WriteString("\n")
	}

	// Help text
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	help := "Enter: Ask | Ctrl+R: Report | Ctrl+Y: Copy last SQL | ↑/↓/PgUp/PgDn: Scroll | Esc/Ctrl+C: Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// launchTUI starts the interactive chat TUI
func launchTUI(dataDir string) {
	// Setup logger first
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
	}

	// Check for required data files
	if missing := CheckDataFiles(dataDir); len(missing) > 0 {
		dbPath := filepath.Join(dataDir, "pokelab.duckdb")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			if logger != nil {
				logger.Error("Required data files missing", "missing_files", missing, "data_dir", dataDir)
			}
			fmt.Println("\n❌ Cannot proceed without required data files:")
			for _, name := range missing {
				fmt.Printf("   • %s\n", filepath.Join(dataDir, name))
			}
			fmt.Println("\nPlace the CSV files in the data directory and run again.")
			os.Exit(1)
		}
		// Database already built; source CSVs are no longer needed
	}

	db, err := NewDB(dataDir)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to initialize database", "error", err, "data_dir", dataDir)
		}
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	translator := NewClaudeTranslator()
	reporter := NewReportService()

	// Print configuration info
	fmt.Println("\n⚗️  Pokelab Configuration:")
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		fmt.Println("   • Claude Translation: ✓ Available")
	} else {
		fmt.Println("   • Claude Translation: ✗ Not configured (set ANTHROPIC_API_KEY)")
	}
	if m := os.Getenv("POKELAB_MODEL"); m != "" {
		fmt.Printf("   • Model override: %s\n", m)
	}
	fmt.Println()

	p := tea.NewProgram(
		initialModel(db, translator, reporter),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// initDB initializes the database for CLI commands
func initDB(dataDir string) (cmd.Store, func(), error) {
	// Setup logger
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		db.Close()
	}

	return &dbAdapter{db: db}, cleanup, nil
}

// initAnalyst builds the conversational pipeline for CLI commands
func initAnalyst(dataDir string) (cmd.Analyst, func(), error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		db.Close()
	}

	analyst := &sessionAnalyst{
		db:         db,
		translator: NewClaudeTranslator(),
		reporter:   NewReportService(),
		session:    NewSession(),
	}
	return analyst, cleanup, nil
}

// startServer wires the HTTP server for the serve command
func startServer(port int, dataDir string) error {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return StartServer(ServerConfig{
		Port:       port,
		DB:         db,
		Translator: NewClaudeTranslator(),
		Reporter:   NewReportService(),
		DataPath:   dataDir,
	})
}

// dbAdapter adapts *DB to cmd.Store
type dbAdapter struct {
	db *DB
}

func (a *dbAdapter) ExecuteQuery(ctx context.Context, sqlText string) (*cmd.QueryResult, error) {
	rows, err := a.db.ExecuteQuery(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return convertRowSet(rows), nil
}

func (a *dbAdapter) Summarize(ctx context.Context, table string) (*cmd.QueryResult, error) {
	rows, err := a.db.Summarize(ctx, table)
	if err != nil {
		return nil, err
	}
	return convertRowSet(rows), nil
}

func (a *dbAdapter) AddUserPokemon(ctx context.Context, userID int, name string) (int, error) {
	return a.db.AddUserPokemon(ctx, userID, name)
}

func (a *dbAdapter) GetUserParty(ctx context.Context, userID int) ([]cmd.PartyMemberData, error) {
	party, err := a.db.GetUserParty(ctx, userID)
	if err != nil {
		return nil, err
	}
	members := make([]cmd.PartyMemberData, len(party))
	for i, m := range party {
		members[i] = cmd.PartyMemberData{
			SlotNo:      m.SlotNo,
			PokemonID:   m.PokemonID,
			PokemonName: m.PokemonName,
		}
	}
	return members, nil
}

func (a *dbAdapter) GetPokemonByDex(ctx context.Context, dexnum int) (*cmd.PokemonData, error) {
	p, err := a.db.GetPokemonByDex(ctx, dexnum)
	if err != nil {
		return nil, err
	}
	return convertPokemonToCmd(p), nil
}

func (a *dbAdapter) RebuildTypeEffectiveness(ctx context.Context) error {
	return a.db.RebuildTypeEffectiveness(ctx)
}

func (a *dbAdapter) Close() error {
	return a.db.Close()
}

// convertRowSet converts RowSet to cmd.QueryResult
func convertRowSet(rs *RowSet) *cmd.QueryResult {
	if rs == nil {
		return nil
	}
	return &cmd.QueryResult{
		Columns: rs.Columns,
		Rows:    rs.Rows,
	}
}

// convertPokemonToCmd converts Pokemon to cmd.PokemonData
func convertPokemonToCmd(p *Pokemon) *cmd.PokemonData {
	data := &cmd.PokemonData{
		Dexnum:     p.Dexnum,
		Name:       p.Name,
		Generation: p.Generation,
		Type1:      p.Type1,
		HP:         p.HP,
		Attack:     p.Attack,
		Defense:    p.Defense,
		SpAtk:      p.SpAtk,
		SpDef:      p.SpDef,
		Speed:      p.Speed,
		Total:      p.Total,
	}
	if p.Type2.Valid {
		data.Type2 = p.Type2.String
	}
	return data
}

// sessionAnalyst adapts the session pipeline to cmd.Analyst
type sessionAnalyst struct {
	db         *DB
	translator Translator
	reporter   *ReportService
	session    *Session
}

func (s *sessionAnalyst) Ask(ctx context.Context, question string) cmd.AskAnswer {
	answer := s.session.Ask(ctx, s.db, s.translator, question)
	return cmd.AskAnswer{
		Question:    answer.Question,
		SQL:         answer.SQL,
		Explanation: answer.Explanation,
		Rows:        convertRowSet(answer.Rows),
		Err:         answer.Err,
	}
}

func (s *sessionAnalyst) Report(ctx context.Context, generation int, types []string) (string, error) {
	return s.reporter.GenerateFinalReport(ctx, s.session.Results, generation, types)
}

func main() {
	// Set up cmd package callbacks
	cmd.LaunchTUI = launchTUI
	cmd.InitDB = initDB
	cmd.InitAnalyst = initAnalyst
	cmd.StartServer = startServer

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
