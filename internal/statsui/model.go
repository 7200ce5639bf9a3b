// Package statsui provides the Bubble Tea reading-history interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/stats"
)

const (
	tabOverview = iota
	tabLanguages
	tabSessions
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

var curveWindows = []int{1, 5, 10, 20, 50}

// Model implements the Bubble Tea stats UI.
type Model struct {
	sessions stats.SessionLister
	cfg      model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	langs     table.Model
	recent    table.Model

	filterMode  bool
	filterInput textinput.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(sessions stats.SessionLister, cfg model.StatsConfig) *Model {
	input := textinput.New()
	input.Prompt = "lang> "
	input.Placeholder = "all"
	input.CharLimit = 16
	m := &Model{
		sessions:    sessions,
		cfg:         cfg,
		tabs:        []string{"Overview", "Languages", "Sessions"},
		overview:    viewport.New(0, 0),
		langs:       newTable(langColumns()),
		recent:      newTable(sessionColumns()),
		filterInput: input,
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "=", "+":
			m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, 1)
			m.renderOverview()
			return m, nil
		case "-":
			m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, -1)
			m.renderOverview()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.cfg.Lang)
			return m, m.filterInput.Focus()
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabLanguages:
			m.langs, cmd = m.langs.Update(msg)
		case tabSessions:
			m.recent, cmd = m.recent.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.cfg.Lang = strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.langs.Blur()
	m.recent.Blur()
	switch m.activeTab {
	case tabLanguages:
		m.langs.Focus()
	case tabSessions:
		m.recent.Focus()
	}
}

func stepWindow(current, dir int) int {
	idx := 0
	for i, w := range curveWindows {
		if w <= current {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(curveWindows) {
		idx = len(curveWindows) - 1
	}
	return curveWindows[idx]
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.sessions, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load stats: %v", err)
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.langs.SetRows(langRows(m.report.Langs))
	m.recent.SetRows(sessionRows(m.report.Sessions))
	m.renderOverview()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(m.renderHeader())
	bodyHeight = m.height - headerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.langs.SetWidth(m.width)
	m.langs.SetHeight(bodyHeight)
	m.recent.SetWidth(m.width)
	m.recent.SetHeight(bodyHeight)
	m.filterInput.Width = max(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent(errorStyle.Render(m.errMsg))
		return
	}
	m.overview.SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, m.width))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No reading sessions yet. Read something with: tuiread <file>"
	}
	var words, completed int
	var best, total float64
	for _, s := range sessions {
		wpm, _ := stats.SessionMetrics(s.WordsRead, s.TotalWords, s.DurationMs)
		total += wpm
		best = max(best, wpm)
		words += s.WordsRead
		if s.Completed {
			completed++
		}
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Words", fmt.Sprintf("%d", words)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", total/float64(len(sessions)))),
		metricCard("Best WPM", fmt.Sprintf("%.1f", best)),
		metricCard("Finished", fmt.Sprintf("%d", completed)),
	)
	var curves bytes.Buffer
	if err := stats.RenderCurves(&curves, sessions, window, width); err != nil {
		return cards + "\n" + errorStyle.Render(err.Error())
	}
	return cards + "\n\n" + curves.String()
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newTable(cols []table.Column) table.Model {
	t := table.New(table.WithColumns(cols), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A3A1A"))
	t.SetStyles(styles)
	return t
}

func langColumns() []table.Column {
	return []table.Column{
		{Title: "Lang", Width: 6},
		{Title: "Sessions", Width: 9},
		{Title: "Words", Width: 9},
		{Title: "Avg WPM", Width: 9},
		{Title: "Completed", Width: 10},
	}
}

func langRows(langs []stats.LangSummary) []table.Row {
	rows := make([]table.Row, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, table.Row{
			l.Lang,
			fmt.Sprintf("%d", l.Sessions),
			fmt.Sprintf("%d", l.Words),
			fmt.Sprintf("%.1f", l.AvgWPM),
			fmt.Sprintf("%.0f%%", l.CompletedPct),
		})
	}
	return rows
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Lang", Width: 6},
		{Title: "Target", Width: 7},
		{Title: "WPM", Width: 7},
		{Title: "Read", Width: 12},
		{Title: "Time", Width: 8},
	}
}

func sessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		wpm, _ := stats.SessionMetrics(s.WordsRead, s.TotalWords, s.DurationMs)
		read := fmt.Sprintf("%d/%d", s.WordsRead, s.TotalWords)
		if s.Completed {
			read += " ✓"
		}
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Lang,
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.0f", wpm),
			read,
			(time.Duration(s.DurationMs) * time.Millisecond).Round(time.Second).String(),
		})
	}
	return rows
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.tabs))
	for i, name := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		tabs = append(tabs, style.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderHeader() string {
	lang := m.cfg.Lang
	if lang == "" {
		lang = "all"
	}
	summary := headerStyle.Render(fmt.Sprintf("lang: %s · window: %d · sessions: %d", lang, max(m.cfg.CurveWindow, 1), len(m.report.Sessions)))
	return m.renderTabs() + "\n" + summary
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	return headerStyle.Render("←/→ tabs · =/- window · / filter lang · q quit")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var body string
	switch m.activeTab {
	case tabLanguages:
		body = m.langs.View()
	case tabSessions:
		body = m.recent.View()
	default:
		body = m.overview.View()
	}
	return strings.Join([]string{m.renderHeader(), body, m.renderFooter()}, "\n")
}
