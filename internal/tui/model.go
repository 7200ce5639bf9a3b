// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
	"github.com/verte-zerg/tuiread/internal/segment"
	"github.com/verte-zerg/tuiread/internal/source"
)

const (
	speedStep = 25
	seekStep  = 10
)

// Recorder persists reading history. Either method may be skipped by passing a nil Recorder.
type Recorder interface {
	InsertSession(ctx context.Context, session model.ReadingSession) (int64, error)
	UpdatePosition(ctx context.Context, id string, position int) error
}

// Options configures a reader Model.
type Options struct {
	Config   model.Config
	Text     source.Text
	Recorder Recorder
	// Changes delivers reloaded source text when the file is watched.
	Changes <-chan source.Text
	Now     func() time.Time
}

// reloadMsg carries a new version of the watched source.
type reloadMsg struct {
	text source.Text
}

// Model implements the Bubble Tea reading UI around a playback engine.
type Model struct {
	cfg      model.Config
	text     source.Text
	recorder Recorder
	changes  <-chan source.Text
	now      func() time.Time
	log      logrus.FieldLogger

	sched  *teaScheduler
	engine *playback.Engine
	tokens []playback.Token
	words  []int

	wpm     int
	mode    playback.DisplayMode
	current string
	message string

	width    int
	height   int
	progress progress.Model
	help     help.Model
	keys     keyMap

	runStartedAt time.Time
	activeSince  time.Time
	activeMs     int64
	recorded     bool
}

var (
	flashStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	readStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FBF7F"))
)

// New constructs a reader model. Playback begins when the program calls Init.
func New(opts Options) (*Model, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode, ok := playback.ParseMode(opts.Config.Mode)
	if !ok {
		mode = playback.ModeFlash
	}
	m := &Model{
		cfg:      opts.Config,
		text:     opts.Text,
		recorder: opts.Recorder,
		changes:  opts.Changes,
		now:      now,
		log:      logrus.WithField("source", sourceLabel(opts.Text)),
		sched:    newTeaScheduler(),
		wpm:      playback.ClampWPM(opts.Config.WPM),
		mode:     mode,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
	m.setTokens(opts.Text.Content)

	engine, err := playback.New(playback.Options{
		Tokens:     func() []playback.Token { return m.tokens },
		WPM:        func() int { return m.wpm },
		Scheduler:  m.sched,
		Mode:       func() playback.DisplayMode { return m.mode },
		OnChunk:    m.onChunk,
		OnStatus:   m.onStatus,
		OnComplete: m.onComplete,
		Logger:     m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create playback engine: %w", err)
	}
	m.engine = engine
	return m, nil
}

// Init implements tea.Model. A stored position is restored paused; otherwise
// playback starts after the configured delay.
func (m *Model) Init() tea.Cmd {
	if pos := m.text.Position; pos > 0 && pos < len(m.tokens) {
		m.engine.Seek(pos)
		m.current = m.tokens[pos-1].Text()
		m.message = fmt.Sprintf("Resuming at %d/%d. Press space to continue.", pos, len(m.tokens))
	} else {
		m.startRun()
	}
	return tea.Batch(m.sched.flush(), m.waitForChange())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, msg.Width*70/100)
		m.help.Width = msg.Width
	case tickMsg:
		m.sched.fire(msg.id)
	case reloadMsg:
		m.reload(msg.text)
		cmd = m.waitForChange()
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	return m, tea.Batch(cmd, m.sched.flush())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finishRun(false)
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Restart):
		m.finishRun(false)
		m.startRun()
	case key.Matches(msg, m.keys.Faster):
		m.setSpeed(m.wpm + speedStep)
	case key.Matches(msg, m.keys.Slower):
		m.setSpeed(m.wpm - speedStep)
	case key.Matches(msg, m.keys.Back):
		m.seek(-seekStep)
	case key.Matches(msg, m.keys.Forward):
		m.seek(seekStep)
	case key.Matches(msg, m.keys.Mode):
		if m.mode == playback.ModeFlash {
			m.mode = playback.ModeTeleprompter
		} else {
			m.mode = playback.ModeFlash
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// toggle pauses a running engine and otherwise resumes from the current index.
func (m *Model) toggle() {
	switch m.engine.State() {
	case playback.StateRunning, playback.StatePreparing:
		m.engine.Pause()
	case playback.StatePaused:
		m.engine.Start(true, 0)
	case playback.StateIdle:
		if m.engine.Index() > 0 {
			m.beginRun()
			m.engine.Start(true, 0)
			return
		}
		m.startRun()
	case playback.StateCompleted:
		m.startRun()
	}
}

func (m *Model) startRun() {
	m.beginRun()
	m.engine.Start(false, m.cfg.StartDelay)
}

func (m *Model) beginRun() {
	m.runStartedAt = m.now()
	m.activeSince = time.Time{}
	m.activeMs = 0
	m.recorded = false
}

func (m *Model) setSpeed(wpm int) {
	m.wpm = playback.ClampWPM(wpm)
	m.engine.UpdateSpeed()
}

func (m *Model) seek(delta int) {
	m.engine.Seek(m.engine.Index() + delta)
	if idx := m.engine.Index(); idx > 0 && idx <= len(m.tokens) {
		m.current = m.tokens[idx-1].Text()
	} else {
		m.current = ""
	}
}

func (m *Model) onChunk(text string) {
	m.current = text
	m.message = ""
	if m.activeSince.IsZero() {
		m.activeSince = m.now()
	}
}

func (m *Model) onStatus(s playback.Status) {
	if s == playback.StatusPaused {
		m.markIdle()
	}
	m.message = statusMessage(s)
}

func (m *Model) onComplete() {
	m.finishRun(true)
}

func statusMessage(s playback.Status) string {
	switch s {
	case playback.StatusNoWords:
		return "Nothing to read."
	case playback.StatusPreparing:
		return "Get ready..."
	case playback.StatusPaused:
		return "Paused. Press space to resume."
	case playback.StatusComplete:
		return "Done. Press r to read again or q to quit."
	default:
		return string(s)
	}
}

func (m *Model) markIdle() {
	if m.activeSince.IsZero() {
		return
	}
	m.activeMs += m.now().Sub(m.activeSince).Milliseconds()
	m.activeSince = time.Time{}
}

// finishRun records the current run once and saves the document position.
func (m *Model) finishRun(completed bool) {
	m.markIdle()
	index := m.engine.Index()
	m.savePosition(index, completed)
	if m.recorded || m.runStartedAt.IsZero() {
		return
	}
	read := m.wordsBefore(index)
	if read == 0 {
		return
	}
	m.recorded = true
	if m.recorder == nil {
		return
	}
	session := model.ReadingSession{
		StartedAt:  m.runStartedAt,
		EndedAt:    m.now(),
		Lang:       segment.Normalize(m.cfg.Lang),
		WPM:        m.wpm,
		ChunkSize:  m.cfg.ChunkSize,
		WordsRead:  read,
		TotalWords: m.wordsBefore(len(m.tokens)),
		Completed:  completed,
		DocumentID: m.text.DocumentID,
		SourcePath: m.text.Path,
		DurationMs: m.activeMs,
	}
	if _, err := m.recorder.InsertSession(context.Background(), session); err != nil {
		m.log.WithError(err).Error("failed to save session")
		m.message = "Could not save session."
	}
}

// savePosition stores where to resume. A finished document resumes from the start.
func (m *Model) savePosition(index int, completed bool) {
	if m.recorder == nil || m.text.DocumentID == "" {
		return
	}
	if completed || index >= len(m.tokens) {
		index = 0
	}
	if err := m.recorder.UpdatePosition(context.Background(), m.text.DocumentID, index); err != nil {
		m.log.WithError(err).Warn("failed to save reading position")
	}
}

func (m *Model) setTokens(content string) {
	words := segment.Tokens(content, segment.Config{Lang: m.cfg.Lang, ChunkSize: m.cfg.ChunkSize})
	m.tokens = playback.FromStrings(words)
	m.words = make([]int, len(words)+1)
	for i, w := range words {
		m.words[i+1] = m.words[i] + tokenWords(w)
	}
}

func tokenWords(text string) int {
	if n := len(strings.Fields(text)); n > 0 {
		return n
	}
	return 1
}

// wordsBefore counts words in the first n tokens.
func (m *Model) wordsBefore(n int) int {
	if n > len(m.tokens) {
		n = len(m.tokens)
	}
	if n <= 0 {
		return 0
	}
	return m.words[n]
}

// reload swaps in re-segmented text. The engine picks it up on its next tick.
func (m *Model) reload(text source.Text) {
	m.text.Content = text.Content
	m.setTokens(text.Content)
	m.message = fmt.Sprintf("Source reloaded (%d tokens).", len(m.tokens))
	m.log.WithField("tokens", len(m.tokens)).Info("tokens replaced")
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{text: text}
	}
}

func sourceLabel(t source.Text) string {
	switch {
	case t.DocumentID != "":
		return "doc:" + t.DocumentID
	case t.Path != "":
		return t.Path
	default:
		return "stdin"
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.current
	}
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 1 {
		return footer
	}
	var body string
	if m.mode == playback.ModeTeleprompter {
		contentWidth := max(1, m.width*70/100)
		texts := make([]string, len(m.tokens))
		for i, t := range m.tokens {
			texts[i] = t.Text()
		}
		sep := " "
		if segment.IsNoSpaceLanguage(m.cfg.Lang) {
			sep = ""
		}
		content := renderTeleprompter(texts, sep, m.engine.Index()-1, contentWidth, bodyHeight)
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	} else {
		line := centerLine(m.current, flashStyle, m.width)
		body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Center, line)
	}
	return body + "\n" + footer
}

func (m *Model) renderFooter() string {
	total := len(m.tokens)
	index := m.engine.Index()
	percent := 0.0
	if total > 0 {
		percent = float64(index) / float64(total)
	}
	info := []string{
		fmt.Sprintf("%d WPM", m.wpm),
		fmt.Sprintf("%d/%d", index, total),
		string(m.mode),
	}
	status := footerStyle.Render(strings.Join(info, " · "))
	if m.message != "" {
		status += "  " + messageStyle.Render(m.message)
	}
	lines := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.progress.ViewAs(percent)),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, status),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.help.View(m.keys)),
	}
	return strings.Join(lines, "\n")
}
