package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiread/internal/playback"
)

// tickMsg fires a scheduled engine call.
type tickMsg struct {
	id uint64
}

// teaScheduler runs engine timers through the Bubble Tea event loop so that
// every engine callback executes inside Update.
type teaScheduler struct {
	nextID  uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: map[uint64]func(){}}
}

// Schedule implements playback.Scheduler.
func (s *teaScheduler) Schedule(d time.Duration, fn func()) playback.Timer {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	}))
	return teaTimer{s: s, id: id}
}

// fire runs the call registered under id unless it was stopped.
func (s *teaScheduler) fire(id uint64) {
	fn, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	fn()
}

// flush returns the tick commands queued since the last flush.
func (s *teaScheduler) flush() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

type teaTimer struct {
	s  *teaScheduler
	id uint64
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}
