package playback

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

// fakeScheduler is a manual clock: Advance fires due timers in order.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
	delay   time.Duration
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) Timer {
	s.seq++
	t := &fakeTimer{at: s.now + d, seq: s.seq, fn: fn, delay: d}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].at == out[j].at {
			return out[i].seq < out[j].seq
		}
		return out[i].at < out[j].at
	})
	return out
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		p := s.pending()
		if len(p) == 0 || p[0].at > target {
			break
		}
		t := p[0]
		s.now = t.at
		t.fired = true
		t.fn()
	}
	s.now = target
}

// RunAll fires timers until none are pending.
func (s *fakeScheduler) RunAll() {
	for i := 0; i < 10000; i++ {
		p := s.pending()
		if len(p) == 0 {
			return
		}
		s.Advance(p[0].at - s.now)
	}
}

type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func newTestEngine(t *testing.T, tokens []Token, wpm int) (*Engine, *fakeScheduler, *recorder) {
	t.Helper()
	sched := &fakeScheduler{}
	rec := &recorder{}
	e, err := New(Options{
		Tokens:     func() []Token { return tokens },
		WPM:        func() int { return wpm },
		Scheduler:  sched,
		OnChunk:    func(text string) { rec.add("chunk:%s", text) },
		OnProgress: func(i, n int) { rec.add("progress:%d/%d", i, n) },
		OnStatus:   func(s Status) { rec.add("status:%s", s) },
		OnComplete: func() { rec.add("complete") },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, sched, rec
}

func TestNewValidatesOptions(t *testing.T) {
	tokens := func() []Token { return nil }
	wpm := func() int { return 250 }
	sched := &fakeScheduler{}
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"missing tokens", Options{WPM: wpm, Scheduler: sched}, ErrNoTokenSource},
		{"missing rate", Options{Tokens: tokens, Scheduler: sched}, ErrNoRate},
		{"missing scheduler", Options{Tokens: tokens, WPM: wpm}, ErrNoScheduler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStartEmptyReportsNoWords(t *testing.T) {
	e, sched, rec := newTestEngine(t, nil, 250)
	e.Start(false, 500*time.Millisecond)
	sched.RunAll()
	assertEvents(t, rec.events, []string{"status:no-words"})
	if e.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", e.State())
	}
}

func TestSingleTokenRun(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"hello"}), 250)
	e.Start(false, 0)
	sched.RunAll()
	assertEvents(t, rec.events, []string{
		"status:preparing",
		"chunk:hello",
		"progress:1/1",
		"status:complete",
		"complete",
	})
	if e.State() != StateCompleted {
		t.Fatalf("expected completed state, got %s", e.State())
	}
}

func TestStartDelayOnlyOnFreshStart(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"one", "two", "three"}), 250)
	e.Start(false, time.Second)
	assertEvents(t, rec.events, []string{"status:preparing"})
	if e.State() != StatePreparing {
		t.Fatalf("expected preparing state, got %s", e.State())
	}
	sched.Advance(999 * time.Millisecond)
	if len(rec.events) != 1 {
		t.Fatalf("token shown before start delay elapsed: %v", rec.events)
	}
	sched.Advance(time.Millisecond)
	assertEvents(t, rec.events, []string{"status:preparing", "chunk:one", "progress:1/3"})

	e.Pause()
	if e.Index() != 1 {
		t.Fatalf("pause moved the index to %d", e.Index())
	}
	rec.events = nil
	e.Start(true, time.Second)
	assertEvents(t, rec.events, []string{"status:preparing", "chunk:two", "progress:2/3"})
	if e.Index() != 2 {
		t.Fatalf("expected index 2 after resume, got %d", e.Index())
	}
}

func TestPauseCancelsPendingTick(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"a", "b", "c"}), 250)
	e.Start(false, 0)
	e.Pause()
	if e.Pending() {
		t.Fatalf("expected no pending tick after pause")
	}
	sched.Advance(10 * time.Second)
	assertEvents(t, rec.events, []string{"status:preparing", "chunk:a", "progress:1/3", "status:paused"})
	if e.State() != StatePaused {
		t.Fatalf("expected paused, got %s", e.State())
	}
}

func TestRestartCancelsOutstandingTick(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"a", "b"}), 250)
	e.Start(false, 0)
	e.Start(false, 0)
	if n := len(sched.pending()); n != 1 {
		t.Fatalf("expected exactly one pending tick, got %d", n)
	}
	sched.RunAll()
	chunks := 0
	for _, ev := range rec.events {
		if len(ev) > 6 && ev[:6] == "chunk:" {
			chunks++
		}
	}
	if chunks != 3 {
		t.Fatalf("expected a then a,b (3 chunks), got %v", rec.events)
	}
}

func TestTickDelaysUseUpcomingToken(t *testing.T) {
	e, sched, _ := newTestEngine(t, FromStrings([]string{"a", "apple", "hello123"}), 250)
	e.Start(false, 0)
	// "a" shown; next delay is computed from "apple".
	p := sched.pending()
	if len(p) != 1 || p[0].delay != 288*time.Millisecond {
		t.Fatalf("expected 288ms before apple, got %+v", p)
	}
	sched.Advance(288 * time.Millisecond)
	p = sched.pending()
	if len(p) != 1 || p[0].delay != 346*time.Millisecond {
		t.Fatalf("expected 346ms before hello123, got %+v", p)
	}
	sched.Advance(346 * time.Millisecond)
	p = sched.pending()
	if len(p) != 1 || p[0].delay != 240*time.Millisecond {
		t.Fatalf("expected base interval before completion, got %+v", p)
	}
	_ = e
}

func TestUpdateSpeedReschedules(t *testing.T) {
	wpm := 250
	sched := &fakeScheduler{}
	var chunks []string
	e, err := New(Options{
		Tokens:    func() []Token { return FromStrings([]string{"one", "two", "six"}) },
		WPM:       func() int { return wpm },
		Scheduler: sched,
		OnChunk:   func(text string) { chunks = append(chunks, text) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Start(false, 0)
	wpm = 500
	e.UpdateSpeed()
	p := sched.pending()
	if len(p) != 1 || p[0].delay != 120*time.Millisecond {
		t.Fatalf("expected one tick at 120ms, got %+v", p)
	}
	sched.Advance(120 * time.Millisecond)
	if len(chunks) != 2 || chunks[1] != "two" {
		t.Fatalf("expected position kept across speed change, got %v", chunks)
	}

	e.Pause()
	e.UpdateSpeed()
	if e.Pending() {
		t.Fatalf("paused engine must not reschedule")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"x"}), 250)
	e.Start(false, 0)
	sched.RunAll()
	e.Complete()
	e.Complete()
	count := 0
	for _, ev := range rec.events {
		if ev == "complete" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one completion, got %d (%v)", count, rec.events)
	}

	rec.events = nil
	e.Start(false, 0)
	sched.RunAll()
	if rec.events[len(rec.events)-1] != "complete" {
		t.Fatalf("expected a fresh run to complete again, got %v", rec.events)
	}
}

func TestTokensReadFreshEachTick(t *testing.T) {
	tokens := FromStrings([]string{"old", "words", "here"})
	sched := &fakeScheduler{}
	var chunks []string
	e, err := New(Options{
		Tokens:    func() []Token { return tokens },
		WPM:       func() int { return 250 },
		Scheduler: sched,
		OnChunk:   func(text string) { chunks = append(chunks, text) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Start(false, 0)
	tokens = FromStrings([]string{"new", "list"})
	sched.RunAll()
	want := []string{"old", "list"}
	if len(chunks) != len(want) || chunks[0] != want[0] || chunks[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, chunks)
	}
}

func TestChunkedTokenJoined(t *testing.T) {
	e, sched, rec := newTestEngine(t, []Token{{"two", "words"}}, 250)
	e.Start(false, 0)
	sched.RunAll()
	if rec.events[1] != "chunk:two words" {
		t.Fatalf("expected joined chunk, got %v", rec.events)
	}
}

func TestSeekAndReset(t *testing.T) {
	e, sched, rec := newTestEngine(t, FromStrings([]string{"a", "b", "c", "d"}), 250)
	e.Start(false, 0)
	e.Seek(3)
	if e.Index() != 3 {
		t.Fatalf("expected index 3, got %d", e.Index())
	}
	sched.Advance(216 * time.Millisecond)
	if last := rec.events[len(rec.events)-1]; last != "progress:4/4" {
		t.Fatalf("expected to continue from seek position, got %v", rec.events)
	}
	e.Seek(-5)
	if e.Index() != 0 {
		t.Fatalf("expected clamp to 0, got %d", e.Index())
	}
	e.Reset()
	if e.State() != StateIdle || e.Index() != 0 || e.Pending() {
		t.Fatalf("expected idle reset engine, got state=%s index=%d pending=%v", e.State(), e.Index(), e.Pending())
	}
}

func TestModeDefaultsToFlash(t *testing.T) {
	e, _, _ := newTestEngine(t, nil, 250)
	if e.Mode() != ModeFlash {
		t.Fatalf("expected flash mode, got %s", e.Mode())
	}
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestUpdateSpeedKeepsStartDelay(t *testing.T) {
	sched := &fakeScheduler{}
	var chunks []string
	e, err := New(Options{
		Tokens:    func() []Token { return FromStrings([]string{"a", "b"}) },
		WPM:       func() int { return 250 },
		Scheduler: sched,
		OnChunk:   func(text string) { chunks = append(chunks, text) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Start(false, 3*time.Second)
	e.UpdateSpeed()
	p := sched.pending()
	if len(p) != 1 || p[0].delay != 3*time.Second {
		t.Fatalf("expected start delay to stay pending, got %+v", p)
	}
	sched.Advance(300 * time.Millisecond)
	if len(chunks) != 0 || e.State() != StatePreparing {
		t.Fatalf("expected still preparing, got chunks=%v state=%v", chunks, e.State())
	}
	sched.Advance(2700 * time.Millisecond)
	if len(chunks) != 1 || chunks[0] != "a" {
		t.Fatalf("expected first token after the full delay, got %v", chunks)
	}
}

func TestIndexClampedWhenSourceShrinks(t *testing.T) {
	sched := &fakeScheduler{}
	tokens := FromStrings([]string{"a", "b", "c", "d", "e", "f"})
	e, err := New(Options{
		Tokens:    func() []Token { return tokens },
		WPM:       func() int { return 250 },
		Scheduler: sched,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Start(false, 0)
	sched.Advance(500 * time.Millisecond)
	e.Pause()
	if e.Index() != 3 {
		t.Fatalf("expected index 3 before shrink, got %d", e.Index())
	}
	tokens = FromStrings([]string{"x", "y"})
	if got := e.Index(); got != 2 {
		t.Fatalf("expected index clamped to 2, got %d", got)
	}
	if e.State() != StatePaused {
		t.Fatalf("expected still paused, got %v", e.State())
	}
}
