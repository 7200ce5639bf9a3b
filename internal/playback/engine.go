package playback

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoTokenSource is returned when Options.Tokens is nil.
	ErrNoTokenSource = errors.New("playback: token source is required")
	// ErrNoRate is returned when Options.WPM is nil.
	ErrNoRate = errors.New("playback: rate source is required")
	// ErrNoScheduler is returned when Options.Scheduler is nil.
	ErrNoScheduler = errors.New("playback: scheduler is required")
)

// Options configures an Engine. Tokens, WPM and Scheduler are required.
// Callbacks run on the scheduler's goroutine and must not call back into the
// engine synchronously.
type Options struct {
	Tokens    func() []Token
	WPM       func() int
	Scheduler Scheduler

	Mode       func() DisplayMode
	OnChunk    func(text string)
	OnProgress func(index, total int)
	OnStatus   func(status Status)
	OnComplete func()
	Logger     logrus.FieldLogger
}

// Engine walks a token sequence at an adaptive rate. It owns its index and its
// single pending timer; it reads the token sequence afresh on every tick.
type Engine struct {
	opts  Options
	log   logrus.FieldLogger
	state State
	index int
	timer Timer
	// done guards OnComplete so it fires once per run.
	done bool
}

// New validates opts and returns an idle engine.
func New(opts Options) (*Engine, error) {
	if opts.Tokens == nil {
		return nil, ErrNoTokenSource
	}
	if opts.WPM == nil {
		return nil, ErrNoRate
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{opts: opts, log: log, state: StateIdle}, nil
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Index returns the index of the next token to show, never past the end of
// the current sequence.
func (e *Engine) Index() int {
	e.clampIndex()
	return e.index
}

// Total returns the current length of the token sequence.
func (e *Engine) Total() int { return len(e.opts.Tokens()) }

// Mode returns the caller's display mode, flash by default.
func (e *Engine) Mode() DisplayMode {
	if e.opts.Mode == nil {
		return ModeFlash
	}
	return e.opts.Mode()
}

// Pending reports whether a tick is scheduled.
func (e *Engine) Pending() bool { return e.timer != nil }

// Start begins playback. A fresh start rewinds to the first token and waits
// startDelay before showing it; a resume keeps the index and shows the next
// token immediately.
func (e *Engine) Start(resuming bool, startDelay time.Duration) {
	tokens := e.opts.Tokens()
	if len(tokens) == 0 {
		e.emitStatus(StatusNoWords)
		return
	}
	e.cancel()
	if !resuming {
		e.index = 0
	}
	if e.index > len(tokens) {
		e.index = len(tokens)
	}
	e.done = false
	e.state = StatePreparing
	e.emitStatus(StatusPreparing)
	e.log.WithFields(logrus.Fields{
		"resuming": resuming,
		"index":    e.index,
		"total":    len(tokens),
		"wpm":      ClampWPM(e.opts.WPM()),
	}).Debug("playback starting")

	if resuming || startDelay <= 0 {
		e.state = StateRunning
		e.tick()
		return
	}
	e.schedule(startDelay)
}

// Pause cancels the pending tick and keeps the position.
func (e *Engine) Pause() {
	if e.state != StateRunning && e.state != StatePreparing {
		return
	}
	e.cancel()
	e.clampIndex()
	e.state = StatePaused
	e.emitStatus(StatusPaused)
}

// UpdateSpeed reschedules the pending tick with the current rate. The start
// delay of a preparing engine is left alone.
func (e *Engine) UpdateSpeed() {
	if e.timer == nil || e.state != StateRunning {
		return
	}
	e.clampIndex()
	e.cancel()
	e.schedule(e.CurrentInterval())
}

// Seek moves to index, clamped to the sequence. A running engine keeps
// running from the new position.
func (e *Engine) Seek(index int) {
	total := e.Total()
	if index < 0 {
		index = 0
	}
	if index > total {
		index = total
	}
	e.index = index
	if e.state == StateCompleted && index < total {
		e.state = StatePaused
	}
	if e.timer != nil && e.state == StateRunning {
		e.cancel()
		e.schedule(e.CurrentInterval())
	}
}

// Reset cancels playback and rewinds to idle.
func (e *Engine) Reset() {
	e.cancel()
	e.index = 0
	e.done = false
	e.state = StateIdle
}

// Complete ends the run. Repeated calls have no further effect.
func (e *Engine) Complete() {
	e.cancel()
	if e.done {
		return
	}
	e.done = true
	e.state = StateCompleted
	e.emitStatus(StatusComplete)
	e.log.WithField("index", e.index).Debug("playback complete")
	if e.opts.OnComplete != nil {
		e.opts.OnComplete()
	}
}

// CurrentInterval is the dwell computed for the token at the current index.
func (e *Engine) CurrentInterval() time.Duration {
	tokens := e.opts.Tokens()
	wpm := e.opts.WPM()
	if e.index >= len(tokens) {
		return time.Duration(BaseInterval(wpm) * float64(time.Millisecond)).Round(time.Millisecond)
	}
	return time.Duration(IntervalMs(tokens[e.index], wpm)) * time.Millisecond
}

func (e *Engine) tick() {
	e.timer = nil
	tokens := e.opts.Tokens()
	if e.index >= len(tokens) {
		e.Complete()
		return
	}
	e.state = StateRunning
	text := tokens[e.index].Text()
	if e.opts.OnChunk != nil {
		e.opts.OnChunk(text)
	}
	e.index++
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(e.index, len(tokens))
	}
	e.schedule(e.CurrentInterval())
}

func (e *Engine) schedule(d time.Duration) {
	e.cancel()
	e.timer = e.opts.Scheduler.Schedule(d, e.tick)
}

// clampIndex pulls the index back when the token source has shrunk.
func (e *Engine) clampIndex() {
	if total := e.Total(); e.index > total {
		e.index = total
	}
}

func (e *Engine) cancel() {
	if e.timer == nil {
		return
	}
	e.timer.Stop()
	e.timer = nil
}

func (e *Engine) emitStatus(s Status) {
	if e.opts.OnStatus != nil {
		e.opts.OnStatus(s)
	}
}
