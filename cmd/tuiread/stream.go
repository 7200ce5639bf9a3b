package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/colours"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
	"github.com/verte-zerg/tuiread/internal/segment"
	"github.com/verte-zerg/tuiread/internal/source"
	"github.com/verte-zerg/tuiread/internal/tui"
)

var streamDocID string

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream [file]",
		Short: "Play words on a single terminal line without the full-screen UI",
		Long: "Play words on a single terminal line. When stdin is a terminal, space pauses, " +
			"+/- change speed, and q quits. Output that is not a terminal gets one token per line.",
		Args: cobra.MaximumNArgs(1),
		RunE: runStreamCmd,
	}
	addReadingFlags(cmd)
	cmd.Flags().StringVar(&streamDocID, "doc", "", "stream a stored document by id or id prefix")
	return cmd
}

// lineWriter renders tokens either in place on a terminal or one per line.
type lineWriter struct {
	out   io.Writer
	tty   bool
	width int
}

func (w lineWriter) token(text string) {
	if !w.tty {
		w.write(text + "\n")
		return
	}
	pad := (w.width - runewidth.StringWidth(text)) / 2
	w.write("\r\x1b[K" + strings.Repeat(" ", max(pad, 0)) + colours.Title.Sprint(text))
}

func (w lineWriter) status(msg string) {
	if !w.tty {
		return
	}
	w.write("\r\x1b[K" + colours.Muted.Sprint(msg))
}

func (w lineWriter) write(s string) {
	if _, err := io.WriteString(w.out, s); err != nil {
		// Best-effort terminal output.
		_ = err
	}
}

func runStreamCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	readDocID = streamDocID
	text, err := loadText(cmd, st, args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, st, text.Lang)
	if err != nil {
		return err
	}
	tokens := playback.FromStrings(segment.Tokens(text.Content, segment.Config{Lang: cfg.Lang, ChunkSize: cfg.ChunkSize}))

	out := cmd.OutOrStdout()
	lw := lineWriter{out: out, width: 80}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		lw.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			lw.width = w
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wpm := cfg.WPM
	loop := playback.NewLoop()
	startedAt := time.Now()
	var (
		completed bool
		engine    *playback.Engine
	)
	engine, err = playback.New(playback.Options{
		Tokens:    func() []playback.Token { return tokens },
		WPM:       func() int { return wpm },
		Scheduler: loop,
		OnChunk:   lw.token,
		OnStatus: func(s playback.Status) {
			switch s {
			case playback.StatusNoWords:
				lw.status("nothing to read")
				loop.Stop()
			case playback.StatusPaused:
				lw.status(fmt.Sprintf("paused at %d/%d (%d wpm)", engine.Index(), len(tokens), wpm))
			}
		},
		OnComplete: func() {
			completed = true
			loop.Stop()
		},
		Logger: logrus.WithField("command", "stream"),
	})
	if err != nil {
		return err
	}

	fromStdin := text.Path == "" && text.DocumentID == ""
	if in, ok := cmd.InOrStdin().(*os.File); ok && !fromStdin && term.IsTerminal(int(in.Fd())) {
		restore, err := listenKeys(in, loop, engine, &wpm)
		if err != nil {
			logrus.WithError(err).Warn("stream keys disabled")
		} else {
			defer restore()
		}
	}

	loop.Do(func() { engine.Start(false, cfg.StartDelay) })
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if lw.tty {
		lw.write("\r\n")
	}

	// Run has returned, so the engine is no longer touched by the loop.
	recordStream(st, cfg, text, tokens, engine.Index(), wpm, completed, startedAt)
	return nil
}

// listenKeys switches the terminal to raw mode and forwards key presses to the loop.
func listenKeys(in *os.File, loop *playback.Loop, engine *playback.Engine, wpm *int) (func(), error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := in.Read(buf); err != nil {
				return
			}
			switch buf[0] {
			case 'q', 3:
				loop.Stop()
				return
			case ' ':
				loop.Do(func() {
					if engine.State() == playback.StatePaused {
						engine.Start(true, 0)
						return
					}
					engine.Pause()
				})
			case '+', '=':
				loop.Do(func() {
					*wpm = playback.ClampWPM(*wpm + 25)
					engine.UpdateSpeed()
				})
			case '-':
				loop.Do(func() {
					*wpm = playback.ClampWPM(*wpm - 25)
					engine.UpdateSpeed()
				})
			}
		}
	}()
	return func() {
		if err := term.Restore(fd, state); err != nil {
			logrus.WithError(err).Warn("failed to restore terminal")
		}
	}, nil
}

func recordStream(st tui.Recorder, cfg model.Config, text source.Text, tokens []playback.Token, index, wpm int, completed bool, startedAt time.Time) {
	if index == 0 {
		return
	}
	ctx := context.Background()
	words, total := 0, 0
	for i, t := range tokens {
		n := len(t)
		if parts := len(strings.Fields(t.Text())); parts > 0 {
			n = parts
		}
		total += n
		if i < index {
			words += n
		}
	}
	endedAt := time.Now()
	_, err := st.InsertSession(ctx, model.ReadingSession{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Lang:       cfg.Lang,
		WPM:        wpm,
		ChunkSize:  cfg.ChunkSize,
		WordsRead:  words,
		TotalWords: total,
		Completed:  completed,
		DocumentID: text.DocumentID,
		SourcePath: text.Path,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to save session")
	}
	if text.DocumentID == "" {
		return
	}
	if completed {
		index = 0
	}
	if err := st.UpdatePosition(ctx, text.DocumentID, index); err != nil {
		logrus.WithError(err).Warn("failed to save reading position")
	}
}
