package playback

import (
	"context"
	"testing"
	"time"
)

func TestLoopRunsScheduledWork(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = loop.Run(ctx)
	}()

	fired := make(chan string, 2)
	loop.Do(func() {
		loop.Schedule(5*time.Millisecond, func() { fired <- "kept" })
		stopped := loop.Schedule(time.Millisecond, func() { fired <- "stopped" })
		if !stopped.Stop() {
			t.Errorf("expected pending timer to stop")
		}
	})

	select {
	case got := <-fired:
		if got != "kept" {
			t.Fatalf("expected kept timer, got %q", got)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for timer")
	}
	loop.Stop()
	if loop.Do(func() {}) {
		t.Fatalf("expected Do to fail after Stop")
	}
}

func TestEngineOnLoop(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = loop.Run(ctx)
	}()

	done := make(chan []string, 1)
	var chunks []string
	e, err := New(Options{
		Tokens:     func() []Token { return FromStrings([]string{"a", "b"}) },
		WPM:        func() int { return MaxWPM },
		Scheduler:  loop,
		OnChunk:    func(text string) { chunks = append(chunks, text) },
		OnComplete: func() { done <- chunks },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loop.Do(func() { e.Start(false, 0) })

	select {
	case got := <-done:
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("unexpected chunks %v", got)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for completion")
	}
}
