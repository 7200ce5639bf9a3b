package tui

import (
	"testing"
	"time"
)

func TestTeaSchedulerFireAndStop(t *testing.T) {
	s := newTeaScheduler()
	var calls []string
	first := s.Schedule(time.Millisecond, func() { calls = append(calls, "first") })
	s.Schedule(time.Millisecond, func() { calls = append(calls, "second") })
	if cmd := s.flush(); cmd == nil {
		t.Fatalf("expected queued tick commands")
	}
	if cmd := s.flush(); cmd != nil {
		t.Fatalf("expected flush to drain the queue")
	}

	if !first.Stop() {
		t.Fatalf("expected first timer to be pending")
	}
	if first.Stop() {
		t.Fatalf("expected second stop to report false")
	}
	s.fire(1)
	s.fire(2)
	s.fire(2)
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("expected only the second call once, got %v", calls)
	}
}
