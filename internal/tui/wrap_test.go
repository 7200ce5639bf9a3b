package tui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func TestWrapTokensGreedy(t *testing.T) {
	texts := []string{"one", "two", "three", "four"}
	lines := wrapTokens(texts, " ", 10)
	want := [][]int{{0, 1}, {2, 3}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
}

func TestWrapTokensWideRunes(t *testing.T) {
	texts := []string{"안녕", "하세요", "세계"}
	lines := wrapTokens(texts, " ", 11)
	want := [][]int{{0, 1}, {2}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
}

func TestWrapTokensOverlongToken(t *testing.T) {
	lines := wrapTokens([]string{"a", "supercalifragilistic", "b"}, " ", 5)
	want := [][]int{{0}, {1}, {2}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
}

func TestWrapTokensNoSeparator(t *testing.T) {
	lines := wrapTokens([]string{"日本", "語", "です"}, "", 6)
	want := [][]int{{0, 1}, {2}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
}

func TestVisibleWindow(t *testing.T) {
	cases := []struct {
		total, current, height int
		start, end             int
	}{
		{total: 3, current: 2, height: 5, start: 0, end: 3},
		{total: 20, current: 0, height: 6, start: 0, end: 6},
		{total: 20, current: 10, height: 6, start: 8, end: 14},
		{total: 20, current: 19, height: 6, start: 14, end: 20},
	}
	for _, tc := range cases {
		start, end := visibleWindow(tc.total, tc.current, tc.height)
		if start != tc.start || end != tc.end {
			t.Fatalf("visibleWindow(%d,%d,%d): expected [%d,%d), got [%d,%d)", tc.total, tc.current, tc.height, tc.start, tc.end, start, end)
		}
	}
}

func TestRenderTeleprompterHighlightsCurrent(t *testing.T) {
	out := renderTeleprompter([]string{"read", "now", "next"}, " ", 1, 40, 3)
	if !strings.Contains(out, currentStyle.Render("now")) {
		t.Fatalf("expected current token highlighted: %q", out)
	}
	if !strings.Contains(out, readStyle.Render("read")) {
		t.Fatalf("expected read token dimmed: %q", out)
	}
	if !strings.Contains(out, pendingStyle.Render("next")) {
		t.Fatalf("expected upcoming token pending: %q", out)
	}
}

func TestCenterLine(t *testing.T) {
	got := centerLine("안녕", lipgloss.NewStyle(), 10)
	if runewidth.StringWidth(got) != 10 {
		t.Fatalf("expected width 10, got %d (%q)", runewidth.StringWidth(got), got)
	}
	if !strings.HasPrefix(got, "   안녕") {
		t.Fatalf("expected three leading spaces, got %q", got)
	}
	if centerLine("toolong", lipgloss.NewStyle(), 3) != "toolong" {
		t.Fatalf("expected overlong text unchanged")
	}
}
