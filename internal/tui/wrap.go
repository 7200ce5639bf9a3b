package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// wrapTokens greedily packs tokens into lines no wider than width and returns
// the token indexes of each line. A token wider than width gets a line of its own.
func wrapTokens(texts []string, sep string, width int) [][]int {
	if len(texts) == 0 {
		return nil
	}
	sepWidth := runewidth.StringWidth(sep)
	var lines [][]int
	line := []int{}
	lineWidth := 0
	for i, text := range texts {
		w := runewidth.StringWidth(text)
		if len(line) > 0 && width > 0 && lineWidth+sepWidth+w > width {
			lines = append(lines, line)
			line = []int{}
			lineWidth = 0
		}
		if len(line) > 0 {
			lineWidth += sepWidth
		}
		line = append(line, i)
		lineWidth += w
	}
	return append(lines, line)
}

// lineOf returns the line holding token idx, or 0.
func lineOf(lines [][]int, idx int) int {
	for i, line := range lines {
		if len(line) > 0 && idx >= line[0] && idx <= line[len(line)-1] {
			return i
		}
	}
	return 0
}

// visibleWindow picks at most height lines keeping the current line a third of the way down.
func visibleWindow(total, current, height int) (start, end int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start = current - height/3
	if start < 0 {
		start = 0
	}
	end = start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

// renderTeleprompter draws the wrapped token stream with the current token highlighted.
func renderTeleprompter(texts []string, sep string, current, width, height int) string {
	lines := wrapTokens(texts, sep, width)
	if len(lines) == 0 {
		return ""
	}
	start, end := visibleWindow(len(lines), lineOf(lines, current), height)
	out := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		var b strings.Builder
		for j, idx := range line {
			if j > 0 {
				b.WriteString(sep)
			}
			style := pendingStyle
			switch {
			case idx == current:
				style = currentStyle
			case idx < current:
				style = readStyle
			}
			b.WriteString(style.Render(texts[idx]))
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// centerLine renders s with style, padded so it sits in the middle of width cells.
func centerLine(s string, style lipgloss.Style, width int) string {
	w := runewidth.StringWidth(s)
	if width <= w {
		return style.Render(s)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + style.Render(s) + strings.Repeat(" ", width-w-left)
}
