// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/verte-zerg/tuiread/internal/model"
)

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// SessionMetrics computes the effective reading speed and completion ratio for a session.
func SessionMetrics(wordsRead, totalWords int, durationMs int64) (wpm, completion float64) {
	if totalWords > 0 {
		completion = float64(wordsRead) / float64(totalWords)
		if completion > 1 {
			completion = 1
		}
	}
	if durationMs <= 0 {
		return 0, completion
	}
	minutes := float64(durationMs) / 60000.0
	wpm = float64(wordsRead) / minutes
	return wpm, completion
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders values as a single line of block characters, at most width cells wide.
// A width of zero keeps one cell per value.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = downsample(values, width)
	}
	lo, hi := minMax(values)
	var b strings.Builder
	for _, v := range values {
		idx := len(sparkBars) / 2
		if hi-lo > 1e-9 {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBars)-1)))
		}
		b.WriteRune(sparkBars[idx])
	}
	return b.String()
}

// downsample averages values into width buckets.
func downsample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

var heading = color.New(color.Bold)

// RenderSummary prints a summary of the sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No reading sessions found.")
		return err
	}
	var totalWPM, totalTarget, bestWPM float64
	var words, completed int
	var elapsed int64
	for _, s := range sessions {
		wpm, _ := SessionMetrics(s.WordsRead, s.TotalWords, s.DurationMs)
		totalWPM += wpm
		totalTarget += float64(s.WPM)
		bestWPM = math.Max(bestWPM, wpm)
		words += s.WordsRead
		elapsed += s.DurationMs
		if s.Completed {
			completed++
		}
	}
	count := float64(len(sessions))
	lines := []string{
		fmt.Sprintf("Sessions: %d (%d completed)", len(sessions), completed),
		fmt.Sprintf("Words read: %d", words),
		fmt.Sprintf("Time reading: %s", (time.Duration(elapsed) * time.Millisecond).Round(time.Second)),
		fmt.Sprintf("Avg target WPM: %.0f", totalTarget/count),
		fmt.Sprintf("Avg effective WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best effective WPM: %.1f", bestWPM),
	}
	if _, err := heading.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderCurves prints smoothed sparklines for target speed, effective speed, and completion.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	target := make([]float64, len(sessions))
	effective := make([]float64, len(sessions))
	completion := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, done := SessionMetrics(s.WordsRead, s.TotalWords, s.DurationMs)
		target[i] = float64(s.WPM)
		effective[i] = wpm
		completion[i] = done * 100
	}
	series := []struct {
		name   string
		values []float64
		unit   string
	}{
		{"Target WPM", MovingAverage(target, window), ""},
		{"Effective WPM", MovingAverage(effective, window), ""},
		{"Completion", MovingAverage(completion, window), "%"},
	}

	const label = 14
	sparkWidth := width - label - 24
	if sparkWidth < 10 {
		sparkWidth = 10
	}
	if _, err := heading.Fprintf(w, "Curves (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	for _, s := range series {
		lo, hi := minMax(s.values)
		if _, err := fmt.Fprintf(w, "%-*s %s  %.0f%s..%.0f%s\n", label, s.name, Sparkline(s.values, sparkWidth), lo, s.unit, hi, s.unit); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderLangTable prints per-language aggregates.
func RenderLangTable(w io.Writer, langs []LangSummary) error {
	if len(langs) == 0 {
		return nil
	}
	headers := []string{"Lang", "Sessions", "Words", "Avg WPM", "Completed"}
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, []string{
			l.Lang,
			fmt.Sprintf("%d", l.Sessions),
			fmt.Sprintf("%d", l.Words),
			fmt.Sprintf("%.1f", l.AvgWPM),
			fmt.Sprintf("%.0f%%", l.CompletedPct),
		})
	}
	if _, err := heading.Fprintln(w, "Per-Language"); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
