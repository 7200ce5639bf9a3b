package segment

import (
	"strings"
	"unicode"
)

const (
	eojeolMaxRunes = 6
	eojeolPiece    = 3
)

// Korean splits on eojeol (space-delimited units). Long Hangul units are
// broken into short pieces so agglutinated words stay readable.
type Korean struct{}

// Segment implements Segmenter.
func (Korean) Segment(text string) []string {
	tokens := []string{}
	for _, unit := range strings.Fields(text) {
		runes := []rune(unit)
		if len(runes) <= eojeolMaxRunes || !containsHangul(runes) {
			tokens = append(tokens, unit)
			continue
		}
		tokens = append(tokens, splitEojeol(runes)...)
	}
	return tokens
}

// splitEojeol flushes every eojeolPiece runes; the tail may be 1-2 runes.
func splitEojeol(runes []rune) []string {
	pieces := make([]string, 0, len(runes)/eojeolPiece+1)
	start := 0
	for i := range runes {
		if i+1-start >= eojeolPiece {
			pieces = append(pieces, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		pieces = append(pieces, string(runes[start:]))
	}
	return pieces
}

func containsHangul(runes []rune) bool {
	for _, r := range runes {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
