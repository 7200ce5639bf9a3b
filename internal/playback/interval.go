package playback

import (
	"math"
	"unicode"
	"unicode/utf8"
)

// Rate limits in words per minute.
const (
	MinWPM = 50
	MaxWPM = 500
)

// ClampWPM limits wpm to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}

// BaseInterval is the undecorated per-token dwell in milliseconds.
func BaseInterval(wpm int) float64 {
	return 60000.0 / float64(ClampWPM(wpm))
}

// IntervalMs computes the dwell for token in whole milliseconds. The length
// buckets are checked in priority order: <=2, then >=5, then ==4.
func IntervalMs(token Token, wpm int) int64 {
	text := token.Text()
	length := utf8.RuneCountInString(text)
	multiplier := 1.0
	switch {
	case length <= 2:
		multiplier *= 0.9
	case length >= 5:
		multiplier *= 1.2
	case length >= 4:
		multiplier *= 1.05
	}
	if containsDigit(text) {
		multiplier *= 1.2
	}
	if containsSymbol(text) {
		multiplier *= 1.1
	}
	return int64(math.Round(BaseInterval(wpm) * multiplier))
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

// containsSymbol reports a rune that is not [A-Za-z0-9_], whitespace, or a
// precomposed Hangul syllable.
func containsSymbol(s string) bool {
	for _, r := range s {
		switch {
		case isASCIIWord(r):
		case unicode.IsSpace(r):
		case r >= 0xAC00 && r <= 0xD7A3:
		default:
			return true
		}
	}
	return false
}

func isASCIIWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
