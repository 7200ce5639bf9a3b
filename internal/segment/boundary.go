package segment

import (
	"strings"

	"github.com/rivo/uniseg"
)

// BoundaryFunc returns the next word of s following the uniseg state protocol.
type BoundaryFunc func(s string, state int) (word, rest string, newState int)

// WordBoundary splits text on Unicode word boundaries (UAX #29). Without a
// boundary finder it falls back to one token per character.
type WordBoundary struct {
	Next BoundaryFunc
}

// NewWordBoundary returns a WordBoundary backed by uniseg.
func NewWordBoundary() WordBoundary {
	return WordBoundary{Next: uniseg.FirstWordInString}
}

// Segment implements Segmenter.
func (w WordBoundary) Segment(text string) []string {
	if w.Next == nil {
		return Characters{}.Segment(text)
	}
	tokens := []string{}
	rest := text
	state := -1
	for rest != "" {
		var word string
		word, rest, state = w.Next(rest, state)
		if word == "" {
			break
		}
		if strings.TrimSpace(word) == "" {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
