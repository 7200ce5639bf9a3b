// Package playback drives timed serial presentation of a token sequence.
package playback

import "strings"

// Token is one display unit. A token with several parts is a pre-joined
// chunk and is shown with single spaces between the parts.
type Token []string

// Text returns the display text of the token.
func (t Token) Text() string {
	if len(t) == 1 {
		return t[0]
	}
	return strings.Join(t, " ")
}

// FromStrings wraps each string as a single-part token.
func FromStrings(words []string) []Token {
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{w}
	}
	return tokens
}

// Status is a tag emitted to the caller; rendering it is the caller's job.
type Status string

// Status tags.
const (
	StatusNoWords   Status = "no-words"
	StatusPreparing Status = "preparing"
	StatusPaused    Status = "paused"
	StatusComplete  Status = "complete"
)

// State is the engine lifecycle state.
type State int

// Engine states.
const (
	StateIdle State = iota
	StatePreparing
	StateRunning
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DisplayMode only affects how the caller renders tokens; timing is identical.
type DisplayMode string

// Display modes.
const (
	ModeFlash        DisplayMode = "flash"
	ModeTeleprompter DisplayMode = "teleprompter"
)

// ParseMode maps a mode name to a DisplayMode.
func ParseMode(name string) (DisplayMode, bool) {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeFlash:
		return ModeFlash, true
	case ModeTeleprompter:
		return ModeTeleprompter, true
	default:
		return "", false
	}
}
