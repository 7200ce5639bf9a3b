// Package model defines shared data structures.
package model

import "time"

// Settings defines reading settings. It is persisted as key/value pairs.
type Settings struct {
	Lang       string
	WPM        int
	ChunkSize  int
	StartDelay time.Duration
	Mode       string
}

// Config defines a reading run: effective settings plus the text source.
type Config struct {
	Settings
	DocumentID string
	SourcePath string
	Watch      bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Document is a stored text.
type Document struct {
	ID        string
	Title     string
	Lang      string
	Content   string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReadingSession captures one playback run.
type ReadingSession struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Lang       string
	WPM        int
	ChunkSize  int
	WordsRead  int
	TotalWords int
	Completed  bool
	DocumentID string
	SourcePath string
	DurationMs int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Lang       string
	WPM        int
	WordsRead  int
	TotalWords int
	Completed  bool
	DurationMs int64
}
