// Package logging configures the process-wide logrus logger.
//
// The terminal belongs to the reader UI, so log output goes to a file
// under the XDG state directory instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel applies when no level is configured.
const DefaultLevel = logrus.InfoLevel

// ParseLevel accepts logrus level names and the empty string.
func ParseLevel(s string) (logrus.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLevel, nil
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// Setup points the standard logger at path. The returned closer releases the file.
func Setup(path string, level logrus.Level) (io.Closer, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	Configure(logrus.StandardLogger(), f, level)
	return f, nil
}

// Configure applies the shared formatter, output, and level to logger.
func Configure(logger *logrus.Logger, out io.Writer, level logrus.Level) {
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// Discard silences the standard logger.
func Discard() {
	logrus.SetOutput(io.Discard)
}
