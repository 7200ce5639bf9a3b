package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":      logrus.InfoLevel,
		"debug": logrus.DebugLevel,
		" warn": logrus.WarnLevel,
		"ERROR": logrus.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConfigureFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	Configure(logger, &buf, logrus.WarnLevel)
	logger.Info("hidden")
	logger.WithField("wpm", 300).Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info line to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "wpm=300") {
		t.Fatalf("expected warn line with field, got %q", out)
	}
}

func TestSetupCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tuiread.log")
	closer, err := Setup(path, logrus.InfoLevel)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() {
		Discard()
		_ = closer.Close()
	})
	logrus.Info("hello log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello log") {
		t.Fatalf("expected log line in file, got %q", data)
	}
}
