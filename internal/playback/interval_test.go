package playback

import "testing"

func TestIntervalMs(t *testing.T) {
	tests := []struct {
		token Token
		wpm   int
		want  int64
	}{
		{Token{"a"}, 250, 216},
		{Token{"apple"}, 250, 288},
		{Token{"hello123"}, 250, 346},
		{Token{"cat"}, 250, 240},
		{Token{"word"}, 250, 252},
		{Token{"ok"}, 250, 216},
		{Token{"done."}, 250, 317},
		{Token{"안녕하세요"}, 250, 288},
		{Token{"café"}, 250, 277},
		{Token{"a", "b"}, 250, 240},
		{Token{"x"}, 10, 1080},
		{Token{"x"}, 1000, 108},
	}
	for _, tt := range tests {
		if got := IntervalMs(tt.token, tt.wpm); got != tt.want {
			t.Fatalf("IntervalMs(%q, %d) = %d, want %d", tt.token.Text(), tt.wpm, got, tt.want)
		}
	}
}

func TestClampWPM(t *testing.T) {
	tests := map[int]int{-1: MinWPM, 0: MinWPM, 49: MinWPM, 50: 50, 250: 250, 500: 500, 501: MaxWPM}
	for in, want := range tests {
		if got := ClampWPM(in); got != want {
			t.Fatalf("ClampWPM(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode(" Teleprompter "); !ok || m != ModeTeleprompter {
		t.Fatalf("expected teleprompter, got %q %v", m, ok)
	}
	if _, ok := ParseMode("scroll"); ok {
		t.Fatalf("expected unknown mode to fail")
	}
}
