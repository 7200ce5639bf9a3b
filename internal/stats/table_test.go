package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Lang", "Sessions", "Words"}
	rows := [][]string{
		{"en", "12", "4800"},
		{"ko", "3", "90"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Lang Sessions Words" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "en         12  4800" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ko          3    90" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Title", "N"}, [][]string{{"한국어", "1"}, {"abc", "22"}}, map[int]bool{1: true})
	if lines[1] != "한국어  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "abc    22" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
