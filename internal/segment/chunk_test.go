package segment

import "testing"

func TestChunkIfNeeded(t *testing.T) {
	tokens := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		name    string
		size    int
		noSpace bool
		want    []string
	}{
		{"size one unchanged", 1, false, tokens},
		{"size zero unchanged", 0, false, tokens},
		{"no-space unchanged", 3, true, tokens},
		{"pairs", 2, false, []string{"a b", "c d", "e"}},
		{"exact", 5, false, []string{"a b c d e"}},
		{"larger than input", 9, false, []string{"a b c d e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, ChunkIfNeeded(tokens, tt.size, tt.noSpace), tt.want)
		})
	}
	if got := ChunkIfNeeded([]string{}, 3, false); len(got) != 0 {
		t.Fatalf("expected empty output, got %q", got)
	}
}
