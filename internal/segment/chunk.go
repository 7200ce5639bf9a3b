package segment

import "strings"

// ChunkIfNeeded groups consecutive tokens into runs of chunkSize joined with a
// single space. No-space languages and chunkSize <= 1 return tokens unchanged.
func ChunkIfNeeded(tokens []string, chunkSize int, noSpace bool) []string {
	if chunkSize <= 1 || noSpace {
		return tokens
	}
	out := make([]string, 0, (len(tokens)+chunkSize-1)/chunkSize)
	for i := 0; i < len(tokens); i += chunkSize {
		end := i + chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, strings.Join(tokens[i:end], " "))
	}
	return out
}
