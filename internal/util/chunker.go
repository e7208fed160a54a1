package util

import (
	"strings"
	"unicode"
)

// ChunkText splits text into windows of at most chunkSize runes, consecutive
// windows sharing overlap runes. A window ends at its last whitespace when it
// has one past the overlap, so words are not cut in half.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); {
		end := min(start+chunkSize, len(runes))
		if end < len(runes) {
			if cut := lastSpace(runes[start:end]); cut > overlap {
				end = start + cut
			}
		}
		if part := strings.TrimSpace(string(runes[start:end])); part != "" {
			out = append(out, part)
		}
		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}
