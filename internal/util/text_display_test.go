package util

import (
	"strings"
	"testing"
)

func TestDisplaySnippet(t *testing.T) {
	in := "Hello\x00   world \n\t C\\u0001"
	out := DisplaySnippet(in, 100)
	if out == "" {
		t.Fatalf("expected non-empty snippet")
	}
}

func TestTopChunksPrefersRelevantThenOrder(t *testing.T) {
	chunks := []string{
		"Mitochondria produce energy for the cell.",
		"The nucleus stores genetic material.",
		"Chloroplasts capture light energy in plants.",
	}
	got := TopChunks(chunks, "Where is light energy captured?", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != chunks[2] {
		t.Fatalf("expected chloroplast chunk first, got %q", got[0])
	}
	if got[1] != chunks[0] {
		t.Fatalf("expected energy chunk second, got %q", got[1])
	}
}

func TestDisplayEvidenceSnippet(t *testing.T) {
	chunk := "Osmosis moves water across membranes. Its rate depends on solute concentration gradients. Unrelated appendix text."
	q := "How does concentration affect the osmosis rate?"
	out := DisplayEvidenceSnippet(chunk, q, 200)
	if !strings.Contains(strings.ToLower(out), "concentration") {
		t.Fatalf("expected relevance to concentration in snippet, got: %q", out)
	}
}
