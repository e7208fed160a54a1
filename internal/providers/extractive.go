package providers

import (
	"context"
	"fmt"
	"strings"

	"studycompanion/internal/util"
)

// ExtractiveProvider answers from the context text itself without a model. It is
// deterministic, which keeps the development backend usable offline.
type ExtractiveProvider struct{}

func NewExtractiveProvider() *ExtractiveProvider {
	return &ExtractiveProvider{}
}

func (e *ExtractiveProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "extractive", Model: "extractive-v1"}
	switch req.Operation {
	case OpAsk:
		if len(req.Context) == 0 || util.Relevance(req.Context[0], req.Prompt) == 0 {
			return GenerateResponse{Text: NotInMaterial}, info, nil
		}
		return GenerateResponse{Text: util.DisplayEvidenceSnippet(req.Context[0], req.Prompt, 600)}, info, nil
	case OpSummary:
		return GenerateResponse{Text: leadingSentences(req.Context, req.MaxWords)}, info, nil
	default:
		return GenerateResponse{}, info, fmt.Errorf("extractive provider: unsupported operation %q", req.Operation)
	}
}

// leadingSentences keeps whole sentences, in order, while they fit in maxWords.
// A first sentence longer than the budget is cut at maxWords.
func leadingSentences(chunks []string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 500
	}
	seen := map[string]struct{}{}
	var b strings.Builder
	words := 0
	for _, c := range chunks {
		for _, s := range util.SplitSentences(c) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			f := strings.Fields(s)
			if words+len(f) > maxWords {
				if words == 0 {
					b.WriteString(strings.Join(f[:maxWords], " "))
				}
				return b.String()
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Join(f, " "))
			words += len(f)
		}
	}
	return b.String()
}
