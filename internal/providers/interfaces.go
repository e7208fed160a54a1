package providers

import "context"

const (
	OpAsk     = "ask"
	OpSummary = "summary"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// GenerateRequest asks for text grounded in Context. MaxWords only applies to
// summaries; zero means no limit.
type GenerateRequest struct {
	Operation string   `json:"operation"`
	Prompt    string   `json:"prompt"`
	Context   []string `json:"context"`
	MaxWords  int      `json:"max_words,omitempty"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
