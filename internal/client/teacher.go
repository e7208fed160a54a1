package client

import (
	"context"

	"studycompanion/internal/models"
)

// PaperOptions configures question paper generation. Zero values fall back to
// the defaults below; a nil QuestionTypes means all three types, while an
// empty non-nil slice is sent as []. Values are not checked here; the server
// owns validation.
type PaperOptions struct {
	Topic          string
	NumQuestions   int
	Difficulty     string
	IncludeAnswers bool
	TestMode       string
	QuestionTypes  []string
}

const (
	DefaultNumQuestions = 10
	DefaultDifficulty   = "medium"
	DefaultTestMode     = "mcq"
)

func DefaultQuestionTypes() []string {
	return []string{"mcq", "short_answer", "long_answer"}
}

type paperRequest struct {
	SessionID      string   `json:"session_id"`
	Topic          string   `json:"topic"`
	NumQuestions   int      `json:"num_questions"`
	Difficulty     string   `json:"difficulty"`
	IncludeAnswers bool     `json:"include_answers"`
	TestMode       string   `json:"test_mode"`
	QuestionTypes  []string `json:"question_types"`
}

func (o PaperOptions) request(sessionID string) paperRequest {
	r := paperRequest{
		SessionID:      sessionID,
		Topic:          o.Topic,
		NumQuestions:   o.NumQuestions,
		Difficulty:     o.Difficulty,
		IncludeAnswers: o.IncludeAnswers,
		TestMode:       o.TestMode,
		QuestionTypes:  o.QuestionTypes,
	}
	if r.NumQuestions == 0 {
		r.NumQuestions = DefaultNumQuestions
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.TestMode == "" {
		r.TestMode = DefaultTestMode
	}
	if r.QuestionTypes == nil {
		r.QuestionTypes = DefaultQuestionTypes()
	}
	return r
}

func (c *Client) GenerateQuestionPaper(ctx context.Context, sessionID string, opts PaperOptions) (models.QuestionPaper, error) {
	var out models.QuestionPaper
	if err := c.postJSON(ctx, "/teacher/generate-paper", opts.request(sessionID), MsgPaperFailed, &out); err != nil {
		return models.QuestionPaper{}, err
	}
	return out, nil
}
