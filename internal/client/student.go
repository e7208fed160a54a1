package client

import (
	"context"

	"studycompanion/internal/models"
)

const (
	defaultSummaryLength = 500
	defaultQuizQuestions = 5
	defaultDifficulty    = "medium"
)

func (c *Client) AskQuestion(ctx context.Context, sessionID, question string) (models.AskResponse, error) {
	payload := struct {
		SessionID string `json:"session_id"`
		Question  string `json:"question"`
	}{sessionID, question}

	var out models.AskResponse
	if err := c.postJSON(ctx, "/student/ask", payload, MsgAskFailed, &out); err != nil {
		return models.AskResponse{}, err
	}
	return out, nil
}

// GetSummary asks for a summary of at most maxLength words; zero means 500.
func (c *Client) GetSummary(ctx context.Context, sessionID string, maxLength int) (models.SummaryResponse, error) {
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}
	payload := struct {
		SessionID string `json:"session_id"`
		MaxLength int    `json:"max_length"`
	}{sessionID, maxLength}

	var out models.SummaryResponse
	if err := c.postJSON(ctx, "/student/summary", payload, MsgSummaryFailed, &out); err != nil {
		return models.SummaryResponse{}, err
	}
	return out, nil
}

// GenerateQuiz builds a practice quiz; zero values mean 5 questions at medium.
func (c *Client) GenerateQuiz(ctx context.Context, sessionID string, numQuestions int, difficulty string) (models.QuizResponse, error) {
	if numQuestions <= 0 {
		numQuestions = defaultQuizQuestions
	}
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	payload := struct {
		SessionID    string `json:"session_id"`
		NumQuestions int    `json:"num_questions"`
		Difficulty   string `json:"difficulty"`
	}{sessionID, numQuestions, difficulty}

	var out models.QuizResponse
	if err := c.postJSON(ctx, "/student/quiz", payload, MsgQuizFailed, &out); err != nil {
		return models.QuizResponse{}, err
	}
	return out, nil
}
