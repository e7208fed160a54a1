package providers

import (
	"context"
	"errors"
	"strings"
)

type ErrorType string

const (
	ErrorUnavailable  ErrorType = "unavailable"
	ErrorModelMissing ErrorType = "model_missing"
	ErrorContext      ErrorType = "context"
	ErrorPermanent    ErrorType = "permanent"
)

// ClassifyError buckets a generation failure so the server can choose a status.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorUnavailable
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "connection refused"), strings.Contains(e, "timeout"), strings.Contains(e, "no such host"), strings.Contains(e, "unavailable"):
		return ErrorUnavailable
	case strings.Contains(e, "model") && strings.Contains(e, "not found"):
		return ErrorModelMissing
	case strings.Contains(e, "context length"), strings.Contains(e, "too long"):
		return ErrorContext
	default:
		return ErrorPermanent
	}
}
