package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"dial tcp 127.0.0.1:11434: connect: connection refused":  ErrorUnavailable,
		`ollama generate error 404: model "llama3:8b" not found`: ErrorModelMissing,
		"prompt too long": ErrorContext,
		"decode failure":  ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
	if got := ClassifyError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)); got != ErrorUnavailable {
		t.Fatalf("deadline: got %s", got)
	}
	if ClassifyError(nil) != "" {
		t.Fatal("nil error should have no class")
	}
}
