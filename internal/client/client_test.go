package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"studycompanion/internal/models"
)

type recorded struct {
	method      string
	path        string
	contentType string
	requestID   string
	body        []byte
}

type recorder struct {
	mu   sync.Mutex
	seen []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.seen...)
}

// newTestServer answers every request with status and body and records what it saw.
func newTestServer(t *testing.T, status int, body string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.seen = append(rec.seen, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
			body:        b,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), rec
}

func TestNewDefaultsBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, New("  ").BaseURL())
	require.Equal(t, "http://api:8000", New("http://api:8000///").BaseURL())
}

func TestAskQuestionSendsJSON(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{"success":true,"answer":"Mitochondria.","sources":["chunk one","chunk two"]}`)
	out, err := c.AskQuestion(context.Background(), "sid-1", "What makes ATP?")
	require.NoError(t, err)
	require.Equal(t, models.AskResponse{Success: true, Answer: "Mitochondria.", Sources: []string{"chunk one", "chunk two"}}, out)

	require.Len(t, seen.all(), 1)
	got := seen.all()[0]
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/student/ask", got.path)
	require.Equal(t, "application/json", got.contentType)
	require.NotEmpty(t, got.requestID)
	require.JSONEq(t, `{"session_id":"sid-1","question":"What makes ATP?"}`, string(got.body))
}

func TestAskQuestionServerDetail(t *testing.T) {
	c, _ := newTestServer(t, http.StatusNotFound, `{"detail":"session expired"}`)
	_, err := c.AskQuestion(context.Background(), "sid", "q")
	require.Error(t, err)
	require.Equal(t, "session expired", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "/student/ask", apiErr.Endpoint)
	require.True(t, IsStatus(err, http.StatusNotFound))
	require.Equal(t, KindNotFound, Classify(err))
}

func TestFallbackMessages(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		body string
		call func(*Client) error
		want string
	}{
		{"ask without detail", `{"error":"x"}`, func(c *Client) error { _, err := c.AskQuestion(ctx, "s", "q"); return err }, MsgAskFailed},
		{"paper empty detail", `{"detail":""}`, func(c *Client) error {
			_, err := c.GenerateQuestionPaper(ctx, "s", PaperOptions{Topic: "t"})
			return err
		}, MsgPaperFailed},
		{"summary html body", `<html>bad gateway</html>`, func(c *Client) error { _, err := c.GetSummary(ctx, "s", 0); return err }, MsgSummaryFailed},
		{"quiz non-string detail", `{"detail":42}`, func(c *Client) error { _, err := c.GenerateQuiz(ctx, "s", 0, ""); return err }, MsgQuizFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestServer(t, http.StatusInternalServerError, tc.body)
			err := tc.call(c)
			require.Error(t, err)
			require.Equal(t, tc.want, err.Error())
			require.Equal(t, KindUpstream, Classify(err))
		})
	}
}

func TestValidationDetailListIsJoined(t *testing.T) {
	c, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","topic"],"msg":"field required"},{"msg":"value is not a valid integer"}]}`)
	_, err := c.AskQuestion(context.Background(), "s", "q")
	require.EqualError(t, err, "field required; value is not a valid integer")
	require.Equal(t, KindInvalid, Classify(err))
}

func TestTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.AskQuestion(context.Background(), "s", "q")
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
	require.Equal(t, KindTransport, Classify(err))
}

func TestMalformedSuccessBodyIsError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, `not json`)
	_, err := c.AskQuestion(context.Background(), "s", "q")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode /student/ask response")
}

func TestContextCancellation(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.AskQuestion(ctx, "s", "q")
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, seen.all())
}

func TestSummaryAndQuizDefaults(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{"success":true,"summary":"short","quiz":[]}`)
	ctx := context.Background()

	sum, err := c.GetSummary(ctx, "sid", 0)
	require.NoError(t, err)
	require.Equal(t, "short", sum.Summary)

	_, err = c.GenerateQuiz(ctx, "sid", 0, "")
	require.NoError(t, err)

	require.Equal(t, "/student/summary", seen.all()[0].path)
	require.JSONEq(t, `{"session_id":"sid","max_length":500}`, string(seen.all()[0].body))
	require.Equal(t, "/student/quiz", seen.all()[1].path)
	require.JSONEq(t, `{"session_id":"sid","num_questions":5,"difficulty":"medium"}`, string(seen.all()[1].body))
}

func TestRequestIDsAreUnique(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, `{"success":true,"answer":"a"}`)
	for i := 0; i < 3; i++ {
		_, err := c.AskQuestion(context.Background(), "s", "q")
		require.NoError(t, err)
	}
	ids := map[string]bool{}
	for _, r := range seen.all() {
		ids[r.requestID] = true
	}
	require.Len(t, ids, 3)
}

func TestErrorMessageKeys(t *testing.T) {
	body := []byte(`{"message":"Invalid credentials"}`)
	require.Equal(t, "Invalid credentials", errorMessage(body, MsgRequestFailed, detailThenMessage))
	require.Equal(t, MsgRequestFailed, errorMessage(body, MsgRequestFailed, detailOnly))
	require.Equal(t, "x", errorMessage([]byte(`{"detail":"x","message":"y"}`), "f", detailThenMessage))
	require.Equal(t, "f", errorMessage(nil, "f", detailOnly))
}

func decodeBody(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestHealthCheckPassesThroughNon2xx(t *testing.T) {
	c, seen := newTestServer(t, http.StatusServiceUnavailable, `{"status":"degraded","detail":"ollama down"}`)
	out, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]any{"status": "degraded", "detail": "ollama down"}, out)
	require.Equal(t, http.MethodGet, seen.all()[0].method)
	require.Equal(t, "/health", seen.all()[0].path)
}

func TestHealthCheckDecodeFailure(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, `ok`)
	_, err := c.HealthCheck(context.Background())
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "decode /health"))
}
