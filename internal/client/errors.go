package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Fallback messages used when an error response carries no usable detail.
const (
	MsgUploadFailed  = "Failed to upload PDF"
	MsgAskFailed     = "Failed to get answer"
	MsgPaperFailed   = "Failed to generate question paper"
	MsgSummaryFailed = "Failed to generate summary"
	MsgQuizFailed    = "Failed to generate quiz"
	MsgRequestFailed = "Request failed"
)

var (
	detailOnly        = []string{"detail"}
	detailThenMessage = []string{"detail", "message"}
)

// APIError is a non-2xx response. Error() is exactly the server's message so
// it can be shown to users as is.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(endpoint string, status int, body []byte, fallback string, keys []string) *APIError {
	return &APIError{
		StatusCode: status,
		Endpoint:   endpoint,
		Message:    errorMessage(body, fallback, keys),
	}
}

// errorMessage picks the first usable key from a JSON error body. Strings are
// used as is; a validation list like [{"msg": "..."}] is joined.
func errorMessage(body []byte, fallback string, keys []string) string {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}
	for _, k := range keys {
		raw, ok := parsed[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return fallback
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type ErrorKind string

const (
	KindNotFound  ErrorKind = "not_found"
	KindInvalid   ErrorKind = "invalid"
	KindAuth      ErrorKind = "auth"
	KindUpstream  ErrorKind = "upstream"
	KindTransport ErrorKind = "transport"
)

// Classify buckets an error for presentation. Errors that are not API responses
// (network, decoding) count as transport.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return KindTransport
	}
	switch {
	case apiErr.StatusCode == http.StatusNotFound:
		return KindNotFound
	case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
		return KindAuth
	case apiErr.StatusCode >= 500:
		return KindUpstream
	default:
		return KindInvalid
	}
}
