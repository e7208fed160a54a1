package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HealthCheck returns the decoded /health body whatever the status code. Unlike
// the other calls a non-2xx response is not turned into an *APIError.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	_, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode /health response: %w", err)
	}
	return out, nil
}
