// ABOUTME: Unauthenticated gateway health check
// ABOUTME: Used by status to report reachability and version

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Health is the gateway's self-reported status.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health pings the gateway health endpoint without authentication.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("building health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(resp, "")
	}

	var out Health
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	return &out, nil
}
