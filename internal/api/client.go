// internal/api/client.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nadelab/radar/pkg/core"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found")

// Client handles communication with the practice backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTimeout changes the per-request timeout. Zero keeps the current value.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// Healthcheck checks if the backend is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

type lineupsResponse struct {
	Lineups []core.Lineup `json:"lineups"`
}

// FetchLineups downloads all lineups of a map.
func (c *Client) FetchLineups(ctx context.Context, mapName string) ([]core.Lineup, error) {
	var body lineupsResponse
	q := url.Values{"map": {mapName}}
	if err := c.getJSON(ctx, "/v1/lineups?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("fetching lineups for %s: %w", mapName, err)
	}
	for i := range body.Lineups {
		if body.Lineups[i].Map == "" {
			body.Lineups[i].Map = mapName
		}
	}
	return body.Lineups, nil
}

// GetSession returns the current status of a practice session.
func (c *Client) GetSession(ctx context.Context, id string) (core.SessionStatus, error) {
	var status core.SessionStatus
	if err := c.getJSON(ctx, "/v1/sessions/"+url.PathEscape(id), &status); err != nil {
		return core.SessionStatus{}, fmt.Errorf("fetching session %s: %w", id, err)
	}
	return status, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
