package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ws "github.com/gorilla/websocket"

	"github.com/nadelab/radar/pkg/core"
)

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}

// WatchSession streams status pushes for one session and calls fn for each.
// It returns nil when the backend closes the stream normally or ctx is done.
func (c *Client) WatchSession(ctx context.Context, id string, fn func(core.SessionStatus)) error {
	u := httpToWS(c.baseURL) + "/v1/sessions/" + url.PathEscape(id) + "/ws"

	header := http.Header{}
	if c.apiKey != "" {
		header.Set("X-API-Key", c.apiKey)
	}

	conn, resp, err := ws.DefaultDialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	defer conn.Close()

	// unblock ReadMessage on cancel
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("session stream for %s: %w", id, err)
		}

		var status core.SessionStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return fmt.Errorf("failed to decode session push: %w", err)
		}
		if status.ID == "" {
			status.ID = id
		}
		fn(status)
	}
}

