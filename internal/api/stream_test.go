package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/pkg/core"
)

func TestHttpToWS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:5000/api", "ws://localhost:5000/api"},
		{"https://nadelab.gg/api/", "wss://nadelab.gg/api"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, httpToWS(tt.in))
		})
	}
}

func TestWatchSession(t *testing.T) {
	upgrader := ws.Upgrader{}
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/s1/ws", r.URL.Path)
		gotKey = r.Header.Get("X-API-Key")
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.WriteJSON(core.SessionStatus{ID: "s1", State: core.SessionQueued, Version: 1, QueuePosition: 3})
		_ = conn.WriteJSON(core.SessionStatus{State: core.SessionReady, Version: 2})
		_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	var got []core.SessionStatus
	err := c.WatchSession(context.Background(), "s1", func(s core.SessionStatus) {
		got = append(got, s)
	})

	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].QueuePosition)
	assert.Equal(t, "s1", got[1].ID, "missing ID is filled from the request")
	assert.Equal(t, core.SessionReady, got[1].State)
}

func TestWatchSession_StopsOnCancel(t *testing.T) {
	upgrader := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(srv.URL, "").WatchSession(ctx, "s1", func(core.SessionStatus) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WatchSession did not return after cancel")
	}
}

func TestWatchSession_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	err := New(srv.URL, "").WatchSession(context.Background(), "missing", func(core.SessionStatus) {})
	assert.ErrorIs(t, err, ErrNotFound)
}
