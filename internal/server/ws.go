package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nadelab/radar/internal/dispatcher"
	"github.com/nadelab/radar/internal/handlers"
	"github.com/nadelab/radar/internal/logging"
	"github.com/nadelab/radar/internal/radar"
	"github.com/nadelab/radar/pkg/core"
	"github.com/nadelab/radar/pkg/streaming"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

// client is one WebSocket connection driving its own radar surface. The
// surface is only touched from the reader goroutine.
type client struct {
	srv     *Server
	conn    *websocket.Conn
	send    chan []byte
	surface *radar.Surface
	disp    *dispatcher.Dispatcher
	log     zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mini, _ := strconv.ParseBool(q.Get("mini"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.deps.Logger.Warn().Err(err).Msg("upgrade failed")
		return
	}

	c, err := s.newClient(conn, q.Get("map"), q.Get("selected"), mini)
	if err != nil {
		s.deps.Logger.Error().Err(err).Msg("failed to start radar session")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "radar unavailable"))
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writer()
	c.sendLayout()
	go c.reader()
}

func (s *Server) newClient(conn *websocket.Conn, mapName, selected string, mini bool) (*client, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		srv:    s,
		conn:   conn,
		send:   make(chan []byte, s.cfg.SendBuffer),
		log:    s.deps.Logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}

	list, err := s.loadLineups(mapName)
	if err != nil {
		cancel()
		return nil, err
	}
	c.surface = radar.NewSurface(s.deps.Calibrations, radar.Props{
		Map:        mapName,
		Lineups:    list,
		SelectedID: selected,
		OnSelect:   c.onSelect,
		Mini:       mini,
	}, s.deps.Options, s.deps.Layouts)

	c.disp, err = dispatcher.New(logging.NewDispatcherLogger(s.deps.Logger, conn.RemoteAddr().String()))
	if err != nil {
		cancel()
		return nil, err
	}
	handlers.RegisterSurface(c.disp, c.surface, dispatcher.Logged())
	c.disp.Register(streaming.TypeSetMap, c.handleSetMap, dispatcher.Logged())
	c.disp.Register(streaming.TypeRefresh, c.handleRefresh, dispatcher.Logged())

	return c, nil
}

func (c *client) handleSetMap(e dispatcher.Event) (any, error) {
	var p streaming.SetMapPayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}
	list, err := c.srv.loadLineups(p.Map)
	if err != nil {
		return nil, fmt.Errorf("loading lineups for %s: %w", p.Map, err)
	}
	c.surface.SetMap(p.Map)
	c.surface.SetLineups(list)
	return nil, nil
}

func (c *client) handleRefresh(e dispatcher.Event) (any, error) {
	list, err := c.srv.loadLineups(c.surface.Map())
	if err != nil {
		return nil, fmt.Errorf("loading lineups for %s: %w", c.surface.Map(), err)
	}
	c.surface.SetLineups(list)
	return nil, nil
}

func (c *client) onSelect(e core.SelectionEvent) {
	c.sendJSON(streaming.TypeSelected, streaming.SelectedMessage(e))
}

func (c *client) sendLayout() {
	c.sendJSON(streaming.TypeLayout, c.srv.layout(c.ctx, c.surface))
}

func (c *client) sendError(forType string, err error) {
	c.sendJSON(streaming.TypeError, streaming.ErrorMessage{For: forType, Error: err.Error()})
}

// sendJSON queues a message without blocking. A full buffer drops the message.
func (c *client) sendJSON(typ string, v any) {
	out, err := streaming.Encode(typ, v)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode message")
		return
	}
	select {
	case c.send <- out:
	default:
		c.log.Warn().Str("type", typ).Msg("send buffer full, dropping message")
	}
}

func (c *client) reader() {
	defer c.close()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("connection closed")
			}
			return
		}

		env, err := streaming.Decode(data)
		if err != nil {
			c.sendError("", err)
			continue
		}

		_, err = c.disp.Dispatch(dispatcher.Event{Command: env.Type, Payload: env.Payload})
		if err != nil {
			c.sendError(env.Type, err)
			continue
		}
		c.sendLayout()
	}
}

func (c *client) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *client) close() {
	c.cancel()
	c.srv.mu.Lock()
	delete(c.srv.clients, c)
	c.srv.mu.Unlock()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.cancel()
	}
}

