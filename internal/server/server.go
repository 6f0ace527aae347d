// Package server exposes radar layouts over HTTP and drives live radar
// surfaces over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nadelab/radar/internal/cache"
	"github.com/nadelab/radar/internal/calibration"
	"github.com/nadelab/radar/internal/config"
	"github.com/nadelab/radar/internal/influx"
	"github.com/nadelab/radar/internal/radar"
	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/pkg/core"
)

// UsageRecorder receives one sample per computed layout.
type UsageRecorder interface {
	RecordLayout(ctx context.Context, s influx.LayoutSample) error
}

// Dependencies holds everything the server reads from.
type Dependencies struct {
	Calibrations *calibration.Table
	Store        storage.Backend
	Layouts      *cache.LayoutCache
	Options      radar.Options
	Metrics      UsageRecorder
	Logger       zerolog.Logger
}

// Server serves the radar HTTP API and WebSocket endpoint.
type Server struct {
	cfg      config.ServerConfig
	deps     Dependencies
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New creates a server.
func New(cfg config.ServerConfig, deps Dependencies) *Server {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 32
	}
	if deps.Layouts == nil {
		deps.Layouts = cache.NewLayoutCache(cache.DefaultMaxLayouts)
	}
	s := &Server{
		cfg:     cfg,
		deps:    deps,
		clients: make(map[*client]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	s.mux.HandleFunc("GET /api/maps", s.handleMaps)
	s.mux.HandleFunc("GET /api/maps/{map}/lineups", s.handleLineups)
	s.mux.HandleFunc("GET /api/maps/{map}/radar", s.handleRadar)
	s.mux.HandleFunc("GET /ws/radar", s.handleWS)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on cfg.Listen until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info().Str("addr", s.cfg.Listen).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range s.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// MapInfo describes one calibrated map.
type MapInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Image       string `json:"image"`
	LowerImage  string `json:"lowerImage,omitempty"`
	HasLayers   bool   `json:"hasLayers"`
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	cals := s.deps.Calibrations.All()
	out := make([]MapInfo, 0, len(cals))
	for _, c := range cals {
		out = append(out, MapInfo{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Image:       c.Image,
			LowerImage:  c.LowerImage,
			HasLayers:   c.HasLayers(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// LineupsResponse is the body of GET /api/maps/{map}/lineups.
type LineupsResponse struct {
	Map     string        `json:"map"`
	Version uint64        `json:"version"`
	Lineups []core.Lineup `json:"lineups"`
}

func (s *Server) handleLineups(w http.ResponseWriter, r *http.Request) {
	mapName := r.PathValue("map")
	list, err := s.loadLineups(mapName)
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("map", mapName).Msg("failed to load lineups")
		writeError(w, http.StatusInternalServerError, "failed to load lineups")
		return
	}
	writeJSON(w, http.StatusOK, LineupsResponse{Map: mapName, Version: list.Version, Lineups: list.Items})
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	mapName := r.PathValue("map")
	q := r.URL.Query()

	mini := false
	if v := q.Get("mini"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "mini must be a boolean")
			return
		}
		mini = b
	}

	list, err := s.loadLineups(mapName)
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("map", mapName).Msg("failed to load lineups")
		writeError(w, http.StatusInternalServerError, "failed to load lineups")
		return
	}

	surface := radar.NewSurface(s.deps.Calibrations, radar.Props{
		Map:        mapName,
		Lineups:    list,
		SelectedID: q.Get("selected"),
		Mini:       mini,
	}, s.deps.Options, s.deps.Layouts)

	if layer := q.Get("layer"); layer != "" {
		if !surface.SetLayer(core.ParseLayer(layer)) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("map %s has no %s layer", mapName, layer))
			return
		}
	}

	writeJSON(w, http.StatusOK, s.layout(r.Context(), surface))
}

// loadLineups reads a map's lineups with the store's version as list identity.
func (s *Server) loadLineups(mapName string) (radar.LineupList, error) {
	version, err := s.deps.Store.Version(mapName)
	if err != nil {
		return radar.LineupList{}, err
	}
	items, err := s.deps.Store.ListLineups(mapName)
	if err != nil {
		return radar.LineupList{}, err
	}
	return radar.LineupList{Scope: "store:" + mapName, Version: version, Items: items}, nil
}

// layout computes a surface's layout and reports the sample.
func (s *Server) layout(ctx context.Context, surface *radar.Surface) radar.Layout {
	hitsBefore, _ := s.deps.Layouts.Stats()
	start := time.Now()
	l := surface.Layout()
	elapsed := time.Since(start)
	hitsAfter, _ := s.deps.Layouts.Stats()

	if s.deps.Metrics != nil && l.Available {
		err := s.deps.Metrics.RecordLayout(ctx, influx.LayoutSample{
			Map:      l.Map,
			Layer:    string(l.Layer),
			Mini:     l.Mini,
			Markers:  l.MarkerCount,
			Groups:   len(l.Groups),
			Cached:   hitsAfter > hitsBefore,
			Duration: elapsed,
		})
		if err != nil {
			s.deps.Logger.Debug().Err(err).Msg("failed to record layout sample")
		}
	}
	return l
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
