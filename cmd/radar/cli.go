package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nadelab/radar/internal/api"
	"github.com/nadelab/radar/internal/config"
	"github.com/nadelab/radar/internal/session"
	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/pkg/core"
)

func newAPIClient() *api.Client {
	cfg := config.GetAPIConfig()
	client := api.New(cfg.ServerURL, cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return client
}

// syncLineups mirrors the backend's lineups for each map into the configured
// store, deleting stored lineups the backend dropped. With no maps given,
// every calibrated map is synced.
func syncLineups(ctx context.Context, maps []string) error {
	if len(maps) == 0 {
		cals, err := loadCalibrations()
		if err != nil {
			return err
		}
		maps = cals.Names()
	}

	client := newAPIClient()
	if err := client.Healthcheck(); err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}

	store, err := createStorageBackend(config.GetStorageConfig())
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			Logger.Warn().Err(err).Msg("Failed to close storage backend")
		}
	}()

	saved, deleted := 0, 0
	for _, m := range maps {
		lineups, err := client.FetchLineups(ctx, m)
		if errors.Is(err, api.ErrNotFound) {
			Logger.Warn().Str("map", m).Msg("Backend has no lineups for map")
			continue
		}
		if err != nil {
			return fmt.Errorf("error fetching lineups for %s: %w", m, err)
		}

		s, d, err := reconcileMap(store, m, lineups)
		if err != nil {
			return err
		}
		saved += s
		deleted += d

		ev := Logger.Info().Str("map", m).Int("saved", s).Int("deleted", d)
		if version, err := store.Version(m); err != nil {
			Logger.Warn().Err(err).Str("map", m).Msg("Failed to read map version")
		} else {
			ev = ev.Uint64("version", version)
		}
		ev.Msg("Synced map")
	}

	Logger.Info().Int("maps", len(maps)).Int("saved", saved).Int("deleted", deleted).Msg("Sync finished")
	return nil
}

// reconcileMap makes the stored lineups of one map match the backend's list:
// every fetched lineup is saved and stored lineups the backend no longer has
// are deleted.
func reconcileMap(store storage.Backend, mapName string, fetched []core.Lineup) (saved, deleted int, err error) {
	keep := make(map[string]struct{}, len(fetched))
	for i := range fetched {
		fetched[i].Map = mapName
		if err := store.SaveLineup(&fetched[i]); err != nil {
			return saved, deleted, fmt.Errorf("error saving lineup %s: %w", fetched[i].ID, err)
		}
		keep[fetched[i].ID] = struct{}{}
		saved++
	}

	existing, err := store.ListLineups(mapName)
	if err != nil {
		return saved, deleted, fmt.Errorf("error listing lineups for %s: %w", mapName, err)
	}
	for _, l := range existing {
		if _, ok := keep[l.ID]; ok {
			continue
		}
		if err := store.DeleteLineup(l.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return saved, deleted, fmt.Errorf("error deleting lineup %s: %w", l.ID, err)
		}
		deleted++
	}
	return saved, deleted, nil
}

// watchSession follows one practice session until it ends, from polls and,
// when session.push is set, the backend's status stream.
func watchSession(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("no session ID provided")
	}
	id := args[0]

	store := session.NewStore()
	store.Init(core.User{ID: "cli", Name: ServiceName})
	defer store.Teardown()

	unsubscribe := store.Subscribe(func(s session.Snapshot) {
		if s.Status == nil {
			return
		}
		ev := Logger.Info().
			Str("session", s.Status.ID).
			Str("state", string(s.Status.State)).
			Str("map", s.Status.Map)
		if s.Status.State == core.SessionQueued {
			ev = ev.Int("queuePosition", s.Status.QueuePosition)
		}
		if s.Status.ConnectString != "" {
			ev = ev.Str("connect", s.Status.ConnectString)
		}
		ev.Msg("Session status")
	})
	defer unsubscribe()

	client := newAPIClient()
	poller := session.NewPoller(client, store, config.GetDuration("session.pollInterval"), LogManager.Component("session"))

	var push session.PushSource
	if config.GetBool("session.push") {
		push = client
	}
	err := poller.Follow(ctx, id, push)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
