package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nadelab/radar/pkg/core"
)

// ErrInactive is returned by Run when the store is torn down mid-poll.
var ErrInactive = errors.New("session store is inactive")

// Source fetches session status from the backend.
type Source interface {
	GetSession(ctx context.Context, id string) (core.SessionStatus, error)
}

// Poller feeds a Store from periodic backend requests.
type Poller struct {
	src      Source
	store    *Store
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller creates a poller. A non-positive interval means five seconds.
func NewPoller(src Source, store *Store, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{src: src, store: store, interval: interval, log: log}
}

// Run polls session id until it reaches a terminal state, the store is torn
// down, or ctx is cancelled. Fetch errors are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context, id string) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if !p.store.Active() {
			return ErrInactive
		}

		status, err := p.src.GetSession(ctx, id)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			p.log.Warn().Err(err).Str("session", id).Msg("Session poll failed")
		default:
			if p.store.Apply(status) {
				p.log.Debug().Str("session", id).Str("state", string(status.State)).
					Uint64("version", status.Version).Msg("Session status updated")
			}
			if status.State.Terminal() {
				return nil
			}
		}
		if p.ended(id) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ended reports whether the store already holds a terminal status for id,
// which a push may have delivered ahead of the poll.
func (p *Poller) ended(id string) bool {
	cur := p.store.Current().Status
	return cur != nil && cur.ID == id && cur.State.Terminal()
}

// PushSource streams session status changes as the backend makes them.
type PushSource interface {
	WatchSession(ctx context.Context, id string, fn func(core.SessionStatus)) error
}

// Follow runs Run while push, when non-nil, feeds the same store. Polling and
// pushes go through Apply, so whichever carries the newer version wins. A
// failed push stream is logged and polling carries on alone.
func (p *Poller) Follow(ctx context.Context, id string, push PushSource) error {
	if push == nil {
		return p.Run(ctx, id)
	}

	pushCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := push.WatchSession(pushCtx, id, func(status core.SessionStatus) {
			if p.store.Apply(status) {
				p.log.Debug().Str("session", id).Str("state", string(status.State)).
					Uint64("version", status.Version).Msg("Session status pushed")
			}
		})
		if err != nil && pushCtx.Err() == nil {
			p.log.Warn().Err(err).Str("session", id).Msg("Session push stream failed, polling only")
		}
	}()

	err := p.Run(ctx, id)
	cancel()
	<-done
	return err
}
