// internal/storage/memory/memory.go
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/pkg/core"
)

// Backend keeps lineups in memory. Nothing survives a restart.
type Backend struct {
	lineups  map[string]core.Lineup // keyed by lineup ID
	versions map[string]uint64      // keyed by map name
	now      func() time.Time
	mu       sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		lineups:  make(map[string]core.Lineup),
		versions: make(map[string]uint64),
		now:      time.Now,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveLineup inserts or replaces a lineup
func (b *Backend) SaveLineup(l *core.Lineup) error {
	if err := storage.Prepare(l, b.now()); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.lineups[l.ID]; ok && prev.Map != l.Map {
		b.versions[prev.Map]++
	}
	b.lineups[l.ID] = clone(*l)
	b.versions[l.Map]++
	return nil
}

// GetLineup returns a lineup by ID
func (b *Backend) GetLineup(id string) (core.Lineup, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	l, ok := b.lineups[id]
	if !ok {
		return core.Lineup{}, storage.ErrNotFound
	}
	return clone(l), nil
}

// ListLineups returns the lineups of one map, oldest first
func (b *Backend) ListLineups(mapName string) ([]core.Lineup, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.Lineup, 0)
	for _, l := range b.lineups {
		if l.Map == mapName {
			out = append(out, clone(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteLineup removes a lineup
func (b *Backend) DeleteLineup(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lineups[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(b.lineups, id)
	b.versions[l.Map]++
	return nil
}

// Version returns the change counter of a map
func (b *Backend) Version(mapName string) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.versions[mapName], nil
}

// clone copies the tag slice so callers can't alias stored state.
func clone(l core.Lineup) core.Lineup {
	if l.Tags != nil {
		l.Tags = append([]string(nil), l.Tags...)
	}
	return l
}
