// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nadelab/radar/internal/geo"
	"github.com/nadelab/radar/pkg/core"
)

var (
	// ErrNotFound is returned when a lineup does not exist.
	ErrNotFound = errors.New("lineup not found")
	// ErrInvalidLineup is returned when a lineup cannot be stored.
	ErrInvalidLineup = errors.New("invalid lineup")
)

// Backend is the interface all lineup stores must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveLineup inserts or replaces a lineup. A missing ID or creation time
	// is filled in on the passed pointer.
	SaveLineup(l *core.Lineup) error
	GetLineup(id string) (core.Lineup, error)
	// ListLineups returns a map's lineups oldest first.
	ListLineups(mapName string) ([]core.Lineup, error)
	DeleteLineup(id string) error

	// Version is a per-map counter bumped by every change to that map's
	// lineups. Zero means the map was never written.
	Version(mapName string) (uint64, error)
}

// Prepare validates a lineup and fills in its ID and creation time. A lineup
// shared only as a setpos console command gets its throw position from it.
func Prepare(l *core.Lineup, now time.Time) error {
	if l.Map == "" {
		return fmt.Errorf("%w: map is required", ErrInvalidLineup)
	}
	if l.Grenade != "" && !l.Grenade.Valid() {
		return fmt.Errorf("%w: unknown grenade %q", ErrInvalidLineup, l.Grenade)
	}
	if l.ThrowPos == (core.Position3D{}) && l.Setpos != "" {
		sp, err := geo.ParseSetpos(l.Setpos)
		if err != nil {
			return fmt.Errorf("%w: setpos %q: %v", ErrInvalidLineup, l.Setpos, err)
		}
		l.ThrowPos = sp.Position
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now.UTC()
	}
	return nil
}
