// Package storagetest holds behaviour tests shared by every storage.Backend.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/pkg/core"
)

// Lineup builds a valid lineup for map m.
func Lineup(id, m string, created time.Time) core.Lineup {
	return core.Lineup{
		ID:         id,
		Map:        m,
		Name:       "Lineup " + id,
		Grenade:    core.GrenadeSmoke,
		Throw:      core.ThrowJump,
		ThrowPos:   core.Position3D{X: 100, Y: 200, Z: -160},
		LandingPos: core.Position3D{X: -300, Y: 400, Z: -100},
		Tags:       []string{"window"},
		CreatedAt:  created,
	}
}

// Run exercises b. newBackend must return a fresh, initialized backend.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("a", "de_mirage", base)
		require.NoError(t, b.SaveLineup(&l))

		got, err := b.GetLineup("a")
		require.NoError(t, err)
		assert.Equal(t, l.Name, got.Name)
		assert.Equal(t, l.ThrowPos, got.ThrowPos)
		assert.Equal(t, l.LandingPos, got.LandingPos)
		assert.Equal(t, []string{"window"}, got.Tags)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("save assigns id", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("", "de_mirage", time.Time{})
		require.NoError(t, b.SaveLineup(&l))
		assert.NotEmpty(t, l.ID)
		assert.False(t, l.CreatedAt.IsZero())

		_, err := b.GetLineup(l.ID)
		assert.NoError(t, err)
	})

	t.Run("invalid lineup", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("x", "", base)
		assert.ErrorIs(t, b.SaveLineup(&l), storage.ErrInvalidLineup)
	})

	t.Run("get missing", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.GetLineup("nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list by map in creation order", func(t *testing.T) {
		b := newBackend(t)
		for i, id := range []string{"c", "a", "b"} {
			l := Lineup(id, "de_mirage", base.Add(time.Duration(2-i)*time.Minute))
			require.NoError(t, b.SaveLineup(&l))
		}
		other := Lineup("z", "de_nuke", base)
		require.NoError(t, b.SaveLineup(&other))

		got, err := b.ListLineups("de_mirage")
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, l := range got {
			ids = append(ids, l.ID)
		}
		assert.Equal(t, []string{"b", "a", "c"}, ids)

		empty, err := b.ListLineups("de_vertigo")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update replaces", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("a", "de_mirage", base)
		require.NoError(t, b.SaveLineup(&l))
		l.Name = "Renamed"
		l.Tags = nil
		require.NoError(t, b.SaveLineup(&l))

		got, err := b.GetLineup("a")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Empty(t, got.Tags)

		all, err := b.ListLineups("de_mirage")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("a", "de_mirage", base)
		require.NoError(t, b.SaveLineup(&l))

		require.NoError(t, b.DeleteLineup("a"))
		_, err := b.GetLineup("a")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, b.DeleteLineup("a"), storage.ErrNotFound)
	})

	t.Run("version counts changes per map", func(t *testing.T) {
		b := newBackend(t)
		v, err := b.Version("de_mirage")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), v)

		a := Lineup("a", "de_mirage", base)
		require.NoError(t, b.SaveLineup(&a))
		v1, err := b.Version("de_mirage")
		require.NoError(t, err)
		assert.Greater(t, v1, v)

		n := Lineup("n", "de_nuke", base)
		require.NoError(t, b.SaveLineup(&n))
		same, err := b.Version("de_mirage")
		require.NoError(t, err)
		assert.Equal(t, v1, same, "other maps do not bump the counter")

		require.NoError(t, b.DeleteLineup("a"))
		v2, err := b.Version("de_mirage")
		require.NoError(t, err)
		assert.Greater(t, v2, v1)
	})

	t.Run("moving a lineup bumps both maps", func(t *testing.T) {
		b := newBackend(t)
		l := Lineup("a", "de_mirage", base)
		require.NoError(t, b.SaveLineup(&l))
		mirage, _ := b.Version("de_mirage")

		l.Map = "de_inferno"
		require.NoError(t, b.SaveLineup(&l))

		after, err := b.Version("de_mirage")
		require.NoError(t, err)
		assert.Greater(t, after, mirage)
		inferno, err := b.Version("de_inferno")
		require.NoError(t, err)
		assert.Greater(t, inferno, uint64(0))

		left, err := b.ListLineups("de_mirage")
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
