// internal/storage/memory/memory_test.go
package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/internal/storage/storagetest"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*Backend)(nil)

func TestBackend(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		b := New()
		require.NoError(t, b.Init())
		t.Cleanup(func() { b.Close() })
		return b
	})
}

func TestGetLineup_ReturnsCopy(t *testing.T) {
	b := New()
	l := storagetest.Lineup("a", "de_mirage", time.Now())
	require.NoError(t, b.SaveLineup(&l))

	got, err := b.GetLineup("a")
	require.NoError(t, err)
	got.Tags[0] = "mutated"

	again, err := b.GetLineup("a")
	require.NoError(t, err)
	assert.Equal(t, "window", again.Tags[0])
}

func TestConcurrentSaves(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := storagetest.Lineup("", "de_mirage", time.Time{})
			assert.NoError(t, b.SaveLineup(&l))
		}()
	}
	wg.Wait()

	all, err := b.ListLineups("de_mirage")
	require.NoError(t, err)
	assert.Len(t, all, 50)
	v, err := b.Version("de_mirage")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), v)
}
