package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/pkg/core"
)

func testKey(mapName string, version uint64) LayoutKey {
	return LayoutKey{Scope: "store", Version: version, Map: mapName, Layer: core.LayerUpper, Resolution: 0.5}
}

func TestLayoutCache_PutAndGet(t *testing.T) {
	c := NewLayoutCache(0)

	layout := Layout{Markers: []core.LineupMarker{{Lineup: core.Lineup{ID: "a"}}}}
	c.Put(testKey("de_mirage", 1), layout)

	got, ok := c.Get(testKey("de_mirage", 1))
	require.True(t, ok)
	assert.Equal(t, "a", got.Markers[0].Lineup.ID)

	_, ok = c.Get(testKey("de_mirage", 2))
	assert.False(t, ok, "different version must miss")

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestLayoutCache_LayerIsPartOfKey(t *testing.T) {
	c := NewLayoutCache(0)
	key := testKey("de_nuke", 1)
	c.Put(key, Layout{})

	key.Layer = core.LayerLower
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestLayoutCache_ResolutionIsPartOfKey(t *testing.T) {
	c := NewLayoutCache(0)
	key := testKey("de_mirage", 1)
	c.Put(key, Layout{})

	key.Resolution = 0.01
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestLayoutCache_FlushesWhenFull(t *testing.T) {
	c := NewLayoutCache(2)

	c.Put(testKey("a", 1), Layout{})
	c.Put(testKey("b", 1), Layout{})
	assert.Equal(t, 2, c.Len())

	// overwriting an existing key does not flush
	c.Put(testKey("b", 1), Layout{})
	assert.Equal(t, 2, c.Len())

	c.Put(testKey("c", 1), Layout{})
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(testKey("c", 1))
	assert.True(t, ok)
}

func TestLayoutCache_Reset(t *testing.T) {
	c := NewLayoutCache(0)
	c.Put(testKey("de_mirage", 1), Layout{})
	c.Get(testKey("de_mirage", 1))

	c.Reset()

	assert.Equal(t, 0, c.Len())
	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestLayoutCache_Concurrent(t *testing.T) {
	c := NewLayoutCache(0)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			c.Put(testKey("de_mirage", v), Layout{})
			c.Get(testKey("de_mirage", v))
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	hits, misses := c.Stats()
	assert.Equal(t, 50, hits)
	assert.Equal(t, 0, misses)
}
