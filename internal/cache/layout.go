package cache

import (
	"sync"
	"sync/atomic"

	"github.com/nadelab/radar/pkg/core"
)

// DefaultMaxLayouts bounds how many projected layouts are kept before the cache is flushed.
const DefaultMaxLayouts = 256

// LayoutKey identifies one projection pass: a lineup list version drawn on one
// map layer and grouped at one grid resolution.
type LayoutKey struct {
	Scope      string
	Version    uint64
	Map        string
	Layer      core.Layer
	Resolution float64
}

// Layout is the memoized result of projecting and grouping a lineup list.
type Layout struct {
	Markers []core.LineupMarker
	Groups  []core.MarkerGroup
}

// LayoutCache memoizes projection and grouping so repeated renders with unchanged
// inputs skip recomputation. Safe for use by many surfaces at once.
type LayoutCache struct {
	mu      sync.RWMutex
	max     int
	layouts map[LayoutKey]Layout
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewLayoutCache creates a cache holding at most max layouts. max <= 0 uses DefaultMaxLayouts.
func NewLayoutCache(max int) *LayoutCache {
	if max <= 0 {
		max = DefaultMaxLayouts
	}
	return &LayoutCache{
		max:     max,
		layouts: make(map[LayoutKey]Layout),
	}
}

// Get retrieves a memoized layout.
func (c *LayoutCache) Get(key LayoutKey) (Layout, bool) {
	c.mu.RLock()
	l, ok := c.layouts[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return l, ok
}

// Put stores a layout. When the cache is full it is flushed first.
func (c *LayoutCache) Put(key LayoutKey, l Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.layouts[key]; !exists && len(c.layouts) >= c.max {
		c.layouts = make(map[LayoutKey]Layout)
	}
	c.layouts[key] = l
}

// Len returns the number of memoized layouts.
func (c *LayoutCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layouts)
}

// Reset clears all layouts and counters.
func (c *LayoutCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts = make(map[LayoutKey]Layout)
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns hit and miss counts since creation or the last Reset.
func (c *LayoutCache) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
