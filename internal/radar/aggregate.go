package radar

import (
	"math"
	"sort"

	"github.com/nadelab/radar/pkg/core"
)

// GridKeyFor returns the grid cell a radar position rounds to.
func GridKeyFor(pos core.RadarPosition, resolution float64) core.GridKey {
	return core.GridKey{
		X: int64(math.Round(pos.X / resolution)),
		Y: int64(math.Round(pos.Y / resolution)),
	}
}

// Group buckets markers by the grid cell their throw position rounds to.
// Grenade type is ignored. The result does not depend on input order: members
// are ordered by lineup ID and groups by cell (row, then column), and a group's
// position is its first member's throw position.
func Group(markers []core.LineupMarker, resolution float64) []core.MarkerGroup {
	if resolution <= 0 {
		resolution = DefaultOptions().GridResolution
	}

	sorted := make([]core.LineupMarker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Lineup.ID != b.Lineup.ID {
			return a.Lineup.ID < b.Lineup.ID
		}
		if a.ThrowRadar.X != b.ThrowRadar.X {
			return a.ThrowRadar.X < b.ThrowRadar.X
		}
		return a.ThrowRadar.Y < b.ThrowRadar.Y
	})

	index := make(map[core.GridKey]int)
	var groups []core.MarkerGroup
	for _, m := range sorted {
		key := GridKeyFor(m.ThrowRadar, resolution)
		if i, ok := index[key]; ok {
			groups[i].Members = append(groups[i].Members, m)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, core.MarkerGroup{
			Key:      key,
			Position: m.ThrowRadar,
			Members:  []core.LineupMarker{m},
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key.Y != groups[j].Key.Y {
			return groups[i].Key.Y < groups[j].Key.Y
		}
		return groups[i].Key.X < groups[j].Key.X
	})
	return groups
}

// FindGroup returns the group occupying key.
func FindGroup(groups []core.MarkerGroup, key core.GridKey) (core.MarkerGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return core.MarkerGroup{}, false
}

// PopupEntry is one row of a group's disambiguation popup.
type PopupEntry struct {
	LineupID   string           `json:"lineupId"`
	Name       string           `json:"name"`
	Grenade    core.GrenadeType `json:"grenade"`
	Color      string           `json:"color"`
	ThrowLabel string           `json:"throwLabel"`
}

// PopupEntries lists a group's members for the disambiguation popup.
func PopupEntries(g core.MarkerGroup) []PopupEntry {
	entries := make([]PopupEntry, 0, len(g.Members))
	for _, m := range g.Members {
		entries = append(entries, PopupEntry{
			LineupID:   m.Lineup.ID,
			Name:       m.Lineup.Name,
			Grenade:    m.Lineup.Grenade,
			Color:      m.Lineup.Grenade.Color(),
			ThrowLabel: m.Lineup.Throw.Label(),
		})
	}
	return entries
}

// Popup tracks which group's disambiguation popup is open. At most one is open.
type Popup struct {
	key  core.GridKey
	open bool
}

// Toggle opens the popup for key, closing any other; toggling the open one closes it.
func (p *Popup) Toggle(key core.GridKey) {
	if p.open && p.key == key {
		p.Close()
		return
	}
	p.Open(key)
}

// Open shows the popup for key.
func (p *Popup) Open(key core.GridKey) {
	p.key = key
	p.open = true
}

// Close hides the popup.
func (p *Popup) Close() {
	p.open = false
	p.key = core.GridKey{}
}

// Current returns the open group's key.
func (p *Popup) Current() (core.GridKey, bool) {
	return p.key, p.open
}

// IsOpen reports whether key's popup is the open one.
func (p *Popup) IsOpen(key core.GridKey) bool {
	return p.open && p.key == key
}
