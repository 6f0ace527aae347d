// Package calibration holds the per-map radar calibration table.
package calibration

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/nadelab/radar/pkg/core"
	"gopkg.in/yaml.v3"
)

// radarImageSize is the pixel width and height of every radar image.
const radarImageSize = 1024

// overview describes a map the way the game's radar overview files do:
// the world position of the image's top-left corner and world units per pixel.
type overview struct {
	name    string
	display string
	posX    float64
	posY    float64
	scale   float64
	lower   bool
	zSplit  float64
}

var builtin = []overview{
	{name: "de_mirage", display: "Mirage", posX: -3230, posY: 1713, scale: 5.0},
	{name: "de_inferno", display: "Inferno", posX: -2087, posY: 3870, scale: 4.9},
	{name: "de_dust2", display: "Dust II", posX: -2476, posY: 3239, scale: 4.4},
	{name: "de_nuke", display: "Nuke", posX: -3453, posY: 2887, scale: 7.0, lower: true, zSplit: -495},
	{name: "de_vertigo", display: "Vertigo", posX: -3168, posY: 1762, scale: 4.0, lower: true, zSplit: 11700},
	{name: "de_ancient", display: "Ancient", posX: -2953, posY: 2164, scale: 5.0},
	{name: "de_anubis", display: "Anubis", posX: -2796, posY: 3328, scale: 5.22},
	{name: "de_overpass", display: "Overpass", posX: -4831, posY: 1781, scale: 5.2},
	{name: "de_train", display: "Train", posX: -2308, posY: 2078, scale: 4.082077, lower: true, zSplit: -50},
}

// FromOverview converts overview parameters into a percentage calibration.
// Image Y grows downwards while world Y grows north, so the result inverts Y.
func FromOverview(name string, posX, posY, unitsPerPixel float64) core.MapCalibration {
	scale := 100 / (radarImageSize * unitsPerPixel)
	return core.MapCalibration{
		Name:    name,
		Image:   fmt.Sprintf("/radars/%s.png", name),
		Scale:   scale,
		OffsetX: -posX * scale,
		OffsetY: posY * scale,
		InvertY: true,
	}
}

// Table is a lookup of calibrations keyed by map identifier.
type Table struct {
	mu   sync.RWMutex
	maps map[string]core.MapCalibration
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{maps: make(map[string]core.MapCalibration)}
}

// Default returns a table populated with the built-in active duty maps.
func Default() *Table {
	t := NewTable()
	for _, o := range builtin {
		cal := FromOverview(o.name, o.posX, o.posY, o.scale)
		cal.DisplayName = o.display
		if o.lower {
			cal.LowerImage = fmt.Sprintf("/radars/%s_lower.png", o.name)
			cal.ZSplit = o.zSplit
		}
		t.maps[o.name] = cal
	}
	return t
}

// Lookup returns the calibration for a map.
func (t *Table) Lookup(name string) (core.MapCalibration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cal, ok := t.maps[name]
	return cal, ok
}

// Set adds or replaces a calibration.
func (t *Table) Set(cal core.MapCalibration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maps[cal.Name] = cal
}

// Names returns all map identifiers in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.maps))
	for name := range t.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every calibration sorted by map name.
func (t *Table) All() []core.MapCalibration {
	names := t.Names()
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.MapCalibration, 0, len(names))
	for _, name := range names {
		out = append(out, t.maps[name])
	}
	return out
}

// overrideFile is the YAML layout accepted by LoadOverrides.
// An entry either gives overview parameters (posX/posY/unitsPerPixel)
// or a ready calibration (scale/offsetX/offsetY).
type overrideFile struct {
	Maps []overrideEntry `yaml:"maps"`
}

type overrideEntry struct {
	core.MapCalibration `yaml:",inline"`

	PosX          *float64 `yaml:"posX"`
	PosY          *float64 `yaml:"posY"`
	UnitsPerPixel float64  `yaml:"unitsPerPixel"`
}

// LoadOverrides merges calibrations from a YAML file into the table.
func (t *Table) LoadOverrides(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read calibration overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse calibration overrides: %w", err)
	}

	for i, entry := range file.Maps {
		if entry.Name == "" {
			return i, fmt.Errorf("calibration override %d has no name", i)
		}
		cal := entry.MapCalibration
		if entry.PosX != nil && entry.PosY != nil {
			if entry.UnitsPerPixel <= 0 {
				return i, fmt.Errorf("calibration override %q: unitsPerPixel must be positive", entry.Name)
			}
			derived := FromOverview(entry.Name, *entry.PosX, *entry.PosY, entry.UnitsPerPixel)
			derived.DisplayName = cal.DisplayName
			derived.LowerImage = cal.LowerImage
			derived.ZSplit = cal.ZSplit
			if cal.Image != "" {
				derived.Image = cal.Image
			}
			cal = derived
		} else if cal.Scale == 0 {
			return i, fmt.Errorf("calibration override %q: scale must be set", entry.Name)
		}
		if cal.Image == "" {
			cal.Image = fmt.Sprintf("/radars/%s.png", cal.Name)
		}
		t.Set(cal)
	}
	return len(file.Maps), nil
}
