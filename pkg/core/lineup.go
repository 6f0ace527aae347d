// pkg/core/lineup.go
package core

import "time"

// GrenadeType is the utility thrown by a lineup.
type GrenadeType string

const (
	GrenadeSmoke   GrenadeType = "smoke"
	GrenadeFlash   GrenadeType = "flash"
	GrenadeMolotov GrenadeType = "molotov"
	GrenadeHE      GrenadeType = "he"
	GrenadeDecoy   GrenadeType = "decoy"
)

var grenadeColors = map[GrenadeType]string{
	GrenadeSmoke:   "#9ca3af",
	GrenadeFlash:   "#facc15",
	GrenadeMolotov: "#f97316",
	GrenadeHE:      "#ef4444",
	GrenadeDecoy:   "#a78bfa",
}

// Color returns the marker swatch colour for the grenade.
func (g GrenadeType) Color() string {
	if c, ok := grenadeColors[g]; ok {
		return c
	}
	return "#ffffff"
}

// Valid reports whether g is a known grenade type.
func (g GrenadeType) Valid() bool {
	_, ok := grenadeColors[g]
	return ok
}

// ThrowType describes the input used to release the grenade.
type ThrowType string

const (
	ThrowLeftClick    ThrowType = "left_click"
	ThrowRightClick   ThrowType = "right_click"
	ThrowBothClick    ThrowType = "both_click"
	ThrowJump         ThrowType = "jump_throw"
	ThrowRunJump      ThrowType = "run_jump_throw"
	ThrowWalkJump     ThrowType = "walk_jump_throw"
	ThrowRunLeftClick ThrowType = "run_left_click"
)

var throwLabels = map[ThrowType]string{
	ThrowLeftClick:    "Left click",
	ThrowRightClick:   "Right click",
	ThrowBothClick:    "Left + right click",
	ThrowJump:         "Jump throw",
	ThrowRunJump:      "Run jump throw",
	ThrowWalkJump:     "Walk jump throw",
	ThrowRunLeftClick: "Run + left click",
}

// Label returns a human readable throw description. Unknown values are shown as-is.
func (t ThrowType) Label() string {
	if l, ok := throwLabels[t]; ok {
		return l
	}
	return string(t)
}

// Lineup is a saved grenade throw for a specific map.
type Lineup struct {
	ID         string      `json:"id"`
	Map        string      `json:"map"`
	Name       string      `json:"name"`
	Grenade    GrenadeType `json:"grenade"`
	Throw      ThrowType   `json:"throw"`
	ThrowPos   Position3D  `json:"throwPos"`
	LandingPos Position3D  `json:"landingPos"`
	Setpos     string      `json:"setpos,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Pro        bool        `json:"pro"`
	Author     string      `json:"author,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// LineupMarker is a lineup projected onto a radar. Derived, never persisted.
type LineupMarker struct {
	Lineup       Lineup        `json:"lineup"`
	ThrowRadar   RadarPosition `json:"throwRadar"`
	LandingRadar RadarPosition `json:"landingRadar"`
}

// GridKey is the coarse radar cell a marker group occupies.
type GridKey struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// MarkerGroup is a set of markers coincident enough to share one dot.
type MarkerGroup struct {
	Key      GridKey        `json:"key"`
	Position RadarPosition  `json:"position"`
	Members  []LineupMarker `json:"members"`
}

// Badge is the count shown next to the dot, zero for single-member groups.
func (g MarkerGroup) Badge() int {
	if len(g.Members) < 2 {
		return 0
	}
	return len(g.Members)
}

// SelectionEvent is emitted when the user picks a lineup on the radar.
type SelectionEvent struct {
	LineupID string `json:"lineupId"`
	Lineup   Lineup `json:"lineup"`
	Source   string `json:"source"`
}

const (
	SelectionSourceMarker = "marker"
	SelectionSourcePopup  = "popup"
)
