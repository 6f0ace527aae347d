// pkg/core/types.go
package core

// Position3D is a game-engine world coordinate.
// Z is only used for layer selection and display, never for projection.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RadarPosition is a percentage offset within the radar image.
// In-bounds world coordinates land in [0,100]; anything else is simply off-image.
type RadarPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layer selects the radar level on maps with stacked levels.
type Layer string

const (
	LayerUpper Layer = "upper"
	LayerLower Layer = "lower"
)

// ParseLayer maps a query value to a Layer, defaulting to the upper level.
func ParseLayer(s string) Layer {
	if Layer(s) == LayerLower {
		return LayerLower
	}
	return LayerUpper
}

// ViewportState is the zoom and pan of a radar surface.
type ViewportState struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}
