package radar

import (
	"math"

	"github.com/nadelab/radar/pkg/core"
)

// LabelPosition places the selected lineup's name label. The label sits
// LabelOffset points from the throw position, opposite the throw direction,
// clamped into the visible label bounds.
func LabelPosition(throw, landing core.RadarPosition, opts Options) core.RadarPosition {
	opts = opts.normalized()

	dx := landing.X - throw.X
	dy := landing.Y - throw.Y
	var ux, uy float64
	if length := math.Hypot(dx, dy); length > 0 {
		ux, uy = dx/length, dy/length
	}

	return core.RadarPosition{
		X: clamp(throw.X-ux*opts.LabelOffset, opts.LabelMinX, opts.LabelMaxX),
		Y: clamp(throw.Y-uy*opts.LabelOffset, opts.LabelMinY, opts.LabelMaxY),
	}
}
