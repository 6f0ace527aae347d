// Package radar projects lineups onto calibrated radar images and tracks the
// interaction state of a radar surface: marker grouping, popup, zoom and pan.
// Everything here is synchronous and owned by a single caller.
package radar

// Options holds the tunable constants of the radar engine.
type Options struct {
	// GridResolution is the size, in radar percentage points, of the cell
	// markers are bucketed into for grouping.
	GridResolution float64

	// LabelOffset is how far, in radar percentage points, the selected
	// lineup's label sits from the throw position, opposite the throw direction.
	LabelOffset float64
	LabelMinX   float64
	LabelMaxX   float64
	LabelMinY   float64
	LabelMaxY   float64

	ZoomStep float64
	MinZoom  float64
	MaxZoom  float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		GridResolution: 0.5,
		LabelOffset:    4,
		LabelMinX:      8,
		LabelMaxX:      92,
		LabelMinY:      3,
		LabelMaxY:      97,
		ZoomStep:       0.15,
		MinZoom:        0.5,
		MaxZoom:        3.0,
	}
}

// normalized fills unset or nonsensical values from DefaultOptions.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.GridResolution <= 0 {
		o.GridResolution = d.GridResolution
	}
	if o.LabelOffset <= 0 {
		o.LabelOffset = d.LabelOffset
	}
	if o.LabelMaxX <= o.LabelMinX {
		o.LabelMinX, o.LabelMaxX = d.LabelMinX, d.LabelMaxX
	}
	if o.LabelMaxY <= o.LabelMinY {
		o.LabelMinY, o.LabelMaxY = d.LabelMinY, d.LabelMaxY
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = d.ZoomStep
	}
	// the viewport starts and resets at zoom 1, so the range must contain it
	if o.MinZoom <= 0 || o.MinZoom > 1 || o.MaxZoom < 1 {
		o.MinZoom, o.MaxZoom = d.MinZoom, d.MaxZoom
	}
	return o
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
