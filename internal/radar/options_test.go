package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_NormalizedZoomRange(t *testing.T) {
	d := DefaultOptions()
	tests := []struct {
		name     string
		min, max float64
		wantMin  float64
		wantMax  float64
	}{
		{name: "defaults kept", min: 0.5, max: 3, wantMin: 0.5, wantMax: 3},
		{name: "one is a valid bound", min: 1, max: 1, wantMin: 1, wantMax: 1},
		{name: "unset", min: 0, max: 0, wantMin: d.MinZoom, wantMax: d.MaxZoom},
		{name: "inverted", min: 2, max: 0.5, wantMin: d.MinZoom, wantMax: d.MaxZoom},
		{name: "min above one", min: 1.5, max: 4, wantMin: d.MinZoom, wantMax: d.MaxZoom},
		{name: "max below one", min: 0.2, max: 0.8, wantMin: d.MinZoom, wantMax: d.MaxZoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			o.MinZoom, o.MaxZoom = tt.min, tt.max
			n := o.normalized()
			assert.Equal(t, tt.wantMin, n.MinZoom)
			assert.Equal(t, tt.wantMax, n.MaxZoom)
		})
	}
}

func TestViewport_StartsInsideNormalizedRange(t *testing.T) {
	o := DefaultOptions()
	o.MinZoom, o.MaxZoom = 1.5, 4
	v := NewViewport(o)

	assert.Equal(t, 1.0, v.State().Zoom)
	v.ZoomOut()
	assert.Equal(t, 0.85, v.State().Zoom)
}

func TestOptions_NormalizedLabelBounds(t *testing.T) {
	o := DefaultOptions()
	o.LabelMinX, o.LabelMaxX = 20, 10
	o.LabelMinY, o.LabelMaxY = 5, 95
	n := o.normalized()

	assert.Equal(t, 8.0, n.LabelMinX)
	assert.Equal(t, 92.0, n.LabelMaxX)
	assert.Equal(t, 5.0, n.LabelMinY)
	assert.Equal(t, 95.0, n.LabelMaxY)
}
