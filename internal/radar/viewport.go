package radar

import (
	"fmt"
	"math"

	"github.com/nadelab/radar/pkg/core"
)

// Viewport tracks zoom and pan of a radar surface from pointer and wheel input.
// Pan is never clamped, so the image can be dragged fully out of view.
type Viewport struct {
	step    float64
	minZoom float64
	maxZoom float64

	state    core.ViewportState
	disabled bool

	dragging   bool
	dragStartX float64
	dragStartY float64
	panStartX  float64
	panStartY  float64
}

// NewViewport creates a viewport at zoom 1 with no pan.
func NewViewport(opts Options) *Viewport {
	opts = opts.normalized()
	return &Viewport{
		step:    opts.ZoomStep,
		minZoom: opts.MinZoom,
		maxZoom: opts.MaxZoom,
		state:   core.ViewportState{Zoom: 1},
	}
}

// SetDisabled turns zoom and pan input off, as in compact preview mode.
// Disabling cancels an active drag.
func (v *Viewport) SetDisabled(disabled bool) {
	v.disabled = disabled
	if disabled {
		v.dragging = false
	}
}

// Disabled reports whether input is ignored.
func (v *Viewport) Disabled() bool {
	return v.disabled
}

// ZoomIn increases zoom by one step. Returns false when input is disabled.
func (v *Viewport) ZoomIn() bool {
	return v.zoomBy(v.step)
}

// ZoomOut decreases zoom by one step. Returns false when input is disabled.
func (v *Viewport) ZoomOut() bool {
	return v.zoomBy(-v.step)
}

// Wheel applies a mouse wheel event: scrolling up (negative delta) zooms in.
// The return value tells the caller whether to prevent the page from scrolling.
func (v *Viewport) Wheel(deltaY float64) bool {
	if v.disabled {
		return false
	}
	switch {
	case deltaY < 0:
		v.zoomBy(v.step)
	case deltaY > 0:
		v.zoomBy(-v.step)
	}
	return true
}

func (v *Viewport) zoomBy(delta float64) bool {
	if v.disabled {
		return false
	}
	// round to avoid drift, so that in/out pairs land back on exactly 1.0
	z := math.Round((v.state.Zoom+delta)*1000) / 1000
	v.state.Zoom = clamp(z, v.minZoom, v.maxZoom)
	return true
}

// Reset restores zoom 1 and zero pan, regardless of prior state.
func (v *Viewport) Reset() {
	v.state = core.ViewportState{Zoom: 1}
	v.dragging = false
}

// BeginDrag starts panning at the given pointer position (screen pixels).
func (v *Viewport) BeginDrag(x, y float64) bool {
	if v.disabled {
		return false
	}
	v.dragging = true
	v.dragStartX, v.dragStartY = x, y
	v.panStartX, v.panStartY = v.state.PanX, v.state.PanY
	return true
}

// DragTo moves the pan by the pointer delta since BeginDrag. Ignored unless dragging.
func (v *Viewport) DragTo(x, y float64) bool {
	if v.disabled || !v.dragging {
		return false
	}
	v.state.PanX = v.panStartX + (x - v.dragStartX)
	v.state.PanY = v.panStartY + (y - v.dragStartY)
	return true
}

// EndDrag stops panning. The pan offset is kept.
func (v *Viewport) EndDrag() {
	v.dragging = false
}

// Dragging reports whether a drag is in progress.
func (v *Viewport) Dragging() bool {
	return v.dragging
}

// State returns the current zoom and pan.
func (v *Viewport) State() core.ViewportState {
	return v.state
}

// ShowReset reports whether the reset control should be visible.
func (v *Viewport) ShowReset() bool {
	return !v.disabled && v.state.Zoom != 1
}

// Transform renders a viewport state as a CSS transform.
func Transform(s core.ViewportState) string {
	zoom := s.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return fmt.Sprintf("scale(%g) translate(%gpx, %gpx)", zoom, s.PanX/zoom, s.PanY/zoom)
}
