package radar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/pkg/core"
)

func TestViewport_Defaults(t *testing.T) {
	v := NewViewport(DefaultOptions())

	assert.Equal(t, core.ViewportState{Zoom: 1}, v.State())
	assert.False(t, v.ShowReset())
	assert.False(t, v.Dragging())
}

func TestViewport_ZoomSteps(t *testing.T) {
	v := NewViewport(DefaultOptions())

	require.True(t, v.ZoomIn())
	assert.Equal(t, 1.15, v.State().Zoom)
	assert.True(t, v.ShowReset())

	v.ZoomOut()
	assert.Equal(t, 1.0, v.State().Zoom)
	assert.False(t, v.ShowReset())

	v.ZoomOut()
	v.ZoomOut()
	assert.Equal(t, 0.7, v.State().Zoom)
}

func TestViewport_ZoomAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	v := NewViewport(DefaultOptions())

	for i := 0; i < 1000; i++ {
		switch rng.Intn(3) {
		case 0:
			v.ZoomIn()
		case 1:
			v.ZoomOut()
		default:
			v.Wheel(rng.Float64()*200 - 100)
		}
		z := v.State().Zoom
		require.GreaterOrEqual(t, z, 0.5)
		require.LessOrEqual(t, z, 3.0)
	}
}

func TestViewport_ZoomBounds(t *testing.T) {
	v := NewViewport(DefaultOptions())
	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, 3.0, v.State().Zoom)

	for i := 0; i < 50; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, 0.5, v.State().Zoom)
}

func TestViewport_Wheel(t *testing.T) {
	v := NewViewport(DefaultOptions())

	assert.True(t, v.Wheel(-120), "wheel input prevents page scroll")
	assert.Equal(t, 1.15, v.State().Zoom)

	v.Wheel(120)
	v.Wheel(120)
	assert.Equal(t, 0.85, v.State().Zoom)

	v.Wheel(0)
	assert.Equal(t, 0.85, v.State().Zoom)
}

func TestViewport_Drag(t *testing.T) {
	v := NewViewport(DefaultOptions())

	assert.False(t, v.DragTo(50, 50), "no pan without a held button")
	assert.Equal(t, 0.0, v.State().PanX)

	require.True(t, v.BeginDrag(100, 100))
	v.DragTo(120, 95)
	v.DragTo(130, 90)
	assert.Equal(t, 30.0, v.State().PanX)
	assert.Equal(t, -10.0, v.State().PanY)
	v.EndDrag()
	assert.False(t, v.Dragging())

	// second drag accumulates onto the pan captured at its start
	v.BeginDrag(0, 0)
	v.DragTo(10, 10)
	assert.Equal(t, core.ViewportState{Zoom: 1, PanX: 40, PanY: 0}, v.State())
}

func TestViewport_PanIsUnbounded(t *testing.T) {
	v := NewViewport(DefaultOptions())
	v.BeginDrag(0, 0)
	v.DragTo(-100000, 100000)

	assert.Equal(t, -100000.0, v.State().PanX)
	assert.Equal(t, 100000.0, v.State().PanY)
}

func TestViewport_ResetFromAnyState(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		v := NewViewport(DefaultOptions())
		for j := 0; j < rng.Intn(20); j++ {
			v.ZoomIn()
		}
		v.BeginDrag(rng.Float64()*500, rng.Float64()*500)
		v.DragTo(rng.Float64()*500, rng.Float64()*500)
		if rng.Intn(2) == 0 {
			v.SetDisabled(true)
		}

		v.Reset()
		assert.Equal(t, core.ViewportState{Zoom: 1}, v.State())
		assert.False(t, v.Dragging())
	}
}

func TestViewport_DisabledIgnoresInput(t *testing.T) {
	v := NewViewport(DefaultOptions())
	v.ZoomIn()
	v.BeginDrag(0, 0)

	v.SetDisabled(true)
	assert.False(t, v.Dragging(), "disabling cancels the drag")
	assert.False(t, v.ZoomIn())
	assert.False(t, v.ZoomOut())
	assert.False(t, v.Wheel(-1))
	assert.False(t, v.BeginDrag(0, 0))
	assert.False(t, v.DragTo(10, 10))
	assert.False(t, v.ShowReset())
	assert.Equal(t, 1.15, v.State().Zoom)

	v.SetDisabled(false)
	assert.True(t, v.ZoomIn())
}

func TestViewport_CustomOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.ZoomStep = 0.5
	opts.MaxZoom = 2
	v := NewViewport(opts)

	v.ZoomIn()
	v.ZoomIn()
	v.ZoomIn()
	assert.Equal(t, 2.0, v.State().Zoom)
}

func TestTransform(t *testing.T) {
	assert.Equal(t, "scale(1) translate(0px, 0px)", Transform(core.ViewportState{Zoom: 1}))
	assert.Equal(t, "scale(2) translate(15px, -5px)", Transform(core.ViewportState{Zoom: 2, PanX: 30, PanY: -10}))
	assert.Equal(t, "scale(1) translate(4px, 0px)", Transform(core.ViewportState{PanX: 4}))
}
