// Package handlers binds radar surface input commands to a dispatcher.
package handlers

import (
	"errors"
	"fmt"

	"github.com/nadelab/radar/internal/dispatcher"
	"github.com/nadelab/radar/internal/radar"
	"github.com/nadelab/radar/pkg/core"
)

// Input commands understood by a radar surface.
const (
	CmdWheel           = "wheel"
	CmdZoomIn          = "zoom_in"
	CmdZoomOut         = "zoom_out"
	CmdReset           = "reset"
	CmdDragStart       = "drag_start"
	CmdDragMove        = "drag_move"
	CmdDragEnd         = "drag_end"
	CmdMarkerClick     = "marker_click"
	CmdPopupSelect     = "popup_select"
	CmdBackgroundClick = "background_click"
	CmdToggleLayer     = "toggle_layer"
	CmdSelect          = "select"
	CmdSetMini         = "set_mini"
)

var (
	// ErrNoSuchMarker is returned when a click names a group that is not drawn.
	ErrNoSuchMarker = errors.New("no marker group at that position")
	// ErrNotInPopup is returned when a popup selection names a lineup outside the open popup.
	ErrNotInPopup = errors.New("lineup is not in the open popup")
	// ErrNoLowerLayer is returned when toggling layers on a single level map.
	ErrNoLowerLayer = errors.New("map has no lower layer")
)

// WheelPayload carries a mouse wheel delta.
type WheelPayload struct {
	DeltaY float64 `json:"deltaY"`
}

// PointerPayload carries a pointer position in screen pixels.
type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerPayload names a marker group by its grid cell.
type MarkerPayload struct {
	Key core.GridKey `json:"key"`
}

// LineupPayload names a lineup.
type LineupPayload struct {
	LineupID string `json:"lineupId"`
}

// LayerPayload requests a specific layer. An empty layer toggles.
type LayerPayload struct {
	Layer core.Layer `json:"layer"`
}

// MiniPayload switches compact preview mode.
type MiniPayload struct {
	Mini bool `json:"mini"`
}

// Result tells the client what an input did.
type Result struct {
	Changed bool `json:"changed"`
	// PreventDefault is set when the client should stop the browser's default
	// handling, such as page scroll on wheel input over the radar.
	PreventDefault bool `json:"preventDefault"`
}

// RegisterSurface registers all input commands for s on d.
func RegisterSurface(d *dispatcher.Dispatcher, s *radar.Surface, opts ...dispatcher.Option) {
	vp := s.Viewport()

	d.Register(CmdWheel, func(e dispatcher.Event) (any, error) {
		var p WheelPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		consumed := vp.Wheel(p.DeltaY)
		return Result{Changed: consumed, PreventDefault: consumed}, nil
	}, opts...)

	d.Register(CmdZoomIn, func(e dispatcher.Event) (any, error) {
		return Result{Changed: vp.ZoomIn()}, nil
	}, opts...)

	d.Register(CmdZoomOut, func(e dispatcher.Event) (any, error) {
		return Result{Changed: vp.ZoomOut()}, nil
	}, opts...)

	d.Register(CmdReset, func(e dispatcher.Event) (any, error) {
		if vp.Disabled() {
			return Result{}, nil
		}
		vp.Reset()
		return Result{Changed: true}, nil
	}, opts...)

	d.Register(CmdDragStart, func(e dispatcher.Event) (any, error) {
		var p PointerPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		started := vp.BeginDrag(p.X, p.Y)
		return Result{PreventDefault: started}, nil
	}, opts...)

	d.Register(CmdDragMove, func(e dispatcher.Event) (any, error) {
		var p PointerPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		return Result{Changed: vp.DragTo(p.X, p.Y)}, nil
	}, opts...)

	d.Register(CmdDragEnd, func(e dispatcher.Event) (any, error) {
		vp.EndDrag()
		return Result{}, nil
	}, opts...)

	d.Register(CmdMarkerClick, func(e dispatcher.Event) (any, error) {
		var p MarkerPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		if !s.ClickMarker(p.Key) {
			return nil, fmt.Errorf("%w: %d,%d", ErrNoSuchMarker, p.Key.X, p.Key.Y)
		}
		return Result{Changed: true}, nil
	}, opts...)

	d.Register(CmdPopupSelect, func(e dispatcher.Event) (any, error) {
		var p LineupPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		if !s.ClickPopupEntry(p.LineupID) {
			return nil, fmt.Errorf("%w: %s", ErrNotInPopup, p.LineupID)
		}
		return Result{Changed: true}, nil
	}, opts...)

	d.Register(CmdBackgroundClick, func(e dispatcher.Event) (any, error) {
		_, wasOpen := s.OpenPopup()
		s.ClickBackground()
		return Result{Changed: wasOpen}, nil
	}, opts...)

	d.Register(CmdToggleLayer, func(e dispatcher.Event) (any, error) {
		var p LayerPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		var ok bool
		if p.Layer == "" {
			ok = s.ToggleLayer()
		} else {
			ok = s.SetLayer(core.ParseLayer(string(p.Layer)))
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoLowerLayer, s.Map())
		}
		return Result{Changed: true}, nil
	}, opts...)

	d.Register(CmdSelect, func(e dispatcher.Event) (any, error) {
		var p LineupPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		s.SetSelected(p.LineupID)
		return Result{Changed: true}, nil
	}, opts...)

	d.Register(CmdSetMini, func(e dispatcher.Event) (any, error) {
		var p MiniPayload
		if err := e.Decode(&p); err != nil {
			return nil, err
		}
		changed := p.Mini != s.Mini()
		s.SetMini(p.Mini)
		return Result{Changed: changed}, nil
	}, opts...)
}
