package radar

import (
	"fmt"
	"sync/atomic"

	"github.com/nadelab/radar/internal/cache"
	"github.com/nadelab/radar/internal/geo"
	"github.com/nadelab/radar/pkg/core"
)

// Calibrations looks up a map's calibration by identifier.
type Calibrations interface {
	Lookup(name string) (core.MapCalibration, bool)
}

// LineupList is a list of lineups with an identity. Two lists with the same
// Scope and Version are the same list; anything else is a new list.
type LineupList struct {
	Scope   string
	Version uint64
	Items   []core.Lineup
}

var listSeq atomic.Uint64

// NewLineupList wraps items in a list with a fresh identity.
func NewLineupList(items []core.Lineup) LineupList {
	return LineupList{
		Scope:   fmt.Sprintf("list-%d", listSeq.Add(1)),
		Version: 1,
		Items:   items,
	}
}

func (l LineupList) sameAs(o LineupList) bool {
	return l.Scope == o.Scope && l.Version == o.Version
}

// Props is what the hosting page hands to a surface.
type Props struct {
	Map        string
	Lineups    LineupList
	SelectedID string
	OnSelect   func(core.SelectionEvent)
	Mini       bool
}

// Surface composes projection, grouping, popup and viewport for one radar widget.
// A Surface is not safe for concurrent use.
type Surface struct {
	opts  Options
	cals  Calibrations
	cache *cache.LayoutCache

	mapName    string
	lineups    LineupList
	selectedID string
	onSelect   func(core.SelectionEvent)
	mini       bool
	layer      core.Layer

	viewport *Viewport
	popup    Popup
}

// NewSurface creates a surface. layouts may be shared between surfaces; nil
// gives the surface a private cache.
func NewSurface(cals Calibrations, props Props, opts Options, layouts *cache.LayoutCache) *Surface {
	opts = opts.normalized()
	if layouts == nil {
		layouts = cache.NewLayoutCache(8)
	}
	s := &Surface{
		opts:       opts,
		cals:       cals,
		cache:      layouts,
		mapName:    props.Map,
		lineups:    props.Lineups,
		selectedID: props.SelectedID,
		onSelect:   props.OnSelect,
		layer:      core.LayerUpper,
		viewport:   NewViewport(opts),
	}
	s.SetMini(props.Mini)
	return s
}

// GroupView is a marker group as drawn on the radar.
type GroupView struct {
	Key       core.GridKey       `json:"key"`
	Position  core.RadarPosition `json:"position"`
	Color     string             `json:"color"`
	Badge     int                `json:"badge"`
	LineupIDs []string           `json:"lineupIds"`
	Selected  bool               `json:"selected"`
}

// PopupView is the open disambiguation popup.
type PopupView struct {
	Key      core.GridKey       `json:"key"`
	Position core.RadarPosition `json:"position"`
	Entries  []PopupEntry       `json:"entries"`
}

// SelectedView is the throw to landing vector of the selected lineup.
type SelectedView struct {
	LineupID string             `json:"lineupId"`
	Name     string             `json:"name"`
	Color    string             `json:"color"`
	Throw    core.RadarPosition `json:"throw"`
	Landing  core.RadarPosition `json:"landing"`
	Label    core.RadarPosition `json:"label"`
	Length   float64            `json:"length"`
}

// Layout is everything needed to paint the surface.
type Layout struct {
	Map         string             `json:"map"`
	Available   bool               `json:"available"`
	Image       string             `json:"image,omitempty"`
	Layer       core.Layer         `json:"layer"`
	HasLayers   bool               `json:"hasLayers"`
	Mini        bool               `json:"mini"`
	Interactive bool               `json:"interactive"`
	Viewport    core.ViewportState `json:"viewport"`
	Transform   string             `json:"transform"`
	ShowReset   bool               `json:"showReset"`
	MarkerCount int                `json:"markerCount"`
	Groups      []GroupView        `json:"groups"`
	Popup       *PopupView         `json:"popup,omitempty"`
	Selected    *SelectedView      `json:"selected,omitempty"`
}

// calibration returns the current map's calibration.
func (s *Surface) calibration() (core.MapCalibration, bool) {
	if s.cals == nil {
		return core.MapCalibration{}, false
	}
	return s.cals.Lookup(s.mapName)
}

// project returns the markers and groups for the current inputs, memoized
// against lineup list identity, map, layer and grid resolution.
func (s *Surface) project() (cache.Layout, bool) {
	cal, ok := s.calibration()
	if !ok {
		return cache.Layout{}, false
	}

	key := cache.LayoutKey{
		Scope:      s.lineups.Scope,
		Version:    s.lineups.Version,
		Map:        s.mapName,
		Layer:      s.layer,
		Resolution: s.opts.GridResolution,
	}
	if l, ok := s.cache.Get(key); ok {
		return l, true
	}

	markers := ProjectLineups(s.lineups.Items, cal, s.layer)
	l := cache.Layout{
		Markers: markers,
		Groups:  Group(markers, s.opts.GridResolution),
	}
	s.cache.Put(key, l)
	return l, true
}

// Layout computes the current view. An unknown map yields Available == false.
func (s *Surface) Layout() Layout {
	out := Layout{
		Map:         s.mapName,
		Layer:       s.layer,
		Mini:        s.mini,
		Interactive: !s.mini,
		Groups:      []GroupView{},
	}

	// compact previews always show the whole radar
	if s.mini {
		out.Viewport = core.ViewportState{Zoom: 1}
	} else {
		out.Viewport = s.viewport.State()
		out.ShowReset = s.viewport.ShowReset()
	}
	out.Transform = Transform(out.Viewport)

	cal, ok := s.calibration()
	if !ok {
		return out
	}
	projected, _ := s.project()

	out.Available = true
	out.Image = cal.ImageFor(s.layer)
	out.HasLayers = cal.HasLayers()
	out.MarkerCount = len(projected.Markers)

	for _, g := range projected.Groups {
		view := GroupView{
			Key:       g.Key,
			Position:  g.Position,
			Color:     g.Members[0].Lineup.Grenade.Color(),
			Badge:     g.Badge(),
			LineupIDs: make([]string, 0, len(g.Members)),
		}
		for _, m := range g.Members {
			view.LineupIDs = append(view.LineupIDs, m.Lineup.ID)
			if m.Lineup.ID == s.selectedID && s.selectedID != "" {
				view.Selected = true
			}
		}
		out.Groups = append(out.Groups, view)
	}

	if key, open := s.popup.Current(); open {
		if g, ok := FindGroup(projected.Groups, key); ok {
			out.Popup = &PopupView{Key: g.Key, Position: g.Position, Entries: PopupEntries(g)}
		}
	}

	if !s.mini && s.selectedID != "" {
		for _, m := range projected.Markers {
			if m.Lineup.ID != s.selectedID {
				continue
			}
			out.Selected = &SelectedView{
				LineupID: m.Lineup.ID,
				Name:     m.Lineup.Name,
				Color:    m.Lineup.Grenade.Color(),
				Throw:    m.ThrowRadar,
				Landing:  m.LandingRadar,
				Label:    LabelPosition(m.ThrowRadar, m.LandingRadar, s.opts),
				Length:   geo.ThrowDistance(m.ThrowRadar, m.LandingRadar),
			}
			break
		}
	}

	return out
}

// Markers returns the projected markers for the active layer.
func (s *Surface) Markers() []core.LineupMarker {
	l, _ := s.project()
	return l.Markers
}

// Groups returns the marker groups for the active layer.
func (s *Surface) Groups() []core.MarkerGroup {
	l, _ := s.project()
	return l.Groups
}

// Viewport exposes the zoom and pan controller.
func (s *Surface) Viewport() *Viewport {
	return s.viewport
}

// Map returns the current map identifier.
func (s *Surface) Map() string {
	return s.mapName
}

// Layer returns the active layer.
func (s *Surface) Layer() core.Layer {
	return s.layer
}

// SelectedID returns the selected lineup, if any.
func (s *Surface) SelectedID() string {
	return s.selectedID
}

// Mini reports whether the surface is in compact preview mode.
func (s *Surface) Mini() bool {
	return s.mini
}

// OpenPopup returns the key of the open popup's group.
func (s *Surface) OpenPopup() (core.GridKey, bool) {
	return s.popup.Current()
}

// SetMap switches to another map. The popup closes, the layer returns to the
// upper level and the viewport resets.
func (s *Surface) SetMap(name string) {
	if name == s.mapName {
		return
	}
	s.mapName = name
	s.layer = core.LayerUpper
	s.popup.Close()
	s.viewport.Reset()
}

// SetLineups replaces the lineup list. A list with a new identity closes the
// popup and resets the viewport; the same list again changes nothing.
func (s *Surface) SetLineups(list LineupList) {
	if list.sameAs(s.lineups) {
		return
	}
	s.lineups = list
	s.popup.Close()
	s.viewport.Reset()
}

// SetSelected changes the selected lineup without emitting an event.
// The viewport is left alone.
func (s *Surface) SetSelected(id string) {
	s.selectedID = id
}

// SetMini switches compact preview mode, which disables zoom and pan and
// hides the selected lineup's vector.
func (s *Surface) SetMini(mini bool) {
	s.mini = mini
	s.viewport.SetDisabled(mini)
}

// SetOnSelect replaces the selection callback.
func (s *Surface) SetOnSelect(fn func(core.SelectionEvent)) {
	s.onSelect = fn
}

// SetLayer switches the active layer on maps with stacked levels.
// Returns false when the map has no such layer. The viewport is kept.
func (s *Surface) SetLayer(layer core.Layer) bool {
	cal, ok := s.calibration()
	if !ok {
		return false
	}
	if layer == core.LayerLower && !cal.HasLayers() {
		return false
	}
	if layer != s.layer {
		s.layer = layer
		s.popup.Close()
	}
	return true
}

// ToggleLayer flips between upper and lower levels.
func (s *Surface) ToggleLayer() bool {
	if s.layer == core.LayerLower {
		return s.SetLayer(core.LayerUpper)
	}
	return s.SetLayer(core.LayerLower)
}

// ClickMarker handles a click on the group at key. A single lineup is selected
// directly; a group toggles its popup. Returns false if no such group is drawn.
func (s *Surface) ClickMarker(key core.GridKey) bool {
	g, ok := FindGroup(s.Groups(), key)
	if !ok {
		return false
	}
	if len(g.Members) == 1 {
		s.popup.Close()
		s.selectLineup(g.Members[0].Lineup, core.SelectionSourceMarker)
		return true
	}
	s.popup.Toggle(key)
	return true
}

// ClickPopupEntry selects one lineup from the open popup and closes it.
func (s *Surface) ClickPopupEntry(lineupID string) bool {
	key, open := s.popup.Current()
	if !open {
		return false
	}
	g, ok := FindGroup(s.Groups(), key)
	if !ok {
		s.popup.Close()
		return false
	}
	for _, m := range g.Members {
		if m.Lineup.ID == lineupID {
			s.popup.Close()
			s.selectLineup(m.Lineup, core.SelectionSourcePopup)
			return true
		}
	}
	return false
}

// ClickBackground closes any open popup.
func (s *Surface) ClickBackground() {
	s.popup.Close()
}

func (s *Surface) selectLineup(l core.Lineup, source string) {
	s.selectedID = l.ID
	if s.onSelect != nil {
		s.onSelect(core.SelectionEvent{LineupID: l.ID, Lineup: l, Source: source})
	}
}
