package radar

import "github.com/nadelab/radar/pkg/core"

// Project converts a world position into radar percentages with the map's affine
// calibration. Out-of-bounds positions project outside [0,100]; nothing is clamped.
func Project(worldX, worldY float64, cal core.MapCalibration) core.RadarPosition {
	if cal.InvertY {
		worldY = -worldY
	}
	return core.RadarPosition{
		X: worldX*cal.Scale + cal.OffsetX,
		Y: worldY*cal.Scale + cal.OffsetY,
	}
}

// BelongsToLayer reports whether a position at worldZ is drawn on the requested layer.
// Single-level maps only have an upper layer.
func BelongsToLayer(worldZ float64, cal core.MapCalibration, wantLower bool) bool {
	if !cal.HasLayers() {
		return !wantLower
	}
	isLower := worldZ < cal.ZSplit
	return isLower == wantLower
}

// ProjectLineups projects the lineups thrown from the given layer.
// Lineups for other layers are skipped; the input order is kept.
func ProjectLineups(lineups []core.Lineup, cal core.MapCalibration, layer core.Layer) []core.LineupMarker {
	wantLower := layer == core.LayerLower
	markers := make([]core.LineupMarker, 0, len(lineups))
	for _, l := range lineups {
		if !BelongsToLayer(l.ThrowPos.Z, cal, wantLower) {
			continue
		}
		markers = append(markers, core.LineupMarker{
			Lineup:       l,
			ThrowRadar:   Project(l.ThrowPos.X, l.ThrowPos.Y, cal),
			LandingRadar: Project(l.LandingPos.X, l.LandingPos.Y, cal),
		})
	}
	return markers
}
