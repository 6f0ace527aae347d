// pkg/core/calibration.go
package core

// MapCalibration translates world coordinates of one map into radar percentages.
type MapCalibration struct {
	Name        string  `json:"name" yaml:"name"`
	DisplayName string  `json:"displayName" yaml:"displayName"`
	Image       string  `json:"image" yaml:"image"`
	Scale       float64 `json:"scale" yaml:"scale"`
	OffsetX     float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY     float64 `json:"offsetY" yaml:"offsetY"`

	// InvertY negates world Y before scaling, for engines whose Y axis points
	// up while image rows grow downwards.
	InvertY bool `json:"invertY,omitempty" yaml:"invertY"`

	// Maps with stacked levels carry a second radar image. Positions with
	// Z below ZSplit belong to the lower level.
	LowerImage string  `json:"lowerImage,omitempty" yaml:"lowerImage"`
	ZSplit     float64 `json:"zSplit,omitempty" yaml:"zSplit"`
}

// HasLayers reports whether the map has a separate lower radar level.
func (c MapCalibration) HasLayers() bool {
	return c.LowerImage != ""
}

// ImageFor returns the radar image for the given layer.
func (c MapCalibration) ImageFor(layer Layer) string {
	if layer == LayerLower && c.HasLayers() {
		return c.LowerImage
	}
	return c.Image
}
