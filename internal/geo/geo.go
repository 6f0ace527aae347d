package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nadelab/radar/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ErrNoSetpos is returned when a console command carries no setpos statement
var ErrNoSetpos = errors.New("no setpos command found")

// Angles is a view angle as given by setang.
type Angles struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Setpos is a parsed "setpos x y z;setang p y r" console command.
type Setpos struct {
	Position  core.Position3D
	Angles    Angles
	HasAngles bool
}

// ParseSetpos extracts position and, when present, view angles from a console
// command such as "setpos -1.5 2 -160.03;setang 4.5 -90 0". setpos_exact is accepted too.
func ParseSetpos(command string) (Setpos, error) {
	var out Setpos
	found := false

	for _, stmt := range strings.Split(command, ";") {
		fields := strings.Fields(strings.TrimSpace(stmt))
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "setpos", "setpos_exact":
			if len(fields) < 4 {
				return Setpos{}, ErrInvalidCoordinates
			}
			values, err := parseFloats(fields[1:4])
			if err != nil {
				return Setpos{}, err
			}
			out.Position = core.Position3D{X: values[0], Y: values[1], Z: values[2]}
			found = true
		case "setang", "setang_exact":
			if len(fields) < 3 {
				return Setpos{}, ErrInvalidCoordinates
			}
			values, err := parseFloats(fields[1:min(len(fields), 4)])
			if err != nil {
				return Setpos{}, err
			}
			out.Angles = Angles{Pitch: values[0], Yaw: values[1]}
			if len(values) > 2 {
				out.Angles.Roll = values[2]
			}
			out.HasAngles = true
		}
	}

	if !found {
		return Setpos{}, ErrNoSetpos
	}
	return out, nil
}

func parseFloats(parts []string) ([]float64, error) {
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, ErrInvalidCoordinates
		}
		values[i] = v
	}
	return values, nil
}

// ThrowLine builds the throw to landing segment on the radar.
func ThrowLine(throw, landing core.RadarPosition) geom.LineString {
	seq := geom.NewSequence([]float64{throw.X, throw.Y, landing.X, landing.Y}, geom.DimXY)
	return geom.NewLineString(seq)
}

// ThrowDistance is the radar-space length of the throw to landing segment.
func ThrowDistance(throw, landing core.RadarPosition) float64 {
	return ThrowLine(throw, landing).Length()
}
