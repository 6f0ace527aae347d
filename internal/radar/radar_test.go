package radar

import (
	"github.com/nadelab/radar/pkg/core"
)

// fixtureTable is a calibration lookup for tests.
type fixtureTable map[string]core.MapCalibration

func (f fixtureTable) Lookup(name string) (core.MapCalibration, bool) {
	c, ok := f[name]
	return c, ok
}

var mirageCal = core.MapCalibration{
	Name:    "de_mirage",
	Image:   "/radars/de_mirage.png",
	Scale:   0.02,
	OffsetX: 50,
	OffsetY: 40,
}

var nukeCal = core.MapCalibration{
	Name:       "de_nuke",
	Image:      "/radars/de_nuke.png",
	LowerImage: "/radars/de_nuke_lower.png",
	ZSplit:     -495,
	Scale:      0.02,
	OffsetX:    50,
	OffsetY:    50,
}

func fixtures() fixtureTable {
	return fixtureTable{"de_mirage": mirageCal, "de_nuke": nukeCal}
}

func lineup(id string, throwX, throwY, landX, landY float64) core.Lineup {
	return core.Lineup{
		ID:         id,
		Map:        "de_mirage",
		Name:       "Lineup " + id,
		Grenade:    core.GrenadeSmoke,
		Throw:      core.ThrowJump,
		ThrowPos:   core.Position3D{X: throwX, Y: throwY},
		LandingPos: core.Position3D{X: landX, Y: landY},
	}
}
