// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/nadelab/radar/internal/model"
	"github.com/nadelab/radar/pkg/core"
)

// tagsToJSON converts a []string to datatypes.JSON for DB storage.
func tagsToJSON(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(tags)
	return datatypes.JSON(data)
}

// CoreToLineup converts a core.Lineup to a GORM model.Lineup.
func CoreToLineup(l core.Lineup) model.Lineup {
	return model.Lineup{
		ID:        l.ID,
		Map:       l.Map,
		Name:      l.Name,
		Grenade:   string(l.Grenade),
		Throw:     string(l.Throw),
		ThrowX:    l.ThrowPos.X,
		ThrowY:    l.ThrowPos.Y,
		ThrowZ:    l.ThrowPos.Z,
		LandingX:  l.LandingPos.X,
		LandingY:  l.LandingPos.Y,
		LandingZ:  l.LandingPos.Z,
		Setpos:    l.Setpos,
		Tags:      tagsToJSON(l.Tags),
		Pro:       l.Pro,
		Author:    l.Author,
		CreatedAt: l.CreatedAt,
	}
}

// LineupToCore converts a GORM model.Lineup back to a core.Lineup.
func LineupToCore(m model.Lineup) (core.Lineup, error) {
	var tags []string
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &tags); err != nil {
			return core.Lineup{}, fmt.Errorf("lineup %s has malformed tags: %w", m.ID, err)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}

	return core.Lineup{
		ID:         m.ID,
		Map:        m.Map,
		Name:       m.Name,
		Grenade:    core.GrenadeType(m.Grenade),
		Throw:      core.ThrowType(m.Throw),
		ThrowPos:   core.Position3D{X: m.ThrowX, Y: m.ThrowY, Z: m.ThrowZ},
		LandingPos: core.Position3D{X: m.LandingX, Y: m.LandingY, Z: m.LandingZ},
		Setpos:     m.Setpos,
		Tags:       tags,
		Pro:        m.Pro,
		Author:     m.Author,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// LineupsToCore converts a slice of GORM lineups, stopping at the first malformed row.
func LineupsToCore(rows []model.Lineup) ([]core.Lineup, error) {
	out := make([]core.Lineup, 0, len(rows))
	for _, r := range rows {
		l, err := LineupToCore(r)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
