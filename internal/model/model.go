package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Lineup{},
	&MapRevision{},
}

////////////////////////
// LINEUP MODELS
////////////////////////

// Lineup is a saved grenade throw
type Lineup struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	Map       string         `json:"map" gorm:"size:64;index:idx_lineup_map"`
	Name      string         `json:"name" gorm:"size:255"`
	Grenade   string         `json:"grenade" gorm:"size:16"`
	Throw     string         `json:"throw" gorm:"size:32"`
	ThrowX    float64        `json:"throwX"`
	ThrowY    float64        `json:"throwY"`
	ThrowZ    float64        `json:"throwZ"`
	LandingX  float64        `json:"landingX"`
	LandingY  float64        `json:"landingY"`
	LandingZ  float64        `json:"landingZ"`
	Setpos    string         `json:"setpos" gorm:"size:255"`
	Tags      datatypes.JSON `json:"tags"`
	Pro       bool           `json:"pro" gorm:"index:idx_lineup_pro"`
	Author    string         `json:"author" gorm:"size:64"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index:idx_lineup_created"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (*Lineup) TableName() string {
	return "lineups"
}

// MapRevision counts changes to a map's lineups. The counter identifies a
// lineup list, so clients know when to reset their radar.
type MapRevision struct {
	Map       string    `json:"map" gorm:"primaryKey;size:64"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*MapRevision) TableName() string {
	return "map_revisions"
}
