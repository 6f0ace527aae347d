// Package gormstorage implements storage.Backend on any GORM dialect.
// The sqlite and postgres backends embed it and only own the connection.
package gormstorage

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nadelab/radar/internal/database"
	"github.com/nadelab/radar/internal/model"
	"github.com/nadelab/radar/internal/model/convert"
	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps Dependencies
	now  func() time.Time
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
		now:  time.Now,
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return database.Migrate(b.deps.DB, b.deps.Logger)
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveLineup upserts a lineup and bumps the revision of every map it touches.
func (b *Backend) SaveLineup(l *core.Lineup) error {
	if err := storage.Prepare(l, b.now()); err != nil {
		return err
	}
	row := convert.CoreToLineup(*l)

	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var prev model.Lineup
		err := tx.Select("map").Where("id = ?", row.ID).Take(&prev).Error
		switch {
		case err == nil:
			if prev.Map != row.Map {
				if err := bumpRevision(tx, prev.Map, b.now()); err != nil {
					return err
				}
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		return bumpRevision(tx, row.Map, b.now())
	})
}

// GetLineup returns a lineup by ID.
func (b *Backend) GetLineup(id string) (core.Lineup, error) {
	var row model.Lineup
	err := b.deps.DB.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Lineup{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Lineup{}, err
	}
	return convert.LineupToCore(row)
}

// ListLineups returns the lineups of one map, oldest first.
func (b *Backend) ListLineups(mapName string) ([]core.Lineup, error) {
	var rows []model.Lineup
	err := b.deps.DB.
		Where("map = ?", mapName).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return convert.LineupsToCore(rows)
}

// DeleteLineup removes a lineup.
func (b *Backend) DeleteLineup(id string) error {
	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		var row model.Lineup
		err := tx.Select("id", "map").Where("id = ?", id).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.Lineup{}, "id = ?", id).Error; err != nil {
			return err
		}
		return bumpRevision(tx, row.Map, b.now())
	})
}

// Version returns the change counter of a map.
func (b *Backend) Version(mapName string) (uint64, error) {
	var rev model.MapRevision
	err := b.deps.DB.Where("map = ?", mapName).Take(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rev.Version, nil
}

func bumpRevision(tx *gorm.DB, mapName string, now time.Time) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "map"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"version":    gorm.Expr("map_revisions.version + 1"),
			"updated_at": now,
		}),
	}).Create(&model.MapRevision{Map: mapName, Version: 1, UpdatedAt: now}).Error
}
