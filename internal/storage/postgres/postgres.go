// Package postgres implements the storage.Backend interface on PostgreSQL.
// Everything but opening the connection is delegated to the GORM backend.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nadelab/radar/internal/config"
	"github.com/nadelab/radar/internal/database"
	gormstorage "github.com/nadelab/radar/internal/storage/gorm"
)

// Backend wraps the GORM backend for a Postgres connection.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres. The schema is migrated by Init.
func New(cfg config.PostgresConfig, log zerolog.Logger) (*Backend, error) {
	db, err := database.GetPostgresDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log}),
	}, nil
}
