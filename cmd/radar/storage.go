package main

import (
	"fmt"

	"github.com/nadelab/radar/internal/config"
	"github.com/nadelab/radar/internal/storage"
	"github.com/nadelab/radar/internal/storage/memory"
	pgstorage "github.com/nadelab/radar/internal/storage/postgres"
	sqlitestorage "github.com/nadelab/radar/internal/storage/sqlite"
)

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	log := LogManager.Component("storage")

	switch storageCfg.Type {
	case "postgres":
		backend, err := pgstorage.New(storageCfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		Logger.Info().Msg("Postgres storage backend initialized")
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info().Str("path", storageCfg.SQLite.Path).Msg("SQLite storage backend initialized")
		return backend, nil

	case "memory", "":
		Logger.Info().Msg("Memory storage backend initialized")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
