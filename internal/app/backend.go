package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/plexicon/internal/adapter/filestore"
	"github.com/heartmarshall/plexicon/internal/adapter/memstore"
	"github.com/heartmarshall/plexicon/internal/adapter/postgres"
	"github.com/heartmarshall/plexicon/internal/adapter/sqlite"
	"github.com/heartmarshall/plexicon/internal/config"
	"github.com/heartmarshall/plexicon/internal/service/stats"
)

// Backend is a stats blob store the application owns.
type Backend interface {
	stats.Backend
	Ping(ctx context.Context) error
	Close() error
}

// OpenBackend opens the storage driver named by cfg.Driver.
func OpenBackend(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Backend, error) {
	log := logger.With("storage", cfg.Driver)

	switch cfg.Driver {
	case config.DriverMemory:
		return memstore.New(), nil

	case config.DriverFile:
		s, err := filestore.Open(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("app: open file store: %w", err)
		}
		log.Info("stats directory", slog.String("dir", s.Dir()))
		return s, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLiteFile())
		if err != nil {
			return nil, fmt.Errorf("app: open sqlite store: %w", err)
		}
		log.Info("stats database", slog.String("path", s.Path()))
		return s, nil

	case config.DriverPostgres:
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, log); err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return postgres.NewPoolBlobStore(pool), nil

	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
	}
}
