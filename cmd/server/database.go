package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/careerforge/careerforge-api/internal/config"
	"github.com/careerforge/careerforge-api/internal/platform/postgres"
	"github.com/careerforge/careerforge-api/internal/platform/redis"
	"github.com/careerforge/careerforge-api/internal/platform/sqlite"
	"github.com/careerforge/careerforge-api/internal/store"
)

// storage is the artifact store together with the connections backing it.
type storage struct {
	store store.ArtifactStore
	db    *sql.DB
	rdb   *goredis.Client
}

// openStorage opens the configured durable store, running pending
// PostgreSQL migrations, and layers the redis cache over it when enabled.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	s := &storage{}

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.db = db
		s.store = postgres.NewPostgresArtifactStore(db, logger)

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.store = sqlite.NewSQLiteArtifactStore(db, logger)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	logger.Info("artifact store opened", "driver", cfg.Database.Driver)

	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, redis.Config{URL: cfg.Redis.URL, Password: cfg.Redis.Password})
		if err != nil {
			s.close()
			return nil, err
		}
		s.rdb = rdb
		s.store = redis.NewTieredStore(s.store, rdb, cfg.Redis.KeyPrefix, logger)
		logger.Info("redis artifact cache enabled", "key_prefix", cfg.Redis.KeyPrefix)
	}

	return s, nil
}

// ping checks the durable store and, when configured, the cache.
func (s *storage) ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if s.rdb != nil {
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: redis: %v", store.ErrUnavailable, err)
		}
	}
	return nil
}

func (s *storage) close() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// runMigrations runs one goose command against the configured PostgreSQL
// database.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != "postgres" {
		logger.Info("migrations are only needed for postgres; sqlite creates its schema on open",
			"driver", cfg.Database.Driver)
		return nil
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, 1)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return postgres.Migrate(ctx, db, command, logger)
}
