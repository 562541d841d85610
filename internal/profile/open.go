package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/csvlayout/internal/config"
	"github.com/JonMunkholm/csvlayout/internal/logging"
)

// Open returns the store selected by cfg.Profiles. For the postgres store it
// connects a pool, verifies it and creates the table if needed. The returned
// close function releases the pool and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	logger := logging.FromContext(ctx)

	switch cfg.Profiles.Store {
	case config.StoreFile:
		logger.Info("using file profile store", "path", cfg.Profiles.Path)
		return NewFileStore(cfg.Profiles.Path), func() {}, nil

	case config.StorePostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse database URL: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}

		store := NewPgStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("using postgres profile store", "database", databaseName(cfg.Database.URL))
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown profile store %q", cfg.Profiles.Store)
	}
}

// databaseName extracts the database name for logging without credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
