package store

import (
	"context"
	"fmt"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/config"

	"go.uber.org/zap"
)

// Store is a closable catalog store
type Store interface {
	catalog.Store
	Close() error
}

// Open creates the backend selected by cfg.Store.Driver, wrapped in an LRU
// when a cache size is configured.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		s, err = OpenSQL(ctx, config.DriverSQLite, cfg.SQLitePath(), "", logger)
	case config.DriverLibSQL, config.DriverPostgres:
		s, err = OpenSQL(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Store.AuthToken, logger)
	case config.DriverRedis:
		s, err = NewRedisStore(ctx, cfg.Store.RedisURL, cfg.Store.KeyPrefix, logger)
	case config.DriverS3:
		s, err = NewS3Store(cfg.Store.S3, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Store.CacheSize > 0 {
		cached, err := NewCached(s, cfg.Store.CacheSize)
		if err != nil {
			s.Close()
			return nil, err
		}
		return cached, nil
	}
	return s, nil
}
