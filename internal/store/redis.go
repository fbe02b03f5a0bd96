package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps catalogs as compressed values under <prefix>:catalog:<version>
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects using a redis:// URL
func NewRedisStore(ctx context.Context, url, prefix string, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return newRedisStore(client, prefix, logger), nil
}

func newRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if prefix == "" {
		prefix = "leaguehelper"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		// A catalog outlives a patch by a wide margin
		ttl:    30 * 24 * time.Hour,
		logger: logging.OrNop(logger).Named("store"),
	}
}

func (r *RedisStore) key(version string) string {
	return r.prefix + ":catalog:" + version
}

// Load reads the catalog for a version
func (r *RedisStore) Load(ctx context.Context, version string) (*catalog.Catalog, error) {
	data, err := r.client.Get(ctx, r.key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", version, err)
	}
	return Decode(data)
}

// Save stores a catalog
func (r *RedisStore) Save(ctx context.Context, c *catalog.Catalog) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(c.PatchVersion), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", c.PatchVersion, err)
	}
	r.logger.Debug("saved catalog", zap.String("version", c.PatchVersion), zap.Int("bytes", len(data)))
	return nil
}

// Close closes the client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
