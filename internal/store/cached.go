package store

import (
	"context"

	"leaguehelper/internal/catalog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached keeps recently used catalogs in memory in front of another store
type Cached struct {
	Store
	cache *lru.Cache[string, *catalog.Catalog]
}

// NewCached wraps next with an LRU of the given size
func NewCached(next Store, size int) (*Cached, error) {
	cache, err := lru.New[string, *catalog.Catalog](size)
	if err != nil {
		return nil, err
	}
	return &Cached{Store: next, cache: cache}, nil
}

// Load serves from memory when possible
func (c *Cached) Load(ctx context.Context, version string) (*catalog.Catalog, error) {
	if cat, ok := c.cache.Get(version); ok {
		return cat, nil
	}

	cat, err := c.Store.Load(ctx, version)
	if err != nil {
		return nil, err
	}
	c.cache.Add(version, cat)
	return cat, nil
}

// Save writes through and caches on success
func (c *Cached) Save(ctx context.Context, cat *catalog.Catalog) error {
	if err := c.Store.Save(ctx, cat); err != nil {
		return err
	}
	c.cache.Add(cat.PatchVersion, cat)
	return nil
}

// Unwrap returns the backing store
func (c *Cached) Unwrap() Store {
	return c.Store
}
