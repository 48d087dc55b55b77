package repository

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of artifacts whose version lists are kept.
const DefaultCacheSize = 256

// Cached memoizes a Source's version lists per artifact. Failed lookups
// are not cached.
type Cached struct {
	source Source
	cache  *lru.Cache[Coordinates, []string]
}

// NewCached wraps source with an LRU cache of the given size. A size of
// zero or less selects DefaultCacheSize.
func NewCached(source Source, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[Coordinates, []string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{source: source, cache: cache}, nil
}

// Name implements Source.
func (c *Cached) Name() string {
	return c.source.Name()
}

// Versions implements Source.
func (c *Cached) Versions(ctx context.Context, coords Coordinates) ([]string, error) {
	if versions, ok := c.cache.Get(coords); ok {
		return versions, nil
	}
	versions, err := c.source.Versions(ctx, coords)
	if err != nil {
		return nil, err
	}
	c.cache.Add(coords, versions)
	return versions, nil
}

// Purge drops every cached entry.
func (c *Cached) Purge() {
	c.cache.Purge()
}
