package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Loader produces a fresh artist list.
type Loader interface {
	Load(ctx context.Context) ([]Artist, error)
}

// Cache holds the aggregated artist list for the lifetime of the process.
//
// In development mode every call reloads. Otherwise the list is loaded once
// and reused until Invalidate is called; an empty list is treated as not
// loaded. Loads are serialised so concurrent callers share one generation.
type Cache struct {
	loader      Loader
	development bool

	mu      sync.Mutex
	artists []Artist
}

// NewCache wraps loader with the reload policy.
func NewCache(loader Loader, development bool) *Cache {
	return &Cache{loader: loader, development: development}
}

// Artists returns the canonical artist list. The returned slice is shared;
// callers must treat it as read-only.
func (c *Cache) Artists(ctx context.Context) ([]Artist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.development && len(c.artists) > 0 {
		return c.artists, nil
	}

	artists, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.artists = artists

	log.Debug().Int("artists", len(artists)).Bool("development", c.development).Msg("catalog loaded")
	return artists, nil
}

// Invalidate drops the cached generation so the next call reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.artists = nil
	c.mu.Unlock()
}
