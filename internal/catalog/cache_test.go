package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	mu      sync.Mutex
	calls   int
	artists []Artist
	err     error
}

func (l *countingLoader) Load(context.Context) ([]Artist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.artists, l.err
}

func TestCacheReusesLoadedArtists(t *testing.T) {
	loader := &countingLoader{artists: []Artist{{Name: "Leaf"}}}
	cache := NewCache(loader, false)

	for i := 0; i < 3; i++ {
		got, err := cache.Artists(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 1, loader.calls)
}

func TestCacheReloadsInDevelopment(t *testing.T) {
	loader := &countingLoader{artists: []Artist{{Name: "Leaf"}}}
	cache := NewCache(loader, true)

	_, _ = cache.Artists(context.Background())
	_, _ = cache.Artists(context.Background())
	assert.Equal(t, 2, loader.calls)
}

func TestCacheRetriesEmptyResult(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader, false)

	_, _ = cache.Artists(context.Background())
	loader.artists = []Artist{{Name: "Leaf"}}
	got, err := cache.Artists(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, loader.calls)
}

func TestCacheInvalidate(t *testing.T) {
	loader := &countingLoader{artists: []Artist{{Name: "Leaf"}}}
	cache := NewCache(loader, false)

	_, _ = cache.Artists(context.Background())
	cache.Invalidate()
	_, _ = cache.Artists(context.Background())
	assert.Equal(t, 2, loader.calls)
}

func TestCacheReturnsLoaderError(t *testing.T) {
	loader := &countingLoader{err: errors.New("boom")}
	cache := NewCache(loader, false)

	_, err := cache.Artists(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestCacheLoadsOnceUnderConcurrency(t *testing.T) {
	loader := &countingLoader{artists: []Artist{{Name: "Leaf"}}}
	cache := NewCache(loader, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.Artists(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, loader.calls)
}
