package media

import (
	"sortir/internal/logging"
	"sortir/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity is the default maximum number of thumbnail
// entries held in memory.
const DefaultCacheCapacity = 1000

// ThumbnailCache memoizes thumbnail-profile renditions keyed by
// absolute path. It is the one shared mutable structure between the
// control channel and the streaming server, so a single instance is
// injected into both.
//
// Keys are paths, not content hashes: the cache trusts path identity
// for its lifetime. In-place rewrites are handled by explicit
// invalidation (lifecycle operations and the folder watcher), not by
// detection.
type ThumbnailCache struct {
	renderer thumbnailRenderer
	entries  *lru.Cache[string, []byte]
	group    singleflight.Group
}

// thumbnailRenderer is the slice of Renderer the cache needs; tests
// substitute counting fakes to assert the compute-once guarantee.
type thumbnailRenderer interface {
	Render(path string, profile Profile) ([]byte, error)
}

// NewThumbnailCache creates a cache of the given capacity in front of
// renderer. Capacity values below 1 fall back to the default.
func NewThumbnailCache(renderer thumbnailRenderer, capacity int) *ThumbnailCache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	entries, err := lru.NewWithEvict[string, []byte](capacity, func(key string, _ []byte) {
		metrics.CacheEvictionsTotal.Inc()
		logging.Debug("thumbnail cache evicted %s", key)
	})
	if err != nil {
		// lru only errors on capacity < 1, which is guarded above.
		panic(err)
	}
	return &ThumbnailCache{
		renderer: renderer,
		entries:  entries,
	}
}

// Get returns the thumbnail rendition for path, computing it on a
// miss. Concurrent misses for the same key collapse into a single
// render; every waiter receives the same bytes. A hit refreshes the
// entry's recency.
func (c *ThumbnailCache) Get(path string) ([]byte, error) {
	if data, ok := c.entries.Get(path); ok {
		metrics.CacheHitsTotal.Inc()
		return data, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		// A racing caller may have populated the entry while we waited
		// on the flight group.
		if data, ok := c.entries.Get(path); ok {
			metrics.CacheHitsTotal.Inc()
			return data, nil
		}
		metrics.CacheMissesTotal.Inc()

		data, err := c.renderer.Render(path, ProfileThumbnail)
		if err != nil {
			return nil, err
		}
		c.entries.Add(path, data)
		metrics.CacheEntries.Set(float64(c.entries.Len()))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops the entry for path, if present. Called when a
// lifecycle operation or a filesystem event makes the cached bytes
// stale.
func (c *ThumbnailCache) Invalidate(path string) {
	if c.entries.Remove(path) {
		metrics.CacheInvalidationsTotal.Inc()
		metrics.CacheEntries.Set(float64(c.entries.Len()))
		logging.Debug("thumbnail cache invalidated %s", path)
	}
}

// Len returns the current entry count.
func (c *ThumbnailCache) Len() int {
	return c.entries.Len()
}
