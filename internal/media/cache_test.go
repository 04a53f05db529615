package media

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// countingRenderer fabricates renditions and counts how many times the
// underlying render ran.
type countingRenderer struct {
	calls atomic.Int64
	fail  bool
}

func (c *countingRenderer) Render(path string, _ Profile) ([]byte, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, ErrDecodeFailed
	}
	return []byte("thumb:" + path), nil
}

func TestCacheComputeOnce(t *testing.T) {
	r := &countingRenderer{}
	cache := NewThumbnailCache(r, 10)

	first, err := cache.Get("/photos/a.jpg")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	second, err := cache.Get("/photos/a.jpg")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("second Get() returned different bytes")
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("renderer called %d times, want 1", got)
	}
}

func TestCacheConcurrentMissesSingleRender(t *testing.T) {
	r := &countingRenderer{}
	cache := NewThumbnailCache(r, 10)

	const readers = 32
	var wg sync.WaitGroup
	results := make([][]byte, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Get("/photos/race.jpg")
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d error: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], results[0]) {
			t.Errorf("reader %d received different bytes", i)
		}
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("renderer called %d times for %d concurrent readers, want 1", got, readers)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	r := &countingRenderer{}
	cache := NewThumbnailCache(r, 3)

	for i := 0; i < 3; i++ {
		if _, err := cache.Get(fmt.Sprintf("/p/%d.jpg", i)); err != nil {
			t.Fatal(err)
		}
	}

	// Touch key 0 so key 1 becomes the oldest.
	if _, err := cache.Get("/p/0.jpg"); err != nil {
		t.Fatal(err)
	}

	// Inserting a fourth key evicts exactly key 1.
	if _, err := cache.Get("/p/3.jpg"); err != nil {
		t.Fatal(err)
	}

	before := r.calls.Load()
	if _, err := cache.Get("/p/0.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get("/p/2.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get("/p/3.jpg"); err != nil {
		t.Fatal(err)
	}
	if got := r.calls.Load(); got != before {
		t.Errorf("surviving keys re-rendered: calls went %d -> %d", before, got)
	}

	if _, err := cache.Get("/p/1.jpg"); err != nil {
		t.Fatal(err)
	}
	if got := r.calls.Load(); got != before+1 {
		t.Errorf("evicted key should re-render once, calls went %d -> %d", before, got)
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	r := &countingRenderer{fail: true}
	cache := NewThumbnailCache(r, 10)

	if _, err := cache.Get("/p/bad.jpg"); !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("Get() error = %v, want ErrDecodeFailed", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed render left %d cache entries, want 0", cache.Len())
	}

	// Next attempt hits the renderer again.
	r.fail = false
	if _, err := cache.Get("/p/bad.jpg"); err != nil {
		t.Fatalf("Get() after recovery error: %v", err)
	}
	if got := r.calls.Load(); got != 2 {
		t.Errorf("renderer called %d times, want 2", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	r := &countingRenderer{}
	cache := NewThumbnailCache(r, 10)

	if _, err := cache.Get("/p/a.jpg"); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("/p/a.jpg")

	if _, err := cache.Get("/p/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if got := r.calls.Load(); got != 2 {
		t.Errorf("renderer called %d times after invalidation, want 2", got)
	}

	// Invalidating an absent key is a no-op.
	cache.Invalidate("/p/never-seen.jpg")
}

func TestCacheCapacityFallback(t *testing.T) {
	cache := NewThumbnailCache(&countingRenderer{}, 0)
	if cache == nil {
		t.Fatal("NewThumbnailCache(0) returned nil")
	}
}
