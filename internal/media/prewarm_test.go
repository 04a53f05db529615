package media

import (
	"testing"
	"time"
)

func TestWarmPopulatesCache(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 40, 40)
	writeTestPNG(t, dir, "b.png", 40, 40)

	renderer := &countingRenderer{}
	cache := NewThumbnailCache(renderer, 16)
	p := NewPrewarmer(cache, nil)

	p.Warm(dir, []string{"a.png", "b.png"})

	deadline := time.After(5 * time.Second)
	for cache.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("cache has %d entries after warm, want 2", cache.Len())
		case <-time.After(10 * time.Millisecond):
		}
	}
	if got := renderer.calls.Load(); got != 2 {
		t.Errorf("renderer calls = %d, want 2", got)
	}
}

func TestWarmSkipsEmptyListing(t *testing.T) {
	cache := NewThumbnailCache(&countingRenderer{}, 16)
	p := NewPrewarmer(cache, nil)
	p.Warm(t.TempDir(), nil)

	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if running {
		t.Error("empty warm should not start a run")
	}
}

func TestWarmSurvivesRenderFailures(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "good.png", 40, 40)

	renderer := NewRenderer(nil)
	cache := NewThumbnailCache(renderer, 16)
	p := NewPrewarmer(cache, nil)

	// One missing file among the batch must not stall the run.
	p.Warm(dir, []string{"good.png", "missing.png"})

	deadline := time.After(5 * time.Second)
	for cache.Len() < 1 {
		select {
		case <-deadline:
			t.Fatal("good file never reached the cache")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
