package media

import (
	"path/filepath"
	"sync"
	"time"

	"sortir/internal/logging"
	"sortir/internal/memory"
	"sortir/internal/metrics"
	"sortir/internal/workers"
)

// Prewarmer renders thumbnails for a freshly scanned folder ahead of
// demand, so the grid does not pay first-view decode latency while a
// user scrolls. Work runs on a small CPU-sized pool writing through
// the shared cache, and backs off while the memory monitor reports
// pressure.
type Prewarmer struct {
	cache   *ThumbnailCache
	monitor *memory.Monitor

	mu      sync.Mutex
	running bool
}

// NewPrewarmer creates a Prewarmer. monitor may be nil, in which case
// no backpressure is applied.
func NewPrewarmer(cache *ThumbnailCache, monitor *memory.Monitor) *Prewarmer {
	return &Prewarmer{cache: cache, monitor: monitor}
}

// Warm renders thumbnails for the named files in folder. It returns
// immediately; the work runs in the background. Only one warm run is
// active at a time — a scan that arrives mid-run is skipped, since the
// user has already navigated away from the previous listing.
func (p *Prewarmer) Warm(folder string, filenames []string) {
	if len(filenames) == 0 {
		return
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		logging.Debug("prewarm already running, skipping %s", folder)
		return
	}
	p.running = true
	p.mu.Unlock()

	metrics.PrewarmRunsTotal.Inc()

	go func() {
		defer func() {
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
		}()

		count := workers.ForCPU(8)
		jobs := make(chan string)

		var wg sync.WaitGroup
		for i := 0; i < count; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for path := range jobs {
					p.waitForHeadroom()
					if _, err := p.cache.Get(path); err != nil {
						metrics.PrewarmThumbnailsTotal.WithLabelValues("error").Inc()
						logging.Debug("prewarm render failed for %s: %v", path, err)
					} else {
						metrics.PrewarmThumbnailsTotal.WithLabelValues("success").Inc()
					}
				}
			}()
		}

		for _, name := range filenames {
			jobs <- filepath.Join(folder, name)
		}
		close(jobs)
		wg.Wait()

		logging.Debug("prewarm complete for %s (%d files, %d workers)", folder, len(filenames), count)
	}()
}

// waitForHeadroom blocks while the memory monitor reports pressure.
func (p *Prewarmer) waitForHeadroom() {
	if p.monitor == nil {
		return
	}
	for p.monitor.UnderPressure() {
		metrics.MemoryPressurePauses.Inc()
		time.Sleep(time.Second)
	}
}
