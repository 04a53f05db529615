package media

import (
	"sync"

	"sortir/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates thumbnail cache entries when files in the
// watched folder are rewritten, removed, or renamed on disk. The cache
// keys by path and trusts path identity otherwise, so this closes the
// staleness window for files modified behind the pipeline's back.
//
// Everything here is best-effort: a watcher that cannot be created or
// pointed at a folder only logs.
type Watcher struct {
	cache *ThumbnailCache

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	folder  string
}

// NewWatcher creates a Watcher in front of cache.
func NewWatcher(cache *ThumbnailCache) *Watcher {
	return &Watcher{cache: cache}
}

// WatchFolder points the watcher at folder, replacing any previously
// watched folder. Only the most recently scanned folder is watched;
// entries for other folders age out of the cache by eviction.
func (w *Watcher) WatchFolder(folder string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.folder == folder {
		return
	}

	if w.watcher == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logging.Warn("failed to create file watcher: %v", err)
			return
		}
		w.watcher = watcher
		go w.processEvents(watcher)
	}

	if w.folder != "" {
		if err := w.watcher.Remove(w.folder); err != nil {
			logging.Debug("failed to unwatch %s: %v", w.folder, err)
		}
	}

	if err := w.watcher.Add(folder); err != nil {
		logging.Warn("failed to watch %s: %v", folder, err)
		w.folder = ""
		return
	}
	w.folder = folder
	logging.Debug("watching %s for changes", folder)
}

// Close shuts the underlying fsnotify watcher down.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Warn("failed to close file watcher: %v", err)
		}
		w.watcher = nil
		w.folder = ""
	}
}

func (w *Watcher) processEvents(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.cache.Invalidate(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error: %v", err)
		}
	}
}
