package handlers

import (
	"encoding/json"
	"net/http"

	"sortir/internal/logging"
	"sortir/internal/media"
	"sortir/internal/stream"
)

// Handlers wires the control-API routes to the pipeline.
type Handlers struct {
	renderer  *media.Renderer
	cache     *media.ThumbnailCache
	lifecycle *media.Lifecycle
	streaming *stream.Server
	prewarmer *media.Prewarmer
	watcher   *media.Watcher
	version   string
}

// Options collects the collaborators the handlers need. Prewarmer and
// Watcher are optional.
type Options struct {
	Renderer  *media.Renderer
	Cache     *media.ThumbnailCache
	Lifecycle *media.Lifecycle
	Streaming *stream.Server
	Prewarmer *media.Prewarmer
	Watcher   *media.Watcher
	Version   string
}

// New creates the control-API handler set.
func New(opts Options) *Handlers {
	return &Handlers{
		renderer:  opts.Renderer,
		cache:     opts.Cache,
		lifecycle: opts.Lifecycle,
		streaming: opts.Streaming,
		prewarmer: opts.Prewarmer,
		watcher:   opts.Watcher,
		version:   opts.Version,
	}
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are logged since we typically cannot recover from
// them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given
// status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error("failed to encode JSON error response: %v", err)
	}
}
