package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"sortir/internal/assets"
	"sortir/internal/logging"
	"sortir/internal/media"
	"sortir/internal/middleware"

	"github.com/gorilla/mux"
)

// DefaultPort is the streaming port the UI shell hardcodes.
const DefaultPort = 23456

// Server is the loopback-only streaming listener. It shares the
// process-wide thumbnail cache with the control channel and must
// tolerate many concurrent requests: the UI fetches a screen of
// thumbnails in parallel while scrolling.
//
// There is no authentication: the listener binds 127.0.0.1 and is
// consumed solely by the co-located UI.
type Server struct {
	cache *media.ThumbnailCache
	srv   *http.Server
	addr  string
}

// New creates a streaming server on 127.0.0.1:port backed by cache.
func New(cache *media.ThumbnailCache, port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	s := &Server{
		cache: cache,
		addr:  net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port)),
	}

	r := mux.NewRouter()
	r.HandleFunc("/view", s.View).Methods("GET")
	r.HandleFunc("/thumbnail", s.Thumbnail).Methods("GET")

	handler := middleware.Metrics("stream")(r)
	handler = middleware.Logger(middleware.DefaultLoggingConfig())(handler)

	s.srv = &http.Server{
		Addr:        s.addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: video playback holds the response open for
		// as long as the client keeps pulling.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ViewURL returns the playback URL for an absolute asset path, in the
// form the control channel hands to the UI.
func (s *Server) ViewURL(path string) string {
	return "http://" + s.addr + "/view?path=" + url.QueryEscape(path)
}

// ListenAndServe runs the listener until Shutdown. It blocks; callers
// run it in a goroutine.
func (s *Server) ListenAndServe() error {
	logging.Info("streaming server on http://%s", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// View streams the raw bytes of the asset at the path query parameter
// with an inferred content type. http.ServeFile supplies Range
// support, which video elements require for seeking.
func (s *Server) View(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r)
	if !ok {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		logging.Error("view: failed to stat %s: %v", path, err)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if info.IsDir() {
		http.Error(w, "path is a directory", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", assets.MimeType(path))
	http.ServeFile(w, r, path)
}

// Thumbnail returns cached thumbnail bytes for the path query
// parameter, rendering on a miss. Render failures are a 500; the
// listener itself survives any input.
func (s *Server) Thumbnail(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r)
	if !ok {
		return
	}

	data, err := s.cache.Get(path)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		logging.Error("thumbnail: render failed for %s: %v", path, err)
		http.Error(w, "failed to generate thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("thumbnail: write failed for %s: %v", path, err)
	}
}

// requirePath extracts and validates the path query parameter. Both
// routes accept only absolute filesystem paths.
func requirePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path parameter is required", http.StatusBadRequest)
		return "", false
	}
	if !filepath.IsAbs(path) {
		http.Error(w, "path must be absolute", http.StatusBadRequest)
		return "", false
	}
	return filepath.Clean(path), true
}
