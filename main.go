package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sortir/internal/handlers"
	"sortir/internal/logging"
	"sortir/internal/media"
	"sortir/internal/memory"
	"sortir/internal/metrics"
	"sortir/internal/middleware"
	"sortir/internal/startup"
	"sortir/internal/stream"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("configuration error: %v", err)
	}

	// libvips is optional; imaging carries the pipeline without it.
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using pure-Go decode path: %v", err)
	}
	defer media.ShutdownVips()

	// ffmpeg is the video decoding capability; absent, video
	// thumbnails fall back to the drawn placeholder.
	frames, err := media.NewFFmpegDecoder()
	if err != nil {
		logging.Warn("video frame extraction disabled: %v", err)
		frames = nil
	}

	renderer := media.NewRenderer(frames)

	// One process-wide cache shared by the control channel and the
	// streaming server.
	cache := media.NewThumbnailCache(renderer, config.CacheCapacity)
	lifecycle := media.NewLifecycle(cache)
	watcher := media.NewWatcher(cache)
	defer watcher.Close()

	var prewarmer *media.Prewarmer
	if config.PrewarmEnabled {
		monitorCfg := memory.DefaultConfig()
		monitorCfg.LimitBytes = config.MemoryLimitBytes
		monitor := memory.NewMonitor(monitorCfg)
		monitor.Start()
		defer monitor.Stop()
		prewarmer = media.NewPrewarmer(cache, monitor)
	}

	streaming := stream.New(cache, config.StreamPort)
	go func() {
		if err := streaming.ListenAndServe(); err != nil {
			logging.Fatal("streaming server error: %v", err)
		}
	}()

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		go metrics.Serve("127.0.0.1:" + config.MetricsPort)
	}

	h := handlers.New(handlers.Options{
		Renderer:  renderer,
		Cache:     cache,
		Lifecycle: lifecycle,
		Streaming: streaming,
		Prewarmer: prewarmer,
		Watcher:   watcher,
		Version:   startup.Version,
	})

	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	handler := middleware.Metrics("control")(router)
	handler = middleware.Logger(middleware.DefaultLoggingConfig())(handler)

	srv := &http.Server{
		Addr:         "127.0.0.1:" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, streaming)

	logging.Info("control API on http://%s (started in %v)", srv.Addr, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scan", h.Scan).Methods("GET")
	api.HandleFunc("/render", h.Render).Methods("GET")
	api.HandleFunc("/metadata", h.Metadata).Methods("GET")
	api.HandleFunc("/move", h.Move).Methods("POST")
	api.HandleFunc("/delete", h.SoftDelete).Methods("POST")
	api.HandleFunc("/restore", h.Restore).Methods("POST")

	return r
}

func handleShutdown(srv *http.Server, streaming *stream.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := streaming.Shutdown(ctx); err != nil {
		logging.Warn("streaming server shutdown error: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("server shutdown error: %v", err)
	}
}
