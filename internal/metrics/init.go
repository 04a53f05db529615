package metrics

import (
	"net/http"
	"time"

	"sortir/internal/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitializeMetrics pre-populates expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		ScannerScansTotal.WithLabelValues(status)
		PrewarmThumbnailsTotal.WithLabelValues(status)
		for _, profile := range []string{"thumbnail", "preview"} {
			RenditionsTotal.WithLabelValues(profile, status)
		}
		for _, op := range []string{"move", "soft_delete", "restore"} {
			LifecycleOpsTotal.WithLabelValues(op, status)
		}
	}
	for _, profile := range []string{"thumbnail", "preview"} {
		RenditionDuration.WithLabelValues(profile)
		RenditionBytes.WithLabelValues(profile)
	}
}

// Serve starts the metrics listener on addr. It blocks, so callers run
// it in a goroutine; listener errors are logged, not fatal.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logging.Info("metrics listener on http://%s/metrics", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Error("metrics listener error: %v", err)
	}
}
