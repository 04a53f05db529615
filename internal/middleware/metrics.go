package middleware

import (
	"net/http"
	"strconv"
	"time"

	"sortir/internal/metrics"
)

// metricsResponseWriter wraps http.ResponseWriter to capture the
// status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics returns a middleware that records Prometheus request
// metrics, labeled with the server name so the control API and the
// streaming server stay distinguishable.
func Metrics(server string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			rw := newMetricsResponseWriter(w)
			next.ServeHTTP(rw, r)

			metrics.HTTPRequestsTotal.WithLabelValues(
				server, r.Method, r.URL.Path, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(
				server, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}
