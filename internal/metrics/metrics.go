package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"server", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortir_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"server", "method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sortir_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scanner metrics
var (
	ScannerScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_scanner_scans_total",
			Help: "Total number of directory scans",
		},
		[]string{"status"},
	)

	ScannerFilesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sortir_scanner_files_returned",
			Help:    "Number of matching files returned per scan",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
		},
	)
)

// Rendition metrics
var (
	RenditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_renditions_total",
			Help: "Total number of rendition generations",
		},
		[]string{"profile", "status"},
	)

	RenditionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortir_rendition_duration_seconds",
			Help:    "Rendition generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"profile"},
	)

	RenditionBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortir_rendition_bytes",
			Help:    "Size of generated renditions in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"profile"},
	)

	FramePlaceholdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_frame_placeholders_total",
			Help: "Total number of placeholder frames served in place of a decoded video frame",
		},
	)
)

// Thumbnail cache metrics
var (
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	CacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_thumbnail_cache_evictions_total",
			Help: "Total number of thumbnail cache evictions",
		},
	)

	CacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_thumbnail_cache_invalidations_total",
			Help: "Total number of explicit thumbnail cache invalidations",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sortir_thumbnail_cache_entries",
			Help: "Current number of entries in the thumbnail cache",
		},
	)
)

// Lifecycle metrics
var (
	LifecycleOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_lifecycle_operations_total",
			Help: "Total number of file lifecycle operations",
		},
		[]string{"operation", "status"},
	)
)

// Prewarm metrics
var (
	PrewarmRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_prewarm_runs_total",
			Help: "Total number of thumbnail prewarm runs",
		},
	)

	PrewarmThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_prewarm_thumbnails_total",
			Help: "Total number of thumbnails rendered by the prewarmer",
		},
		[]string{"status"},
	)
)

// Memory metrics
var (
	MemoryUsageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sortir_memory_usage_bytes",
			Help: "Current heap usage as seen by the memory monitor",
		},
	)

	MemoryPressurePauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sortir_memory_pressure_pauses_total",
			Help: "Total number of times background work paused for memory pressure",
		},
	)
)
