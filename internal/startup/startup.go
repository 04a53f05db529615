package startup

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"sortir/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Config holds all application configuration.
type Config struct {
	// Port is the control-API listen port on loopback.
	Port string
	// StreamPort is the streaming server port on loopback. The UI
	// shell hardcodes 23456.
	StreamPort int
	// MetricsPort is the Prometheus listener port.
	MetricsPort string
	// MetricsEnabled gates the metrics listener.
	MetricsEnabled bool
	// CacheCapacity is the maximum thumbnail cache entry count.
	CacheCapacity int
	// PrewarmEnabled turns on background thumbnail prewarming after a
	// scan.
	PrewarmEnabled bool
	// MemoryLimitBytes is the soft limit for prewarm backpressure
	// (0 = GOMEMLIMIT or disabled).
	MemoryLimitBytes int64
}

// LoadConfig loads and validates configuration from environment
// variables, logging every knob the way the rest of the startup
// sequence does.
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	port := getEnv("PORT", "8080")
	streamPort := getEnvInt("STREAM_PORT", 23456)
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	cacheCapacity := getEnvInt("CACHE_CAPACITY", 1000)
	prewarmEnabled := getEnvBool("PREWARM_ENABLED", false)
	memoryLimit := int64(getEnvInt("MEMORY_LIMIT_MB", 0)) * 1024 * 1024

	logging.Info("  PORT:             %s", port)
	logging.Info("  STREAM_PORT:      %d", streamPort)
	logging.Info("  METRICS_PORT:     %s", metricsPort)
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  CACHE_CAPACITY:   %d", cacheCapacity)
	logging.Info("  PREWARM_ENABLED:  %v", prewarmEnabled)
	logging.Info("  MEMORY_LIMIT_MB:  %d", memoryLimit/(1024*1024))
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	if _, err := strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
	}
	if streamPort <= 0 || streamPort > 65535 {
		return nil, fmt.Errorf("invalid STREAM_PORT %d", streamPort)
	}
	if cacheCapacity < 1 {
		logging.Warn("  Invalid CACHE_CAPACITY, using default: 1000")
		cacheCapacity = 1000
	}

	return &Config{
		Port:             port,
		StreamPort:       streamPort,
		MetricsPort:      metricsPort,
		MetricsEnabled:   metricsEnabled,
		CacheCapacity:    cacheCapacity,
		PrewarmEnabled:   prewarmEnabled,
		MemoryLimitBytes: memoryLimit,
	}, nil
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("  sortir %s (%s)", Version, Commit)
	logging.Info("  built %s, %s, %s/%s", BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	logging.Info("============================================================")
}

// LogHTTPRoutes walks the router and logs each registered route.
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP ROUTES")
	logging.Info("------------------------------------------------------------")

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ANY"}
		}
		logging.Info("  %-7s %s", strings.Join(methods, ","), path)
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk routes: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
