// Package memory provides a heap watermark monitor used to throttle
// background rendition work under memory pressure.
package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"sortir/internal/logging"
	"sortir/internal/metrics"
)

// Config holds memory monitor configuration.
type Config struct {
	// LimitBytes is the soft memory limit (0 = use GOMEMLIMIT, or
	// disable monitoring when neither is set).
	LimitBytes int64

	// CriticalWaterMark is the fraction of the limit at which
	// background work should pause (0.0-1.0).
	CriticalWaterMark float64

	// CheckInterval is how often heap usage is sampled.
	CheckInterval time.Duration
}

// DefaultConfig returns sensible monitor defaults.
func DefaultConfig() Config {
	return Config{
		LimitBytes:        0,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor samples heap usage and reports whether background work
// should hold off. With no limit configured it never reports pressure.
type Monitor struct {
	config   Config
	limit    int64
	stopChan chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	current uint64
}

// NewMonitor creates a memory monitor.
func NewMonitor(config Config) *Monitor {
	limit := config.LimitBytes
	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
			logging.Info("memory monitor using GOMEMLIMIT: %.1f MB", float64(limit)/(1024*1024))
		}
	}
	if limit == 0 {
		logging.Debug("memory monitor: no limit configured, pressure reporting disabled")
	}

	return &Monitor{
		config:   config,
		limit:    limit,
		stopChan: make(chan struct{}),
	}
}

// Start begins sampling in a background goroutine. No-op without a
// configured limit.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.loop()
}

// Stop halts sampling.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.mu.Lock()
	m.current = stats.HeapAlloc
	m.mu.Unlock()

	metrics.MemoryUsageBytes.Set(float64(stats.HeapAlloc))
}

// UnderPressure reports whether heap usage has crossed the critical
// watermark.
func (m *Monitor) UnderPressure() bool {
	if m.limit == 0 {
		return false
	}
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	return float64(current) >= float64(m.limit)*m.config.CriticalWaterMark
}
