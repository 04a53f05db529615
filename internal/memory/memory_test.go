package memory

import (
	"testing"
	"time"
)

func TestNoLimitNeverUnderPressure(t *testing.T) {
	m := NewMonitor(Config{CriticalWaterMark: 0.85, CheckInterval: time.Second})
	if m.limit != 0 {
		t.Skip("GOMEMLIMIT set in environment")
	}
	m.Start()
	defer m.Stop()
	if m.UnderPressure() {
		t.Error("monitor without a limit reported pressure")
	}
}

func TestUnderPressureWatermark(t *testing.T) {
	m := NewMonitor(Config{
		LimitBytes:        1000,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Second,
	})

	m.mu.Lock()
	m.current = 800
	m.mu.Unlock()
	if m.UnderPressure() {
		t.Error("800/1000 at watermark 0.85 should not be pressure")
	}

	m.mu.Lock()
	m.current = 900
	m.mu.Unlock()
	if !m.UnderPressure() {
		t.Error("900/1000 at watermark 0.85 should be pressure")
	}
}

func TestSamplePopulatesCurrent(t *testing.T) {
	m := NewMonitor(Config{
		LimitBytes:        1 << 40,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Second,
	})
	m.sample()

	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current == 0 {
		t.Error("sample left heap usage at zero")
	}
	// A terabyte limit keeps any real test heap below the watermark.
	if m.UnderPressure() {
		t.Error("unexpected pressure under a huge limit")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := NewMonitor(Config{LimitBytes: 1000, CriticalWaterMark: 0.85, CheckInterval: 10 * time.Millisecond})
	m.Start()
	m.Stop()
	m.Stop()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CriticalWaterMark != 0.85 {
		t.Errorf("CriticalWaterMark = %v, want 0.85", cfg.CriticalWaterMark)
	}
	if cfg.CheckInterval != 5*time.Second {
		t.Errorf("CheckInterval = %v, want 5s", cfg.CheckInterval)
	}
}
