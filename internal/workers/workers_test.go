package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"cpu bound", 1.0, 0, cpus},
		{"io bound", 2.0, 0, cpus * 2},
		{"limit caps", 1.0, 1, 1},
		{"zero multiplier floors at one", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountEnvOverride(t *testing.T) {
	t.Setenv("RENDER_WORKERS", "3")
	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count = %d, want override 3", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count = %d, want limit 2 to cap the override", got)
	}
}

func TestCountEnvOverrideInvalid(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)
	t.Setenv("RENDER_WORKERS", "banana")
	if got := Count(1.0, 0); got != cpus {
		t.Errorf("Count = %d, want %d when override is unparsable", got, cpus)
	}
}

func TestForCPUAndForIO(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)
	if got := ForCPU(0); got != cpus {
		t.Errorf("ForCPU = %d, want %d", got, cpus)
	}
	if got := ForIO(0); got != cpus*2 {
		t.Errorf("ForIO = %d, want %d", got, cpus*2)
	}
}
