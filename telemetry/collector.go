// Package telemetry observes a growing aggregate from the consumer side:
// periodic status samples are folded into fixed-duration windows, and a
// bounding-radius series supports a fitted fractal-dimension estimate. The
// engine itself stays silent; everything here reads its atomic counters.
package telemetry

import "time"

// StatusSource is the lightweight polling surface of an aggregate. All
// three reads are lock-free on the engine side.
type StatusSource interface {
	Size() uint64
	Span() int64
	FailedStickDraws() uint64
}

// Status is one poll of a generating aggregate.
type Status struct {
	Elapsed time.Duration
	Size    uint64
	Span    int64
	Misses  uint64
}

// Sample polls src at the given elapsed run time.
func Sample(src StatusSource, elapsed time.Duration) Status {
	return Status{
		Elapsed: elapsed,
		Size:    src.Size(),
		Span:    src.Span(),
		Misses:  src.FailedStickDraws(),
	}
}

// WindowStats summarises growth over one stats window.
type WindowStats struct {
	WindowStart float64 `csv:"window_start_sec"`
	WindowEnd   float64 `csv:"window_end_sec"`
	Particles   uint64  `csv:"particles"`
	Added       uint64  `csv:"particles_added"`
	GrowthRate  float64 `csv:"particles_per_sec"`
	Misses      uint64  `csv:"failed_stick_draws"`
	MissRate    float64 `csv:"failed_draws_per_sec"`
	Span        int64   `csv:"span"`
}

// Collector folds status samples into consecutive windows of fixed
// duration.
type Collector struct {
	windowSec   float64
	windowStart float64
	lastSize    uint64
	lastMisses  uint64
}

// NewCollector creates a collector with the given window duration in
// seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 1.0
	}
	return &Collector{windowSec: windowSec}
}

// Observe feeds one status sample. When the sample closes the current
// window it returns that window's stats and true.
func (c *Collector) Observe(s Status) (WindowStats, bool) {
	now := s.Elapsed.Seconds()
	if now < c.windowStart+c.windowSec {
		return WindowStats{}, false
	}
	elapsed := now - c.windowStart
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   now,
		Particles:   s.Size,
		Added:       s.Size - c.lastSize,
		GrowthRate:  float64(s.Size-c.lastSize) / elapsed,
		Misses:      s.Misses,
		MissRate:    float64(s.Misses-c.lastMisses) / elapsed,
		Span:        s.Span,
	}
	c.windowStart = now
	c.lastSize = s.Size
	c.lastMisses = s.Misses
	return stats, true
}
