package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
)

// RadiusSample pairs an aggregate size with the bounding radius that
// contained it at that size.
type RadiusSample struct {
	Particles uint64  `csv:"particles"`
	Radius    float64 `csv:"radius"`
}

// RadiiRecorder accumulates (particles, bounding radius) pairs at roughly
// target/npoints particle intervals while an aggregate grows.
type RadiiRecorder struct {
	interval uint64
	next     uint64
	samples  []RadiusSample
}

// NewRadiiRecorder sizes the recording interval so that a run up to target
// particles yields about npoints samples.
func NewRadiiRecorder(target uint64, npoints int) *RadiiRecorder {
	if npoints < 1 {
		npoints = 50
	}
	interval := target / uint64(npoints)
	if interval < 1 {
		interval = 1
	}
	return &RadiiRecorder{interval: interval, next: interval, samples: make([]RadiusSample, 0, npoints)}
}

// Observe records a sample whenever the aggregate has crossed the next
// interval boundary since the previous one.
func (r *RadiiRecorder) Observe(size uint64, radius float64) {
	if size < r.next {
		return
	}
	r.samples = append(r.samples, RadiusSample{Particles: size, Radius: radius})
	for r.next <= size {
		r.next += r.interval
	}
}

// Samples returns the recorded series.
func (r *RadiiRecorder) Samples() []RadiusSample {
	return r.samples
}

// WriteTo writes the series as "particles<TAB>radius" lines.
func (r *RadiiRecorder) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, s := range r.samples {
		written, err := fmt.Fprintf(bw, "%d\t%v\n", s.Particles, s.Radius)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// FitDimension estimates the fractal dimension as the slope of ln N over
// ln R across the recorded series. Reports false when fewer than two
// usable samples exist.
func (r *RadiiRecorder) FitDimension() (float64, bool) {
	var lnR, lnN []float64
	for _, s := range r.samples {
		if s.Radius <= 1 || s.Particles < 2 {
			continue
		}
		lnR = append(lnR, math.Log(s.Radius))
		lnN = append(lnN, math.Log(float64(s.Particles)))
	}
	if len(lnR) < 2 || lnR[0] == lnR[len(lnR)-1] {
		return 0, false
	}
	_, slope := stat.LinearRegression(lnR, lnN, nil, false)
	return slope, true
}
