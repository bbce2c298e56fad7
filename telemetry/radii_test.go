package telemetry

import (
	"math"
	"strings"
	"testing"
)

func TestRadiiRecorderIntervals(t *testing.T) {
	r := NewRadiiRecorder(100, 4) // interval 25

	r.Observe(10, 2.0) // below first boundary
	if len(r.Samples()) != 0 {
		t.Fatalf("premature sample: %v", r.Samples())
	}

	r.Observe(30, 5.0)
	r.Observe(40, 6.0) // next boundary is 50
	r.Observe(120, 9.0)

	samples := r.Samples()
	if len(samples) != 2 {
		t.Fatalf("recorded %d samples, want 2", len(samples))
	}
	if samples[0] != (RadiusSample{Particles: 30, Radius: 5.0}) {
		t.Errorf("samples[0] = %+v", samples[0])
	}
	if samples[1] != (RadiusSample{Particles: 120, Radius: 9.0}) {
		t.Errorf("samples[1] = %+v", samples[1])
	}
}

func TestRadiiRecorderWriteTo(t *testing.T) {
	r := NewRadiiRecorder(10, 2)
	r.Observe(5, 2.5)
	r.Observe(10, 4.0)

	var sb strings.Builder
	if _, err := r.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	want := "5\t2.5\n10\t4\n"
	if sb.String() != want {
		t.Errorf("WriteTo output = %q, want %q", sb.String(), want)
	}
}

func TestFitDimension(t *testing.T) {
	r := NewRadiiRecorder(100, 25)
	// N = R^2 exactly: the log-log slope is 2.
	r.Observe(4, 2)
	r.Observe(16, 4)
	r.Observe(64, 8)

	dim, ok := r.FitDimension()
	if !ok {
		t.Fatal("FitDimension reported no fit")
	}
	if math.Abs(dim-2.0) > 1e-9 {
		t.Errorf("fitted dimension = %v, want 2.0", dim)
	}
}

func TestFitDimensionInsufficientData(t *testing.T) {
	r := NewRadiiRecorder(100, 25)
	if _, ok := r.FitDimension(); ok {
		t.Error("fit reported on empty series")
	}
	r.Observe(4, 2)
	if _, ok := r.FitDimension(); ok {
		t.Error("fit reported on single sample")
	}
}
