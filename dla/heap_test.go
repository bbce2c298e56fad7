package dla

import (
	"testing"

	"github.com/pthm-cable/dendrite/lattice"
)

func originDistance(p lattice.Point2) int64 {
	return lattice.Metric2(p, lattice.AttractorPoint)
}

func axisDistance(p lattice.Point2) int64 {
	return lattice.Metric2(p, lattice.AttractorLine)
}

func TestPointHeapOrdering(t *testing.T) {
	h := &pointHeap[lattice.Point2]{key: originDistance}
	for _, p := range []lattice.Point2{{1, 0}, {5, 0}, {0, 2}, {3, 3}, {0, 0}} {
		h.push(p)
	}

	if top, ok := h.top(); !ok || top != (lattice.Point2{5, 0}) {
		t.Fatalf("top = %v, %v; want (5,0)", top, ok)
	}

	// pop yields non-increasing metric values
	prev := int64(1 << 62)
	for h.Len() > 0 {
		p, ok := h.pop()
		if !ok {
			t.Fatal("pop failed on non-empty heap")
		}
		if m := originDistance(p); m > prev {
			t.Fatalf("pop order violated: %d after %d", m, prev)
		} else {
			prev = m
		}
	}
}

func TestPointHeapRekey(t *testing.T) {
	h := &pointHeap[lattice.Point2]{key: originDistance}
	h.push(lattice.Point2{10, 0}) // far from origin, on the x-axis
	h.push(lattice.Point2{0, 3})  // close to origin, far from the x-axis
	h.push(lattice.Point2{1, 1})

	if top, _ := h.top(); top != (lattice.Point2{10, 0}) {
		t.Fatalf("origin-metric top = %v, want (10,0)", top)
	}

	h.rekey(axisDistance)
	if top, _ := h.top(); top != (lattice.Point2{0, 3}) {
		t.Fatalf("axis-metric top = %v, want (0,3)", top)
	}
}

func TestPointHeapEmpty(t *testing.T) {
	h := &pointHeap[lattice.Point2]{key: originDistance}
	if _, ok := h.top(); ok {
		t.Error("top on empty heap should report false")
	}
	if _, ok := h.pop(); ok {
		t.Error("pop on empty heap should report false")
	}
	h.push(lattice.Point2{1, 1})
	h.clear()
	if h.Len() != 0 {
		t.Errorf("len after clear = %d", h.Len())
	}
}

func TestPointHeapReserve(t *testing.T) {
	h := &pointHeap[lattice.Point2]{key: originDistance}
	h.push(lattice.Point2{2, 0})
	h.reserve(128)
	if cap(h.items) < 128 {
		t.Errorf("cap = %d, want >= 128", cap(h.items))
	}
	if top, _ := h.top(); top != (lattice.Point2{2, 0}) {
		t.Errorf("reserve lost contents: top = %v", top)
	}
}
