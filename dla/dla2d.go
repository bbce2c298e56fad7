package dla

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"math"
	"sync/atomic"

	"github.com/pthm-cable/dendrite/lattice"
)

// DLA2D grows a diffusion-limited aggregate on a 2D integer lattice.
//
// One goroutine may run Generate while one other goroutine polls Size,
// Span, FailedStickDraws and ConsumeBuffer. All configuration setters and
// Clone require that no generation is in progress.
type DLA2D struct {
	stick      float64
	lat        lattice.Type
	attr       lattice.Attractor
	attrSize   int
	spawnAbove bool
	spawnBelow bool

	rng   *Source
	st    *store[lattice.Point2]
	seeds map[lattice.Point2]struct{}

	abort      atomic.Bool
	continuous atomic.Bool

	last   lattice.Point2
	lastOK bool
}

// New2D returns an empty 2D aggregate on a square lattice with a point
// attractor and a stickiness coefficient of 1, seeded non-deterministically.
func New2D() *DLA2D {
	d, _ := New2DWithGeometry(lattice.Square, lattice.AttractorPoint, 0, 1.0)
	return d
}

// New2DWithStickiness is New2D with an explicit stickiness coefficient.
func New2DWithStickiness(cs float64) (*DLA2D, error) {
	return New2DWithGeometry(lattice.Square, lattice.AttractorPoint, 0, cs)
}

// New2DWithGeometry returns an empty 2D aggregate with the given lattice
// and attractor geometry.
func New2DWithGeometry(lt lattice.Type, at lattice.Attractor, attractorSize int, cs float64) (*DLA2D, error) {
	if err := validateCoeffStick(cs); err != nil {
		return nil, err
	}
	if err := validateAttractor(at, attractorSize, false); err != nil {
		return nil, err
	}
	d := &DLA2D{
		stick:      cs,
		lat:        lt,
		attr:       at,
		attrSize:   attractorSize,
		spawnAbove: true,
		spawnBelow: true,
		rng:        NewRandomSource(),
	}
	d.st = newStore[lattice.Point2](d.metric)
	return d, nil
}

func (d *DLA2D) metric(p lattice.Point2) int64 {
	return lattice.Metric2(p, d.attr)
}

// Reseed rewinds the random source onto a new seed. Call before Generate
// for a reproducible run.
func (d *DLA2D) Reseed(seed uint64) {
	d.rng.Reseed(seed)
}

// Size returns the number of stuck particles, including the seed.
func (d *DLA2D) Size() uint64 { return d.st.size.Load() }

// Span returns the attractor metric of the farthest particle.
func (d *DLA2D) Span() int64 { return d.st.span.Load() }

// FailedStickDraws returns how many stick draws have exceeded the
// stickiness coefficient. Every draw counts, whether or not the walker was
// touching the aggregate when it was made.
func (d *DLA2D) FailedStickDraws() uint64 { return d.st.misses.Load() }

// CoeffStick returns the stickiness coefficient.
func (d *DLA2D) CoeffStick() float64 { return d.stick }

// SetCoeffStick sets the Bernoulli probability that a colliding walker
// sticks. cs must lie in (0,1].
func (d *DLA2D) SetCoeffStick(cs float64) error {
	if err := validateCoeffStick(cs); err != nil {
		return err
	}
	d.stick = cs
	return nil
}

// Lattice returns the lattice type.
func (d *DLA2D) Lattice() lattice.Type { return d.lat }

// SetLattice selects the neighbour set for the walk.
func (d *DLA2D) SetLattice(t lattice.Type) { d.lat = t }

// Attractor returns the attractor geometry and its size.
func (d *DLA2D) Attractor() (lattice.Attractor, int) { return d.attr, d.attrSize }

// SetAttractor replaces the seed geometry. The attractor cell set is
// recomputed and the extremum heap is rebuilt under the new metric.
func (d *DLA2D) SetAttractor(at lattice.Attractor, size int) error {
	if err := validateAttractor(at, size, false); err != nil {
		return err
	}
	d.attr = at
	d.attrSize = size
	d.rebuildSeeds()
	d.st.rekey(d.metric)
	return nil
}

// SetSpawnSource restricts walker spawning to the upper or lower
// half-space. At least one must stay enabled.
func (d *DLA2D) SetSpawnSource(above, below bool) error {
	if err := validateSpawnSource(above, below); err != nil {
		return err
	}
	d.spawnAbove = above
	d.spawnBelow = below
	return nil
}

// SetContinuous toggles continuous mode: Generate ignores its target count
// and runs until aborted.
func (d *DLA2D) SetContinuous(on bool) { d.continuous.Store(on) }

// RaiseAbort makes a running Generate return at its next iteration. The
// flag clears itself when observed, so a later Generate starts fresh.
func (d *DLA2D) RaiseAbort() { d.abort.Store(true) }

// LastStuck returns the most recently attached particle.
func (d *DLA2D) LastStuck() (lattice.Point2, bool) {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	return d.last, d.lastOK
}

// ConsumeBuffer returns a copy of the insertion-ordered buffer from cursor
// onward. A consumer advancing its cursor by each returned length sees
// every particle exactly once, in the order it stuck.
func (d *DLA2D) ConsumeBuffer(cursor int) []lattice.Point2 {
	return d.st.consume(cursor)
}

// Buffer returns a copy of the whole insertion-ordered buffer.
func (d *DLA2D) Buffer() []lattice.Point2 {
	return d.st.snapshot()
}

// Clear empties the aggregate and rewinds the random source, keeping all
// configuration.
func (d *DLA2D) Clear() {
	d.st.reset()
	d.rng.Reset()
	d.st.mu.Lock()
	d.last = lattice.Point2{}
	d.lastOK = false
	d.st.mu.Unlock()
}

// Clone returns a fully independent copy, including the exact random
// source state.
func (d *DLA2D) Clone() *DLA2D {
	c := &DLA2D{
		stick:      d.stick,
		lat:        d.lat,
		attr:       d.attr,
		attrSize:   d.attrSize,
		spawnAbove: d.spawnAbove,
		spawnBelow: d.spawnBelow,
		rng:        d.rng.Clone(),
		last:       d.last,
		lastOK:     d.lastOK,
	}
	c.st = d.st.clone()
	// Same ordering, new receiver: no reheapify needed.
	c.st.extremum.key = c.metric
	if d.seeds != nil {
		c.seeds = maps.Clone(d.seeds)
	}
	c.continuous.Store(d.continuous.Load())
	return c
}

// Generate grows the aggregate until it holds n particles, or until abort
// in continuous mode. A partially grown aggregate resumes where it
// stopped.
func (d *DLA2D) Generate(n uint64) {
	if d.seeds == nil {
		d.rebuildSeeds()
	}
	if n > 0 {
		d.st.reserve(n)
	}
	if d.st.size.Load() == 0 {
		d.pushParticle(lattice.Point2{}, 0)
	}
	idx := d.st.size.Load() - 1

	var cur, prev lattice.Point2
	spawned := false
	diam := 0

	for d.st.size.Load() < n || d.continuous.Load() {
		if d.abort.CompareAndSwap(true, false) {
			return
		}
		if !spawned {
			diam = d.spawnParticle(&cur)
			spawned = true
		}
		prev = cur
		lattice.Step2(&cur, d.lat, d.rng.Float64())
		lattice.Reflect2(&cur, prev, diam, d.attrSize, d.attr)
		if d.aggregateCollision(cur, prev, d.rng.Float64(), &idx) {
			spawned = false
		}
	}
}

// rebuildSeeds recomputes the attractor cell set from the current
// geometry. Never called while a walk is in flight.
func (d *DLA2D) rebuildSeeds() {
	d.seeds = make(map[lattice.Point2]struct{})
	switch d.attr {
	case lattice.AttractorLine:
		half := d.attrSize / 2
		for x := -half; x <= half; x++ {
			d.seeds[lattice.Point2{X: x}] = struct{}{}
		}
	default:
		d.seeds[lattice.Point2{}] = struct{}{}
	}
}

// spawnParticle places a fresh walker uniformly on the spawn envelope and
// returns the envelope diameter.
func (d *DLA2D) spawnParticle(p *lattice.Point2) int {
	diam := spawnOffset
	if top, ok := d.st.top(); ok {
		diam = 2*int(math.Sqrt(float64(lattice.Metric2(top, d.attr)))) + spawnOffset
	}
	switch d.attr {
	case lattice.AttractorLine:
		y := diam
		switch {
		case d.spawnAbove && d.spawnBelow:
			if d.rng.Float64() < 0.5 {
				y = -diam
			}
		case d.spawnBelow:
			y = -diam
		}
		p.X = int(float64(d.attrSize) * (d.rng.Float64() - 0.5))
		p.Y = y
	default:
		half := diam / 2
		place := d.rng.Float64()
		switch {
		case place < 0.25: // upper face
			p.X = int(float64(diam) * (d.rng.Float64() - 0.5))
			p.Y = half
			if !d.spawnAbove {
				p.Y = -half
			}
		case place < 0.5: // lower face
			p.X = int(float64(diam) * (d.rng.Float64() - 0.5))
			p.Y = -half
			if !d.spawnBelow {
				p.Y = half
			}
		case place < 0.75: // right face
			p.X = half
			p.Y = d.offAxisDraw(diam)
		default: // left face
			p.X = -half
			p.Y = d.offAxisDraw(diam)
		}
	}
	return diam
}

// offAxisDraw picks the tangent coordinate on a vertical face, restricted
// to the allowed half-space.
func (d *DLA2D) offAxisDraw(diam int) int {
	u := d.rng.Float64()
	switch {
	case d.spawnAbove && d.spawnBelow:
		return int(float64(diam) * (u - 0.5))
	case d.spawnAbove:
		return int(float64(diam/2) * u)
	default:
		return -int(float64(diam/2) * u)
	}
}

// aggregateCollision runs the per-iteration stick test and membership
// check. The particle sticks at prev, the last empty cell it occupied.
func (d *DLA2D) aggregateCollision(cur, prev lattice.Point2, uStick float64, idx *uint64) bool {
	if uStick > d.stick {
		d.st.misses.Add(1)
		return false
	}
	if !d.st.contains(cur) {
		if _, ok := d.seeds[cur]; !ok {
			return false
		}
	}
	if d.pushParticle(prev, *idx+1) {
		*idx++
	}
	return true
}

func (d *DLA2D) pushParticle(p lattice.Point2, idx uint64) bool {
	if !d.st.push(p, idx) {
		return false
	}
	d.st.mu.Lock()
	d.last = p
	d.lastOK = true
	d.st.mu.Unlock()
	return true
}

// EstimateFractalDimension returns ln(size)/ln(R), where R is the bounding
// radius under the current attractor metric. A coarse estimate; the
// telemetry radii series gives a sharper fitted one.
func (d *DLA2D) EstimateFractalDimension() float64 {
	n := d.Size()
	r := math.Sqrt(float64(d.Span()))
	if n < 2 || r <= 1 {
		return 0
	}
	return math.Log(float64(n)) / math.Log(r)
}

// Write streams the aggregate as tab-separated text. The default form is
// one "<index>\t<x>\t<y>" line per particle; with sortByGenOrder only the
// coordinates are written, in the order particles stuck.
func (d *DLA2D) Write(w io.Writer, sortByGenOrder bool) error {
	buf := d.st.snapshot()
	bw := bufio.NewWriter(w)
	if sortByGenOrder {
		for _, p := range buf {
			fmt.Fprintf(bw, "%d\t%d\n", p.X, p.Y)
		}
	} else {
		for i, p := range buf {
			fmt.Fprintf(bw, "%d\t%d\t%d\n", i, p.X, p.Y)
		}
	}
	return bw.Flush()
}
