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

// DLA3D grows a diffusion-limited aggregate on a 3D integer lattice. It
// carries the same producer/consumer contract as DLA2D and additionally
// supports the plane attractor.
type DLA3D struct {
	stick      float64
	lat        lattice.Type
	attr       lattice.Attractor
	attrSize   int
	spawnAbove bool
	spawnBelow bool

	rng   *Source
	st    *store[lattice.Point3]
	seeds map[lattice.Point3]struct{}

	abort      atomic.Bool
	continuous atomic.Bool

	last   lattice.Point3
	lastOK bool
}

// New3D returns an empty 3D aggregate on a square lattice with a point
// attractor and a stickiness coefficient of 1, seeded non-deterministically.
func New3D() *DLA3D {
	d, _ := New3DWithGeometry(lattice.Square, lattice.AttractorPoint, 0, 1.0)
	return d
}

// New3DWithStickiness is New3D with an explicit stickiness coefficient.
func New3DWithStickiness(cs float64) (*DLA3D, error) {
	return New3DWithGeometry(lattice.Square, lattice.AttractorPoint, 0, cs)
}

// New3DWithGeometry returns an empty 3D aggregate with the given lattice
// and attractor geometry.
func New3DWithGeometry(lt lattice.Type, at lattice.Attractor, attractorSize int, cs float64) (*DLA3D, error) {
	if err := validateCoeffStick(cs); err != nil {
		return nil, err
	}
	if err := validateAttractor(at, attractorSize, true); err != nil {
		return nil, err
	}
	d := &DLA3D{
		stick:      cs,
		lat:        lt,
		attr:       at,
		attrSize:   attractorSize,
		spawnAbove: true,
		spawnBelow: true,
		rng:        NewRandomSource(),
	}
	d.st = newStore[lattice.Point3](d.metric)
	return d, nil
}

func (d *DLA3D) metric(p lattice.Point3) int64 {
	return lattice.Metric3(p, d.attr)
}

// Reseed rewinds the random source onto a new seed. Call before Generate
// for a reproducible run.
func (d *DLA3D) Reseed(seed uint64) {
	d.rng.Reseed(seed)
}

// Size returns the number of stuck particles, including the seed.
func (d *DLA3D) Size() uint64 { return d.st.size.Load() }

// Span returns the attractor metric of the farthest particle.
func (d *DLA3D) Span() int64 { return d.st.span.Load() }

// FailedStickDraws returns how many stick draws have exceeded the
// stickiness coefficient. Every draw counts, whether or not the walker was
// touching the aggregate when it was made.
func (d *DLA3D) FailedStickDraws() uint64 { return d.st.misses.Load() }

// CoeffStick returns the stickiness coefficient.
func (d *DLA3D) CoeffStick() float64 { return d.stick }

// SetCoeffStick sets the Bernoulli probability that a colliding walker
// sticks. cs must lie in (0,1].
func (d *DLA3D) SetCoeffStick(cs float64) error {
	if err := validateCoeffStick(cs); err != nil {
		return err
	}
	d.stick = cs
	return nil
}

// Lattice returns the lattice type.
func (d *DLA3D) Lattice() lattice.Type { return d.lat }

// SetLattice selects the neighbour set for the walk.
func (d *DLA3D) SetLattice(t lattice.Type) { d.lat = t }

// Attractor returns the attractor geometry and its size.
func (d *DLA3D) Attractor() (lattice.Attractor, int) { return d.attr, d.attrSize }

// SetAttractor replaces the seed geometry. The attractor cell set is
// recomputed and the extremum heap is rebuilt under the new metric.
func (d *DLA3D) SetAttractor(at lattice.Attractor, size int) error {
	if err := validateAttractor(at, size, true); err != nil {
		return err
	}
	d.attr = at
	d.attrSize = size
	d.rebuildSeeds()
	d.st.rekey(d.metric)
	return nil
}

// SetSpawnSource restricts walker spawning to the upper or lower
// half-space along z. At least one must stay enabled.
func (d *DLA3D) SetSpawnSource(above, below bool) error {
	if err := validateSpawnSource(above, below); err != nil {
		return err
	}
	d.spawnAbove = above
	d.spawnBelow = below
	return nil
}

// SetContinuous toggles continuous mode: Generate ignores its target count
// and runs until aborted.
func (d *DLA3D) SetContinuous(on bool) { d.continuous.Store(on) }

// RaiseAbort makes a running Generate return at its next iteration. The
// flag clears itself when observed, so a later Generate starts fresh.
func (d *DLA3D) RaiseAbort() { d.abort.Store(true) }

// LastStuck returns the most recently attached particle.
func (d *DLA3D) LastStuck() (lattice.Point3, bool) {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	return d.last, d.lastOK
}

// ConsumeBuffer returns a copy of the insertion-ordered buffer from cursor
// onward. A consumer advancing its cursor by each returned length sees
// every particle exactly once, in the order it stuck.
func (d *DLA3D) ConsumeBuffer(cursor int) []lattice.Point3 {
	return d.st.consume(cursor)
}

// Buffer returns a copy of the whole insertion-ordered buffer.
func (d *DLA3D) Buffer() []lattice.Point3 {
	return d.st.snapshot()
}

// Clear empties the aggregate and rewinds the random source, keeping all
// configuration.
func (d *DLA3D) Clear() {
	d.st.reset()
	d.rng.Reset()
	d.st.mu.Lock()
	d.last = lattice.Point3{}
	d.lastOK = false
	d.st.mu.Unlock()
}

// Clone returns a fully independent copy, including the exact random
// source state.
func (d *DLA3D) Clone() *DLA3D {
	c := &DLA3D{
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
func (d *DLA3D) Generate(n uint64) {
	if d.seeds == nil {
		d.rebuildSeeds()
	}
	if n > 0 {
		d.st.reserve(n)
	}
	if d.st.size.Load() == 0 {
		d.pushParticle(lattice.Point3{}, 0)
	}
	idx := d.st.size.Load() - 1

	var cur, prev lattice.Point3
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
		lattice.Step3(&cur, d.lat, d.rng.Float64())
		lattice.Reflect3(&cur, prev, diam, d.attrSize, d.attr)
		if d.aggregateCollision(cur, prev, d.rng.Float64(), &idx) {
			spawned = false
		}
	}
}

// rebuildSeeds recomputes the attractor cell set from the current
// geometry. Never called while a walk is in flight.
func (d *DLA3D) rebuildSeeds() {
	d.seeds = make(map[lattice.Point3]struct{})
	switch d.attr {
	case lattice.AttractorLine:
		half := d.attrSize / 2
		for x := -half; x <= half; x++ {
			d.seeds[lattice.Point3{X: x}] = struct{}{}
		}
	case lattice.AttractorPlane:
		half := d.attrSize / 2
		for x := -half; x <= half; x++ {
			for y := -half; y <= half; y++ {
				d.seeds[lattice.Point3{X: x, Y: y}] = struct{}{}
			}
		}
	default:
		d.seeds[lattice.Point3{}] = struct{}{}
	}
}

// metricRadius is the linear extent of the aggregate under the current
// attractor: the root of the squared-distance metrics, or the raw z
// coordinate for a plane.
func (d *DLA3D) metricRadius(p lattice.Point3) int {
	m := lattice.Metric3(p, d.attr)
	if d.attr == lattice.AttractorPlane {
		return int(m)
	}
	return int(math.Sqrt(float64(m)))
}

// spawnParticle places a fresh walker uniformly on the spawn envelope and
// returns the envelope diameter.
func (d *DLA3D) spawnParticle(p *lattice.Point3) int {
	diam := spawnOffset
	if top, ok := d.st.top(); ok {
		diam = 2*d.metricRadius(top) + spawnOffset
	}
	switch d.attr {
	case lattice.AttractorLine:
		d.spawnLine(p, diam)
	case lattice.AttractorPlane:
		d.spawnPlane(p, diam)
	default:
		d.spawnPoint(p, diam)
	}
	return diam
}

// spawnPoint spawns on one of the six faces of the bounding cube.
func (d *DLA3D) spawnPoint(p *lattice.Point3, diam int) {
	half := diam / 2
	fdiam := float64(diam)
	place := d.rng.Float64()
	switch {
	case place < 1.0/6.0: // lower z face
		p.X = int(fdiam * (d.rng.Float64() - 0.5))
		p.Y = int(fdiam * (d.rng.Float64() - 0.5))
		p.Z = -half
		if !d.spawnBelow {
			p.Z = half
		}
	case place < 2.0/6.0: // upper z face
		p.X = int(fdiam * (d.rng.Float64() - 0.5))
		p.Y = int(fdiam * (d.rng.Float64() - 0.5))
		p.Z = half
		if !d.spawnAbove {
			p.Z = -half
		}
	case place < 3.0/6.0: // negative x face
		p.X = -half
		p.Y = int(fdiam * (d.rng.Float64() - 0.5))
		p.Z = d.offAxisDraw(diam)
	case place < 4.0/6.0: // positive x face
		p.X = half
		p.Y = int(fdiam * (d.rng.Float64() - 0.5))
		p.Z = d.offAxisDraw(diam)
	case place < 5.0/6.0: // negative y face
		p.X = int(fdiam * (d.rng.Float64() - 0.5))
		p.Y = -half
		p.Z = d.offAxisDraw(diam)
	default: // positive y face
		p.X = int(fdiam * (d.rng.Float64() - 0.5))
		p.Y = half
		p.Z = d.offAxisDraw(diam)
	}
}

// spawnLine spawns on a face of the envelope box around the line segment:
// |y| = diam or |z| = diam, with the z faces subject to half-space
// filtering.
func (d *DLA3D) spawnLine(p *lattice.Point3, diam int) {
	type face struct{ axis, sign int }
	faces := []face{{axis: 1, sign: 1}, {axis: 1, sign: -1}}
	if d.spawnAbove {
		faces = append(faces, face{axis: 2, sign: 1})
	}
	if d.spawnBelow {
		faces = append(faces, face{axis: 2, sign: -1})
	}
	f := faces[int(d.rng.Float64()*float64(len(faces)))%len(faces)]

	p.X = int(float64(d.attrSize) * (d.rng.Float64() - 0.5))
	if f.axis == 1 {
		p.Y = f.sign * diam
		p.Z = d.offAxisDraw(2 * diam)
	} else {
		p.Y = int(2 * float64(diam) * (d.rng.Float64() - 0.5))
		p.Z = f.sign * diam
	}
}

// spawnPlane spawns above or below the plane patch at |z| = diam.
func (d *DLA3D) spawnPlane(p *lattice.Point3, diam int) {
	switch {
	case d.spawnAbove && d.spawnBelow:
		p.Z = diam
		if d.rng.Float64() < 0.5 {
			p.Z = -diam
		}
	case d.spawnAbove:
		p.Z = diam
	default:
		p.Z = -diam
	}
	p.X = int(float64(d.attrSize) * (d.rng.Float64() - 0.5))
	p.Y = int(float64(d.attrSize) * (d.rng.Float64() - 0.5))
}

// offAxisDraw picks the z coordinate on a face tangent to z, restricted to
// the allowed half-space.
func (d *DLA3D) offAxisDraw(diam int) int {
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
func (d *DLA3D) aggregateCollision(cur, prev lattice.Point3, uStick float64, idx *uint64) bool {
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

func (d *DLA3D) pushParticle(p lattice.Point3, idx uint64) bool {
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
// radius under the current attractor metric. Undefined for a plane
// attractor, which yields NaN.
func (d *DLA3D) EstimateFractalDimension() float64 {
	if d.attr == lattice.AttractorPlane {
		return math.NaN()
	}
	n := d.Size()
	r := math.Sqrt(float64(d.Span()))
	if n < 2 || r <= 1 {
		return 0
	}
	return math.Log(float64(n)) / math.Log(r)
}

// Write streams the aggregate as tab-separated text. The default form is
// one "<index>\t<x>\t<y>\t<z>" line per particle; with sortByGenOrder only
// the coordinates are written, in the order particles stuck.
func (d *DLA3D) Write(w io.Writer, sortByGenOrder bool) error {
	buf := d.st.snapshot()
	bw := bufio.NewWriter(w)
	if sortByGenOrder {
		for _, p := range buf {
			fmt.Fprintf(bw, "%d\t%d\t%d\n", p.X, p.Y, p.Z)
		}
	} else {
		for i, p := range buf {
			fmt.Fprintf(bw, "%d\t%d\t%d\t%d\n", i, p.X, p.Y, p.Z)
		}
	}
	return bw.Flush()
}
