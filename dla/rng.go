package dla

import "math/rand/v2"

// Source is the single uniform [0,1) generator behind every stochastic
// decision an aggregate makes: walk direction, spawn placement and the
// stick test all derive from one Float64 draw by range comparison, so a
// pair of equally-seeded sources reproduces a run bit-for-bit.
type Source struct {
	seed uint64
	pcg  *rand.PCG
	rand *rand.Rand
}

// NewSource returns a Source seeded deterministically.
func NewSource(seed uint64) *Source {
	pcg := rand.NewPCG(seed, 0)
	return &Source{seed: seed, pcg: pcg, rand: rand.New(pcg)}
}

// NewRandomSource returns a Source with a non-deterministic seed.
func NewRandomSource() *Source {
	return NewSource(rand.Uint64())
}

// Float64 draws the next real in [0,1).
func (s *Source) Float64() float64 {
	return s.rand.Float64()
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Reset rewinds the generator to its seed so the next draw sequence
// repeats the first one.
func (s *Source) Reset() {
	s.pcg.Seed(s.seed, 0)
}

// Reseed re-points the source at a new seed and rewinds it.
func (s *Source) Reseed(seed uint64) {
	s.seed = seed
	s.pcg.Seed(seed, 0)
}

// Clone returns an independent source carrying the exact generator state,
// so the clone and the original draw identical future sequences.
func (s *Source) Clone() *Source {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		// PCG marshaling cannot fail; fall back to a seed-equal source.
		return NewSource(s.seed)
	}
	pcg := rand.NewPCG(0, 0)
	if err := pcg.UnmarshalBinary(state); err != nil {
		return NewSource(s.seed)
	}
	return &Source{seed: s.seed, pcg: pcg, rand: rand.New(pcg)}
}
