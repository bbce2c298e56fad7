// Package dla implements diffusion-limited aggregation on 2D and 3D
// integer lattices. Walkers are released on a spawn envelope sized to the
// current aggregate, random-walk until they collide with it, and stick
// with a configurable probability. One producer goroutine grows an
// aggregate while a single consumer drains newly stuck particles through a
// cursor.
package dla

import (
	"fmt"
	"io"

	"github.com/pthm-cable/dendrite/lattice"
)

// spawnOffset pads the spawn envelope so walkers never appear directly on
// the aggregate.
const spawnOffset = 16

// Aggregate is the dimension-independent surface shared by DLA2D and
// DLA3D. Buffer consumption is dimension-specific (the coordinate type
// differs) and lives on the concrete types.
type Aggregate interface {
	// Size returns the number of stuck particles, including the seed.
	Size() uint64
	// Span returns the attractor metric of the farthest particle.
	Span() int64
	// FailedStickDraws returns how many stick tests have come up tails.
	// Note this counts every failed draw, not only draws made while the
	// walker was adjacent to the aggregate.
	FailedStickDraws() uint64

	// Reseed rewinds the random source onto a new seed, making the next
	// Generate reproducible.
	Reseed(seed uint64)

	CoeffStick() float64
	SetCoeffStick(cs float64) error
	Lattice() lattice.Type
	SetLattice(t lattice.Type)
	Attractor() (lattice.Attractor, int)
	SetAttractor(at lattice.Attractor, size int) error
	SetSpawnSource(above, below bool) error
	SetContinuous(on bool)

	// RaiseAbort makes a running Generate return at its next iteration.
	// The flag clears itself when observed.
	RaiseAbort()

	Generate(n uint64)
	Clear()
	EstimateFractalDimension() float64
	Write(w io.Writer, sortByGenOrder bool) error
}

func validateCoeffStick(cs float64) error {
	if cs <= 0 || cs > 1 {
		return fmt.Errorf("dla: coeff_stick %v outside (0,1]: %w", cs, ErrInvalidArgument)
	}
	return nil
}

func validateAttractor(at lattice.Attractor, size int, threeD bool) error {
	if at == lattice.AttractorPlane && !threeD {
		return fmt.Errorf("dla: plane attractor requires a 3D aggregate: %w", ErrInvalidArgument)
	}
	if size < 0 {
		return fmt.Errorf("dla: attractor size %d is negative: %w", size, ErrInvalidArgument)
	}
	return nil
}

func validateSpawnSource(above, below bool) error {
	if !above && !below {
		return fmt.Errorf("dla: at least one spawn half-space must be enabled: %w", ErrInvalidArgument)
	}
	return nil
}
