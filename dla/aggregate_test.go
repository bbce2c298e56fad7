package dla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/dendrite/lattice"
)

func TestConstructorValidation(t *testing.T) {
	tests := []struct {
		name string
		cs   float64
	}{
		{"zero stickiness", 0.0},
		{"negative stickiness", -0.5},
		{"stickiness above one", 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New2DWithStickiness(tt.cs)
			require.ErrorIs(t, err, ErrInvalidArgument)
			_, err = New3DWithStickiness(tt.cs)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestPlaneAttractorRejectedIn2D(t *testing.T) {
	_, err := New2DWithGeometry(lattice.Square, lattice.AttractorPlane, 10, 1.0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	d := New2D()
	d.Reseed(testSeed)
	d.Generate(10)
	before := d.Buffer()

	err = d.SetAttractor(lattice.AttractorPlane, 10)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// The failed setter left the aggregate untouched.
	at, size := d.Attractor()
	assert.Equal(t, lattice.AttractorPoint, at)
	assert.Equal(t, 0, size)
	assert.Equal(t, before, d.Buffer())
}

func TestSetCoeffStickValidation(t *testing.T) {
	d := New2D()
	require.NoError(t, d.SetCoeffStick(0.25))
	assert.Equal(t, 0.25, d.CoeffStick())

	err := d.SetCoeffStick(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0.25, d.CoeffStick(), "failed setter must not change state")

	err = d.SetCoeffStick(1.5)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0.25, d.CoeffStick())
}

func TestNegativeAttractorSizeRejected(t *testing.T) {
	d := New3D()
	err := d.SetAttractor(lattice.AttractorLine, -4)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New2DWithGeometry(lattice.Square, lattice.AttractorLine, -1, 1.0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSpawnSourceValidation(t *testing.T) {
	d := New2D()
	require.NoError(t, d.SetSpawnSource(true, false))
	require.NoError(t, d.SetSpawnSource(false, true))
	require.NoError(t, d.SetSpawnSource(true, true))

	err := d.SetSpawnSource(false, false)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAggregateInterface(t *testing.T) {
	// Both concrete engines satisfy the shared surface.
	var agg Aggregate = New2D()
	agg.Reseed(testSeed)
	agg.Generate(20)
	assert.EqualValues(t, 20, agg.Size())

	agg = New3D()
	agg.Reseed(testSeed)
	agg.Generate(20)
	assert.EqualValues(t, 20, agg.Size())
}

func TestSetLattice(t *testing.T) {
	d := New2D()
	d.SetLattice(lattice.Triangle)
	assert.Equal(t, lattice.Triangle, d.Lattice())
}
