// Package lattice provides the geometric leaves of the aggregation engine:
// integer lattice coordinates, the random-walk step tables for each lattice
// type, boundary reflection against the spawn envelope, and the
// attractor-dependent distance metrics.
package lattice

import "fmt"

// Type selects the neighbour set used by the random-walk stepper.
type Type uint8

const (
	// Square gives 4 neighbours in 2D and 6 in 3D.
	Square Type = iota
	// Triangle gives 6 neighbours in 2D and 8 in 3D (the six triangular
	// moves in the z=0 plane plus unit steps along z).
	Triangle
)

// String returns the lowercase name of the lattice type.
func (t Type) String() string {
	switch t {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	}
	return fmt.Sprintf("lattice.Type(%d)", uint8(t))
}

// ParseType converts a config string to a lattice Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "square":
		return Square, nil
	case "triangle":
		return Triangle, nil
	}
	return Square, fmt.Errorf("unknown lattice type %q", s)
}

// Attractor selects the seed geometry, which in turn fixes the spawn
// envelope shape and the distance metric used for the aggregate extremum.
type Attractor uint8

const (
	// AttractorPoint is a single seed cell at the origin.
	AttractorPoint Attractor = iota
	// AttractorLine is a segment along the x-axis at y=z=0.
	AttractorLine
	// AttractorPlane is a square patch in the z=0 plane. 3D only.
	AttractorPlane
)

// String returns the lowercase name of the attractor geometry.
func (a Attractor) String() string {
	switch a {
	case AttractorPoint:
		return "point"
	case AttractorLine:
		return "line"
	case AttractorPlane:
		return "plane"
	}
	return fmt.Sprintf("lattice.Attractor(%d)", uint8(a))
}

// ParseAttractor converts a config string to an Attractor.
func ParseAttractor(s string) (Attractor, error) {
	switch s {
	case "point":
		return AttractorPoint, nil
	case "line":
		return AttractorLine, nil
	case "plane":
		return AttractorPlane, nil
	}
	return AttractorPoint, fmt.Errorf("unknown attractor type %q", s)
}

// Point2 is a cell on the 2D integer lattice.
type Point2 struct {
	X, Y int
}

// Point3 is a cell on the 3D integer lattice.
type Point3 struct {
	X, Y, Z int
}
