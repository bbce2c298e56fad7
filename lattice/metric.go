package lattice

// Metric2 returns the attractor-dependent distance measure of a 2D cell:
// squared distance to the origin for a point attractor, squared distance to
// the x-axis for a line attractor. The extremum heap and the span statistic
// both order by this value.
func Metric2(p Point2, at Attractor) int64 {
	x, y := int64(p.X), int64(p.Y)
	switch at {
	case AttractorLine:
		return y * y
	default:
		return x*x + y*y
	}
}

// Metric3 is the 3D counterpart of Metric2. A plane attractor orders by the
// raw z coordinate.
func Metric3(p Point3, at Attractor) int64 {
	x, y, z := int64(p.X), int64(p.Y), int64(p.Z)
	switch at {
	case AttractorLine:
		return y*y + z*z
	case AttractorPlane:
		return z
	default:
		return x*x + y*y + z*z
	}
}
