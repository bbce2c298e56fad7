package lattice

// Step2 moves p one cell under the unbiased neighbour distribution of the
// lattice type, selected by a single uniform draw u in [0,1). The draw maps
// to a direction by range comparison; exactly one draw is consumed per step.
func Step2(p *Point2, t Type, u float64) {
	switch t {
	case Square:
		// 4 directions, each width 0.25
		switch {
		case u < 0.25:
			p.X++
		case u < 0.5:
			p.X--
		case u < 0.75:
			p.Y++
		default:
			p.Y--
		}
	case Triangle:
		// 6 directions, each width 1/6
		switch {
		case u < 1.0/6.0:
			p.X++
		case u < 2.0/6.0:
			p.X--
		case u < 3.0/6.0:
			p.X++
			p.Y++
		case u < 4.0/6.0:
			p.X++
			p.Y--
		case u < 5.0/6.0:
			p.X--
			p.Y++
		default:
			p.X--
			p.Y--
		}
	}
}

// Step3 is the 3D counterpart of Step2. The triangular lattice keeps its six
// in-plane moves and adds unit steps along z.
func Step3(p *Point3, t Type, u float64) {
	switch t {
	case Square:
		// 6 directions, each width 1/6
		switch {
		case u < 1.0/6.0:
			p.X++
		case u < 2.0/6.0:
			p.X--
		case u < 3.0/6.0:
			p.Y++
		case u < 4.0/6.0:
			p.Y--
		case u < 5.0/6.0:
			p.Z++
		default:
			p.Z--
		}
	case Triangle:
		// 8 directions, each width 1/8
		switch {
		case u < 1.0/8.0:
			p.X++
		case u < 2.0/8.0:
			p.X--
		case u < 3.0/8.0:
			p.X++
			p.Y++
		case u < 4.0/8.0:
			p.X++
			p.Y--
		case u < 5.0/8.0:
			p.X--
			p.Y++
		case u < 6.0/8.0:
			p.X--
			p.Y--
		case u < 7.0/8.0:
			p.Z++
		default:
			p.Z--
		}
	}
}

// Neighbors2 returns the neighbour offsets of the lattice type in 2D.
// Used by property checks; the hot path goes through Step2.
func Neighbors2(t Type) []Point2 {
	switch t {
	case Triangle:
		return []Point2{{1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	default:
		return []Point2{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	}
}

// Neighbors3 returns the neighbour offsets of the lattice type in 3D.
func Neighbors3(t Type) []Point3 {
	switch t {
	case Triangle:
		return []Point3{
			{1, 0, 0}, {-1, 0, 0}, {1, 1, 0}, {1, -1, 0}, {-1, 1, 0}, {-1, -1, 0},
			{0, 0, 1}, {0, 0, -1},
		}
	default:
		return []Point3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	}
}
