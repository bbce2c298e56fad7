package lattice

// boundaryEpsilon widens the spawn envelope so a walker can step just past
// its spawn face without being reflected off it immediately.
const boundaryEpsilon = 2

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Reflect2 tests whether p has left the allowed envelope for the attractor
// geometry and snaps it back to prev if so. spawnDiam is the current spawn
// envelope diameter and attractorSize the extent of a line attractor.
// Reports whether a reflection occurred. Consumes no randomness.
func Reflect2(p *Point2, prev Point2, spawnDiam, attractorSize int, at Attractor) bool {
	switch at {
	case AttractorPoint:
		bound := spawnDiam/2 + boundaryEpsilon
		if abs(p.X) > bound || abs(p.Y) > bound {
			*p = prev
			return true
		}
	case AttractorLine:
		if abs(p.X) > attractorSize/2+boundaryEpsilon || abs(p.Y) > spawnDiam+boundaryEpsilon {
			*p = prev
			return true
		}
	}
	return false
}

// Reflect3 is the 3D counterpart of Reflect2, adding the plane attractor
// envelope.
func Reflect3(p *Point3, prev Point3, spawnDiam, attractorSize int, at Attractor) bool {
	switch at {
	case AttractorPoint:
		bound := spawnDiam/2 + boundaryEpsilon
		if abs(p.X) > bound || abs(p.Y) > bound || abs(p.Z) > bound {
			*p = prev
			return true
		}
	case AttractorLine:
		if abs(p.X) > attractorSize/2+boundaryEpsilon ||
			abs(p.Y) > spawnDiam+boundaryEpsilon ||
			abs(p.Z) > spawnDiam+boundaryEpsilon {
			*p = prev
			return true
		}
	case AttractorPlane:
		halfSize := attractorSize/2 + boundaryEpsilon
		if abs(p.X) > halfSize || abs(p.Y) > halfSize || abs(p.Z) > spawnDiam+boundaryEpsilon {
			*p = prev
			return true
		}
	}
	return false
}
