package lattice

import "testing"

func TestStep2(t *testing.T) {
	tests := []struct {
		name string
		lt   Type
		u    float64
		want Point2
	}{
		{"square +x", Square, 0.0, Point2{1, 0}},
		{"square +x upper edge", Square, 0.24, Point2{1, 0}},
		{"square -x", Square, 0.25, Point2{-1, 0}},
		{"square +y", Square, 0.5, Point2{0, 1}},
		{"square -y", Square, 0.75, Point2{0, -1}},
		{"square -y upper edge", Square, 0.999, Point2{0, -1}},
		{"triangle +x", Triangle, 0.0, Point2{1, 0}},
		{"triangle -x", Triangle, 1.0 / 6.0, Point2{-1, 0}},
		{"triangle +x+y", Triangle, 2.0 / 6.0, Point2{1, 1}},
		{"triangle +x-y", Triangle, 3.0 / 6.0, Point2{1, -1}},
		{"triangle -x+y", Triangle, 4.0 / 6.0, Point2{-1, 1}},
		{"triangle -x-y", Triangle, 5.0 / 6.0, Point2{-1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Point2{}
			Step2(&p, tt.lt, tt.u)
			if p != tt.want {
				t.Errorf("Step2(origin, %v, %v) = %v, want %v", tt.lt, tt.u, p, tt.want)
			}
		})
	}
}

func TestStep3(t *testing.T) {
	tests := []struct {
		name string
		lt   Type
		u    float64
		want Point3
	}{
		{"square +x", Square, 0.0, Point3{1, 0, 0}},
		{"square -x", Square, 1.0 / 6.0, Point3{-1, 0, 0}},
		{"square +y", Square, 2.0 / 6.0, Point3{0, 1, 0}},
		{"square -y", Square, 3.0 / 6.0, Point3{0, -1, 0}},
		{"square +z", Square, 4.0 / 6.0, Point3{0, 0, 1}},
		{"square -z", Square, 5.0 / 6.0, Point3{0, 0, -1}},
		{"triangle +x", Triangle, 0.0, Point3{1, 0, 0}},
		{"triangle -x", Triangle, 1.0 / 8.0, Point3{-1, 0, 0}},
		{"triangle +x+y", Triangle, 2.0 / 8.0, Point3{1, 1, 0}},
		{"triangle +x-y", Triangle, 3.0 / 8.0, Point3{1, -1, 0}},
		{"triangle -x+y", Triangle, 4.0 / 8.0, Point3{-1, 1, 0}},
		{"triangle -x-y", Triangle, 5.0 / 8.0, Point3{-1, -1, 0}},
		{"triangle +z", Triangle, 6.0 / 8.0, Point3{0, 0, 1}},
		{"triangle -z", Triangle, 7.0 / 8.0, Point3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Point3{}
			Step3(&p, tt.lt, tt.u)
			if p != tt.want {
				t.Errorf("Step3(origin, %v, %v) = %v, want %v", tt.lt, tt.u, p, tt.want)
			}
		})
	}
}

// TestStepMatchesNeighbors verifies that every step lands on a declared
// neighbour offset, for every direction bucket.
func TestStepMatchesNeighbors(t *testing.T) {
	for _, lt := range []Type{Square, Triangle} {
		t.Run(lt.String()+" 2d", func(t *testing.T) {
			neighbors := Neighbors2(lt)
			n := len(neighbors)
			for i := 0; i < n; i++ {
				u := (float64(i) + 0.5) / float64(n)
				p := Point2{}
				Step2(&p, lt, u)
				if !containsPoint2(neighbors, p) {
					t.Errorf("Step2 with u=%v landed on %v, not a neighbour", u, p)
				}
			}
		})
		t.Run(lt.String()+" 3d", func(t *testing.T) {
			neighbors := Neighbors3(lt)
			n := len(neighbors)
			for i := 0; i < n; i++ {
				u := (float64(i) + 0.5) / float64(n)
				p := Point3{}
				Step3(&p, lt, u)
				if !containsPoint3(neighbors, p) {
					t.Errorf("Step3 with u=%v landed on %v, not a neighbour", u, p)
				}
			}
		})
	}
}

func containsPoint2(pts []Point2, p Point2) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}

func containsPoint3(pts []Point3, p Point3) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}

func TestParseType(t *testing.T) {
	if lt, err := ParseType("triangle"); err != nil || lt != Triangle {
		t.Errorf("ParseType(triangle) = %v, %v", lt, err)
	}
	if _, err := ParseType("hex"); err == nil {
		t.Error("ParseType(hex) should fail")
	}
}

func TestParseAttractor(t *testing.T) {
	if at, err := ParseAttractor("plane"); err != nil || at != AttractorPlane {
		t.Errorf("ParseAttractor(plane) = %v, %v", at, err)
	}
	if _, err := ParseAttractor("sphere"); err == nil {
		t.Error("ParseAttractor(sphere) should fail")
	}
}
