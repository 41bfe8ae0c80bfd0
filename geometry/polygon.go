package geometry

import "math"

// Polygon is an outer ring (counter-clockwise) plus zero or more holes
// (clockwise). Rings are stored open (last point != first); SignedArea and
// Perimeter treat them as logically closed.
type Polygon struct {
	Outer []Point
	Holes [][]Point
}

// NewPolygon builds a polygon from an outer ring and holes, without
// correcting orientation. Callers that read externally-authored rings
// should check IsCCW or apply EnsureOrientation first.
func NewPolygon(outer []Point, holes ...[]Point) Polygon {
	return Polygon{Outer: outer, Holes: holes}
}

// SignedArea returns the shoelace-formula signed area of a ring. Positive
// for counter-clockwise rings, negative for clockwise.
func SignedArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// Perimeter returns the closed perimeter length of a ring.
func Perimeter(ring []Point) float64 {
	n := len(ring)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += ring[i].DistanceTo(ring[j])
	}
	return total
}

// IsCCW reports whether a ring is wound counter-clockwise.
func IsCCW(ring []Point) bool {
	return SignedArea(ring) > 0
}

// EnsureOrientation returns a copy of ring wound in the requested direction,
// reversing it if necessary.
func EnsureOrientation(ring []Point, ccw bool) []Point {
	if IsCCW(ring) == ccw {
		return ring
	}
	reversed := make([]Point, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}
	return reversed
}

// Area returns the polygon's net area: the absolute outer area minus the
// absolute area of each hole, so the result does not depend on ring winding.
func (poly Polygon) Area() float64 {
	area := math.Abs(SignedArea(poly.Outer))
	for _, h := range poly.Holes {
		area -= math.Abs(SignedArea(h))
	}
	return area
}

// IsSimple reports whether the outer ring has no self-intersections,
// checked by brute-force segment pair testing (O(n^2), fine for the small
// per-wall rings this engine produces).
func (poly Polygon) IsSimple(tolerance float64) bool {
	return ringIsSimple(poly.Outer, tolerance)
}

func ringIsSimple(ring []Point, tolerance float64) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1, b2 := ring[j], ring[(j+1)%n]
			if _, ok := SegmentIntersection(a1, a2, b1, b2, tolerance); ok {
				return false
			}
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside the polygon (outer ring minus
// holes) using the standard ray-casting test, then excluding points that
// fall in a hole.
func (poly Polygon) ContainsPoint(p Point, tolerance float64) bool {
	if !ringContains(poly.Outer, p) {
		return false
	}
	for _, h := range poly.Holes {
		if ringContains(h, p) {
			return false
		}
	}
	return true
}

func ringContains(ring []Point, p Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xIntersect := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// HoleInsideOuter reports whether every vertex of hole lies inside the outer
// ring, the invariant required of a well-formed polygon.
func HoleInsideOuter(outer, hole []Point, tolerance float64) bool {
	for _, p := range hole {
		if !ringContains(outer, p) {
			return false
		}
	}
	return true
}

// RingsCross reports whether two rings share any crossing segment (as
// opposed to merely touching at a shared vertex within tolerance).
func RingsCross(a, b []Point, tolerance float64) bool {
	na, nb := len(a), len(b)
	for i := 0; i < na; i++ {
		a1, a2 := a[i], a[(i+1)%na]
		for j := 0; j < nb; j++ {
			b1, b2 := b[j], b[(j+1)%nb]
			if p, ok := SegmentIntersection(a1, a2, b1, b2, tolerance); ok {
				if !isSharedEndpoint(p, a1, a2, b1, b2, tolerance) {
					return true
				}
			}
		}
	}
	return false
}

func isSharedEndpoint(p, a1, a2, b1, b2 Point, tolerance float64) bool {
	for _, q := range []Point{a1, a2} {
		if p.Equals(q, tolerance) {
			for _, r := range []Point{b1, b2} {
				if p.Equals(r, tolerance) {
					return true
				}
			}
		}
	}
	return false
}
