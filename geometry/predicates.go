package geometry

import "math"

// SegmentIntersection returns the intersection point of segments (a1,a2) and
// (b1,b2), if one exists within tolerance. Parallel or non-intersecting
// segments return ok=false; this predicate never panics.
func SegmentIntersection(a1, a2, b1, b2 Point, tolerance float64) (Point, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) <= tolerance {
		return Point{}, false
	}
	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -tolerance || t > 1+tolerance || u < -tolerance || u > 1+tolerance {
		return Point{}, false
	}
	return a1.Add(r.Scale(t)), true
}

// LineIntersection treats (a1,a2) and (b1,b2) as infinite lines rather than
// segments, used by the offset engine's miter computation where the
// intersection may lie outside either original segment.
func LineIntersection(a1, a2, b1, b2 Point, tolerance float64) (Point, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) <= tolerance {
		return Point{}, false
	}
	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	return a1.Add(r.Scale(t)), true
}

// PointSegmentDistance returns the perpendicular distance from p to the
// segment (a,b), projecting onto the segment and clamping to its endpoints.
func PointSegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.Scale(t))
	return p.DistanceTo(proj)
}

// CurveIntersections returns every crossing point between two curves,
// enumerated by segment-pair comparison over their flattened polylines,
// the standard approach for non-polyline curves.
func CurveIntersections(a, b Curve, tolerance float64) []Point {
	pa, pb := a.Flatten(), b.Flatten()
	var out []Point
	for i := 0; i+1 < len(pa); i++ {
		for j := 0; j+1 < len(pb); j++ {
			if p, ok := SegmentIntersection(pa[i], pa[i+1], pb[j], pb[j+1], tolerance); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsCollinear reports whether p lies within tolerance of the segment from a
// to b, measured with PointSegmentDistance (so a p past either end is
// measured to the nearer endpoint); the offset fallback cascade uses it to
// simplify near-collinear vertices.
func IsCollinear(a, p, b Point, tolerance float64) bool {
	return PointSegmentDistance(p, a, b) <= tolerance
}
