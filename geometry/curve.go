package geometry

import "math"

// CurveKind is the closed set of curve representations a baseline may use.
type CurveKind string

const (
	CurveKindPolyline CurveKind = "polyline"
	CurveKindArc      CurveKind = "arc"
	CurveKindSpline   CurveKind = "spline"
	CurveKindBezier   CurveKind = "bezier"
)

// Curve is an ordered sequence of points forming one of the four supported
// representations. Offsetting and booleans operate on the polyline
// approximation (Flatten); Kind/ControlPoints are retained so the original
// authoring shape survives a round trip.
type Curve struct {
	Kind           CurveKind
	Points         []Point
	IsClosed       bool
	FlattenSamples int // line segments per arc/Bezier in Flatten; 0 uses DefaultFlattenSamples

	cachedLength    float64
	cachedBBox      *BoundingBox
	cachedTangents  []Vector
	cachedCurvature []float64
}

// DefaultFlattenSamples is the number of line segments an arc or Bezier
// curve is approximated with per control segment, mirroring
// ApproximateToLineSegments's default.
const DefaultFlattenSamples = 16

// NewPolyline builds a polyline curve from raw points.
func NewPolyline(points []Point) Curve {
	return Curve{Kind: CurveKindPolyline, Points: points}
}

// NewArc builds a circular/elliptical arc curve from a center, radii and a
// start/end angle (radians), grounded on ArcWall's parameterization.
func NewArc(center Point, radiusX, radiusY, startAngle, endAngle float64, clockwise bool) Curve {
	return Curve{
		Kind: CurveKindArc,
		Points: []Point{
			center,
			{X: radiusX, Y: radiusY},
			{X: startAngle, Y: endAngle, Accuracy: boolToFloat(clockwise)},
		},
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewCubicBezier builds a cubic Bezier curve from four control points,
// grounded on NewCubicBezierCurve's control-point layout.
func NewCubicBezier(p0, p1, p2, p3 Point) Curve {
	return Curve{Kind: CurveKindBezier, Points: []Point{p0, p1, p2, p3}}
}

// Flatten returns the polyline approximation of c. Polylines and splines
// return their own points; an arc or Bezier is approximated with
// FlattenSamples line segments (FlattenSamples+1 points), or
// DefaultFlattenSamples if unset.
func (c Curve) Flatten() []Point {
	samples := c.FlattenSamples
	if samples <= 0 {
		samples = DefaultFlattenSamples
	}
	switch c.Kind {
	case CurveKindPolyline, CurveKindSpline:
		return c.Points
	case CurveKindArc:
		return flattenArc(c, samples)
	case CurveKindBezier:
		return flattenCubicBezier(c, samples)
	default:
		return c.Points
	}
}

func flattenArc(c Curve, samples int) []Point {
	if len(c.Points) < 3 {
		return nil
	}
	center, radii, angles := c.Points[0], c.Points[1], c.Points[2]
	start, end := angles.X, angles.Y
	clockwise := angles.Accuracy > 0.5
	if clockwise && end > start {
		end -= 2 * math.Pi
	} else if !clockwise && end < start {
		end += 2 * math.Pi
	}
	out := make([]Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		a := start + (end-start)*t
		out = append(out, Point{
			X: center.X + radii.X*math.Cos(a),
			Y: center.Y + radii.Y*math.Sin(a),
		})
	}
	return out
}

func flattenCubicBezier(c Curve, samples int) []Point {
	if len(c.Points) < 4 {
		return c.Points
	}
	p0, p1, p2, p3 := c.Points[0], c.Points[1], c.Points[2], c.Points[3]
	out := make([]Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		u := 1 - t
		x := u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X
		y := u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

// Length returns the cached polyline length of c, computing it on first use.
func (c *Curve) Length() float64 {
	if c.cachedBBox == nil {
		c.computeCaches()
	}
	return c.cachedLength
}

// BoundingBox returns the cached bounding box of c, computing it on first use.
func (c *Curve) BoundingBox() BoundingBox {
	if c.cachedBBox == nil {
		c.computeCaches()
	}
	return *c.cachedBBox
}

// TangentAt returns the unit tangent vector at vertex i of the flattened
// curve, computing caches on first use.
func (c *Curve) TangentAt(i int) (Vector, bool) {
	if c.cachedBBox == nil {
		c.computeCaches()
	}
	if i < 0 || i >= len(c.cachedTangents) {
		return Vector{}, false
	}
	return c.cachedTangents[i], true
}

// CurvatureAt returns the discrete curvature estimate at vertex i.
func (c *Curve) CurvatureAt(i int) (float64, bool) {
	if c.cachedBBox == nil {
		c.computeCaches()
	}
	if i < 0 || i >= len(c.cachedCurvature) {
		return 0, false
	}
	return c.cachedCurvature[i], true
}

// InvalidateCache clears cached length/bbox/tangent/curvature data after the
// curve's points have been mutated in place.
func (c *Curve) InvalidateCache() {
	c.cachedBBox = nil
	c.cachedTangents = nil
	c.cachedCurvature = nil
}

func (c *Curve) computeCaches() {
	pts := c.Flatten()
	bbox := EmptyBoundingBox()
	var length float64
	tangents := make([]Vector, len(pts))
	curvature := make([]float64, len(pts))

	for i, p := range pts {
		bbox.Expand(p)
		if i > 0 {
			length += pts[i-1].DistanceTo(p)
		}
	}
	for i := range pts {
		var prev, next Point
		switch {
		case i == 0:
			prev, next = pts[0], pts[minInt(1, len(pts)-1)]
		case i == len(pts)-1:
			prev, next = pts[i-1], pts[i]
		default:
			prev, next = pts[i-1], pts[i+1]
		}
		v := next.Sub(prev)
		if t, ok := v.Normalized(); ok {
			tangents[i] = t
		}
	}
	for i := 1; i < len(pts)-1; i++ {
		a := AngleBetween(pts[i].Sub(pts[i-1]), pts[i+1].Sub(pts[i]))
		segLen := pts[i-1].DistanceTo(pts[i]) + pts[i].DistanceTo(pts[i+1])
		if segLen > 0 {
			curvature[i] = 2 * a / segLen
		}
	}
	if len(pts) == 0 {
		bbox = BoundingBox{}
	}
	c.cachedLength = length
	c.cachedBBox = &bbox
	c.cachedTangents = tangents
	c.cachedCurvature = curvature
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ValidConstruction reports whether no two consecutive points of c's
// flattened form lie within tolerance of each other.
func (c Curve) ValidConstruction(tolerance float64) bool {
	pts := c.Flatten()
	for i := 1; i < len(pts); i++ {
		if pts[i-1].DistanceTo(pts[i]) <= tolerance {
			return false
		}
	}
	return true
}
