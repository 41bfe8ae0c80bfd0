// Package geometry provides the point, curve, and polygon value types the
// rest of the wall-geometry core is built on, plus the predicates that act
// on them. Nothing in this package holds mutable shared state, and no
// predicate ever panics: geometric failure is reported through an optional
// (ok bool) result, a "failures are total" convention for low-level
// geometry code.
package geometry

import "math"

// CreationMethod tags how a point came to exist. The shape healer consults
// this to decide whether a vertex is protected from removal.
type CreationMethod string

const (
	CreationMethodUnknown    CreationMethod = ""
	CreationMethodUserPlaced CreationMethod = "user_placed"
	CreationMethodOffset     CreationMethod = "offset"
	CreationMethodJunction   CreationMethod = "junction"
	CreationMethodHealing    CreationMethod = "healing"
	CreationMethodSimplify   CreationMethod = "simplify"
)

// Point is the atomic 2D value type shared by curves and polygons.
type Point struct {
	ID             string
	X, Y           float64
	Tolerance      float64
	CreationMethod CreationMethod
	Accuracy       float64
	Validated      bool
}

// NewPoint creates a point with zero tolerance and unit accuracy.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y, Accuracy: 1.0}
}

// WithTolerance returns a copy of p carrying the given creation tolerance.
func (p Point) WithTolerance(tol float64) Point {
	p.Tolerance = tol
	return p
}

// WithMethod returns a copy of p tagged with the given creation method.
func (p Point) WithMethod(m CreationMethod) Point {
	p.CreationMethod = m
	return p
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Equals reports whether p and q coincide within tolerance. Per the
// data model, point equality is distance <= tolerance, not exact.
func (p Point) Equals(q Point, tolerance float64) bool {
	return p.DistanceTo(q) <= tolerance
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add translates p by v.
func (p Point) Add(v Vector) Point {
	p.X += v.X
	p.Y += v.Y
	return p
}

// Lerp returns the convex combination of p and q at parameter t in [0,1].
func Lerp(p, q Point, t float64) Point {
	return Point{
		X:        p.X + (q.X-p.X)*t,
		Y:        p.Y + (q.Y-p.Y)*t,
		Accuracy: math.Min(p.Accuracy, q.Accuracy),
	}
}

// Vector is a free 2D vector, distinct from Point so offset math reads
// unambiguously (a point plus a vector is a point, a point minus a point is
// a vector).
type Vector struct {
	X, Y float64
}

// Length returns the Euclidean norm of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized returns v scaled to unit length. If v is the zero vector it is
// returned unchanged (ok=false).
func (v Vector) Normalized() (Vector, bool) {
	l := v.Length()
	if l == 0 {
		return v, false
	}
	return Vector{X: v.X / l, Y: v.Y / l}, true
}

// Rot90 returns v rotated 90 degrees counter-clockwise, the left normal
// used throughout the offset engine.
func (v Vector) Rot90() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z-component of the 3D cross product of v and w.
func (v Vector) Cross(w Vector) float64 {
	return v.X*w.Y - v.Y*w.X
}

// AngleBetween returns the unsigned angle in radians between v and w.
func AngleBetween(v, w Vector) float64 {
	vn, vok := v.Normalized()
	wn, wok := w.Normalized()
	if !vok || !wok {
		return 0
	}
	d := vn.Dot(wn)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// BoundingBox is an axis-aligned box in the same coordinate space as Point.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBoundingBox returns a box that Expand can grow from, degenerate by
// construction (Min > Max) until the first point is added.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// Expand grows bb to include p.
func (bb *BoundingBox) Expand(p Point) {
	bb.MinX = math.Min(bb.MinX, p.X)
	bb.MinY = math.Min(bb.MinY, p.Y)
	bb.MaxX = math.Max(bb.MaxX, p.X)
	bb.MaxY = math.Max(bb.MaxY, p.Y)
}

// Contains reports whether p lies within bb (inclusive).
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.MinX && p.X <= bb.MaxX && p.Y >= bb.MinY && p.Y <= bb.MaxY
}

// Intersects reports whether bb and other overlap.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return !(bb.MaxX < other.MinX || bb.MinX > other.MaxX ||
		bb.MaxY < other.MinY || bb.MinY > other.MaxY)
}

// Width returns the horizontal extent of bb.
func (bb BoundingBox) Width() float64 { return bb.MaxX - bb.MinX }

// Height returns the vertical extent of bb.
func (bb BoundingBox) Height() float64 { return bb.MaxY - bb.MinY }

// Center returns the midpoint of bb.
func (bb BoundingBox) Center() Point {
	return Point{X: (bb.MinX + bb.MaxX) / 2, Y: (bb.MinY + bb.MaxY) / 2}
}
