// Package offset implements the robust offset engine: it sweeps a
// baseline curve into left/right offset curves at a signed distance, with
// selectable miter/bevel/round joins and a multi-stage fallback cascade
// for near-degenerate inputs. The join-construction shape (unit normals
// per segment, then a bevel/miter decision per shared vertex) is grounded
// on a Clipper2-style offsetting port; no clipping library exists in the
// reference material gathered for this codebase, so the join math here is
// hand-written rather than vendored.
package offset

import (
	"math"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
)

const component = "offset"

// JoinType is the closed set of join strategies.
type JoinType string

const (
	JoinMiter JoinType = "miter"
	JoinBevel JoinType = "bevel"
	JoinRound JoinType = "round"
	JoinAuto  JoinType = "auto"
)

const (
	minSegmentLength   = 1e-6
	defaultMiterLimit  = 10.0
	defaultRoundSegs   = 8
	collinearTolerance = 1.0 // 1mm, used by fallback stage 1
)

// Options configures a single Offset call. Zero-value Options behaves like
// the package defaults (miter limit 10, 8 round segments).
type Options struct {
	MiterLimit    float64
	RoundSegments int
}

func (o Options) withDefaults() Options {
	if o.MiterLimit <= 0 {
		o.MiterLimit = defaultMiterLimit
	}
	if o.RoundSegments <= 0 {
		o.RoundSegments = defaultRoundSegs
	}
	return o
}

// Result is the outcome of an Offset call.
type Result struct {
	Left, Right   []geometry.Point
	JoinTypeUsed  []JoinType // per shared-vertex join, aligned to baseline interior vertices
	Warnings      []string
	FallbackUsed  bool
	Success       bool
}

// Offset sweeps baseline by distance on both sides, applying join and
// falling back through the multi-stage cascade on failure.
func Offset(baseline geometry.Curve, distance float64, join JoinType, tol float64, opts Options) (Result, error) {
	if tol <= 0 {
		return Result{}, errs.New(component, errs.InvalidInput, "tolerance must be positive, got %v", tol)
	}
	pts := baseline.Flatten()
	if len(pts) < 2 {
		return Result{}, errs.New(component, errs.InvalidInput, "baseline must have at least 2 points")
	}
	if math.Abs(distance) <= tol {
		return Result{}, errs.New(component, errs.InvalidInput, "|distance| (%v) must exceed tolerance (%v)", distance, tol)
	}

	opts = opts.withDefaults()

	res, err := tryOffset(pts, distance, join, tol, opts)
	if err == nil {
		return res, nil
	}

	logger.Debug("offset: primary attempt failed (%v), entering fallback cascade", err)

	// Fallback 1: simplify near-collinear vertices, retry all-bevel at 1e-3.
	simplified := removeNearCollinear(pts, collinearTolerance)
	if len(simplified) >= 2 {
		if res, ferr := tryOffset(simplified, distance, JoinBevel, 1e-3, opts); ferr == nil {
			res.FallbackUsed = true
			res.Warnings = append(res.Warnings, "fallback: simplified near-collinear vertices, all-bevel joins")
			return res, nil
		}
	}

	// Fallback 2: relax tolerance and miter limit.
	relaxedOpts := opts
	relaxedOpts.MiterLimit = 2
	if res, ferr := tryOffset(pts, distance, join, 1e-2, relaxedOpts); ferr == nil {
		res.FallbackUsed = true
		res.Warnings = append(res.Warnings, "fallback: relaxed tolerance to 1e-2, miter_limit=2")
		return res, nil
	}

	// Fallback 3: windowed processing, stitched.
	if res, ferr := tryWindowed(pts, distance, join, tol, opts); ferr == nil {
		res.FallbackUsed = true
		res.Warnings = append(res.Warnings, "fallback: processed in overlapping windows")
		return res, nil
	}

	return Result{Success: false, Warnings: []string{"all fallback stages exhausted"}},
		errs.Wrap(component, errs.NumericalFailure, err, "offset failed after exhausting fallback cascade")
}

func tryOffset(pts []geometry.Point, distance float64, join JoinType, tol float64, opts Options) (Result, error) {
	// Rot90 gives the CCW normal of the walking direction; "left" in a wall
	// cross-section is the opposite side, so it takes the negated distance.
	left, leftJoins, err := offsetSide(pts, -distance, join, tol, opts)
	if err != nil {
		return Result{}, err
	}
	right, _, err := offsetSide(pts, distance, join, tol, opts)
	if err != nil {
		return Result{}, err
	}
	if len(left) < 2 || len(right) < 2 {
		return Result{}, errs.New(component, errs.Degenerate, "offset produced a degenerate curve")
	}
	return Result{Left: left, Right: right, JoinTypeUsed: leftJoins, Success: true}, nil
}

// kept segment: original index range [i, i+1) whose length exceeds
// minSegmentLength.
type segment struct {
	start, end   geometry.Point
	offsetStart  geometry.Point
	offsetEnd    geometry.Point
}

func offsetSide(pts []geometry.Point, distance float64, join JoinType, tol float64, opts Options) ([]geometry.Point, []JoinType, error) {
	var segs []segment
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		length := a.DistanceTo(b)
		if length < minSegmentLength {
			continue
		}
		dir := b.Sub(a).Scale(1 / length)
		n := dir.Rot90()
		segs = append(segs, segment{
			start: a, end: b,
			offsetStart: a.Add(n.Scale(distance)),
			offsetEnd:   b.Add(n.Scale(distance)),
		})
	}
	if len(segs) == 0 {
		return nil, nil, errs.New(component, errs.Degenerate, "no segments remain after dropping zero-length segments")
	}

	out := []geometry.Point{segs[0].offsetStart}
	joins := make([]JoinType, 0, len(segs)-1)

	for i := 0; i+1 < len(segs); i++ {
		cur, next := segs[i], segs[i+1]
		vertex := cur.end // == next.start, the shared original vertex

		angleDeg := interiorAngleDegrees(cur.start, vertex, next.end)
		jt := join
		if jt == JoinAuto || jt == "" {
			jt = selectAutoJoin(angleDeg, distance, 0)
		}

		pts2, used := computeJoin(cur, next, vertex, distance, jt, tol, opts)
		out = append(out, pts2...)
		joins = append(joins, used)
	}

	out = append(out, segs[len(segs)-1].offsetEnd)

	if !curveNonDegenerate(out, tol) {
		return nil, nil, errs.New(component, errs.Degenerate, "offset curve failed post-validation")
	}
	return out, joins, nil
}

// interiorAngleDegrees returns the interior angle at b formed by a-b-c, in
// degrees, used both by auto join selection and by the miter-limit test.
func interiorAngleDegrees(a, b, c geometry.Point) float64 {
	v1 := a.Sub(b)
	v2 := c.Sub(b)
	return geometry.AngleBetween(v1, v2) * 180 / math.Pi
}

// SelectAutoJoin implements the optimal-join-selection table; exported
// so junction resolvers can reuse the same selection logic the offset
// engine uses
// internally for "auto" joins.
func SelectAutoJoin(angleDeg, distance, curvature float64) JoinType {
	return selectAutoJoin(angleDeg, distance, curvature)
}

// selectAutoJoin implements the optimal-join-selection table.
func selectAutoJoin(angleDeg, distance, curvature float64) JoinType {
	thickness := math.Abs(distance) * 2
	switch {
	case angleDeg < 15:
		return JoinRound
	case angleDeg < 45:
		if thickness > 200 || curvature > 0 {
			return JoinBevel
		}
		return JoinRound
	case angleDeg < 120:
		return JoinMiter // miter-limit check happens in computeJoin
	default:
		return JoinMiter
	}
}

// computeJoin returns the join geometry (points to insert between cur and
// next's offset endpoints) and the join type actually used, downgrading
// miter to bevel when the miter-limit test fails.
func computeJoin(cur, next segment, vertex geometry.Point, distance float64, jt JoinType, tol float64, opts Options) ([]geometry.Point, JoinType) {
	angleRad := geometry.AngleBetween(cur.end.Sub(cur.start), next.end.Sub(next.start))
	turnAngle := math.Pi - angleRad // angle between offset lines at the join

	switch jt {
	case JoinMiter:
		apex, ok := geometry.LineIntersection(cur.offsetStart, cur.offsetEnd, next.offsetStart, next.offsetEnd, tol)
		if ok {
			half := turnAngle / 2
			if half > 1e-9 {
				miterLen := math.Abs(distance) / math.Sin(half)
				if miterLen > opts.MiterLimit*math.Abs(distance) {
					return bevelJoin(cur, next), JoinBevel
				}
			}
			return []geometry.Point{apex}, JoinMiter
		}
		return bevelJoin(cur, next), JoinBevel
	case JoinRound:
		return roundJoin(cur, next, vertex, distance, opts.RoundSegments), JoinRound
	default:
		return bevelJoin(cur, next), JoinBevel
	}
}

func bevelJoin(cur, next segment) []geometry.Point {
	return []geometry.Point{cur.offsetEnd, next.offsetStart}
}

func roundJoin(cur, next segment, vertex geometry.Point, distance float64, segments int) []geometry.Point {
	r := math.Abs(distance)
	v1 := cur.offsetEnd.Sub(vertex)
	v2 := next.offsetStart.Sub(vertex)
	a1 := math.Atan2(v1.Y, v1.X)
	a2 := math.Atan2(v2.Y, v2.X)
	// Take the shorter sweep from a1 to a2.
	delta := a2 - a1
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	out := make([]geometry.Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		a := a1 + delta*t
		out = append(out, geometry.Point{X: vertex.X + r*math.Cos(a), Y: vertex.Y + r*math.Sin(a)})
	}
	return out
}

func curveNonDegenerate(pts []geometry.Point, tol float64) bool {
	if len(pts) < 2 {
		return false
	}
	nonZero := false
	for i := 1; i < len(pts); i++ {
		if pts[i-1].DistanceTo(pts[i]) > tol {
			nonZero = true
		}
	}
	return nonZero
}

func removeNearCollinear(pts []geometry.Point, tol float64) []geometry.Point {
	if len(pts) < 3 {
		return pts
	}
	out := []geometry.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if !geometry.IsCollinear(out[len(out)-1], pts[i], pts[i+1], tol) {
			out = append(out, pts[i])
		}
	}
	out = append(out, pts[len(pts)-1])
	return out
}

func tryWindowed(pts []geometry.Point, distance float64, join JoinType, tol float64, opts Options) (Result, error) {
	n := len(pts)
	windowSize := n / 4
	if windowSize < 2 {
		windowSize = n
	}
	overlap := windowSize / 2
	if overlap < 1 {
		overlap = 1
	}

	var leftAll, rightAll []geometry.Point
	var joinsAll []JoinType
	for start := 0; start < n-1; start += windowSize {
		end := start + windowSize + overlap
		if end > n {
			end = n
		}
		window := pts[start:end]
		if len(window) < 2 {
			break
		}
		res, err := tryOffset(window, distance, join, tol, opts)
		if err != nil {
			return Result{}, err
		}
		leftAll = stitch(leftAll, res.Left, tol)
		rightAll = stitch(rightAll, res.Right, tol)
		joinsAll = append(joinsAll, res.JoinTypeUsed...)
		if end == n {
			break
		}
	}
	if len(leftAll) < 2 || len(rightAll) < 2 {
		return Result{}, errs.New(component, errs.NumericalFailure, "windowed fallback produced degenerate curves")
	}
	return Result{Left: leftAll, Right: rightAll, JoinTypeUsed: joinsAll, Success: true}, nil
}

func stitch(existing, next []geometry.Point, tol float64) []geometry.Point {
	if len(existing) == 0 {
		return next
	}
	if len(next) == 0 {
		return existing
	}
	if existing[len(existing)-1].Equals(next[0], tol) {
		return append(existing, next[1:]...)
	}
	return append(existing, next...)
}
