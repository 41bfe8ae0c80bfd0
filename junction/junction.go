// Package junction implements the junction resolvers: T, L, cross and
// parallel-overlap specializations built on top of the offset and
// boolean engines, grounded on the connection-detection and
// confidence-scoring shape of composition_engine.go's composition engine.
package junction

import (
	"fmt"
	"math"
	"sort"

	"github.com/wallcore/geom/boolean"
	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/offset"
)

const component = "junction"

// Kind is the closed set of junction classifications.
type Kind string

const (
	KindT               Kind = "T"
	KindL               Kind = "L"
	KindCross           Kind = "cross"
	KindParallelOverlap Kind = "parallel_overlap"
)

// RecordState is the per-intersection-record state machine.
type RecordState string

const (
	StateProposed    RecordState = "proposed"
	StateValidated   RecordState = "validated"
	StateCached      RecordState = "cached"
	StateInvalidated RecordState = "invalidated"
)

// DefaultParallelOverlapThreshold is the default angular threshold (radians)
// below which two baselines are considered parallel.
const DefaultParallelOverlapThreshold = 0.1

// WallGeom is the slice of a wall solid's geometry a junction resolver
// needs: its baseline and both offset curves. It does not own the wall; the
// caller (the spatial index and wall store) is responsible for feeding
// in up-to-date offsets.
type WallGeom struct {
	ID        string
	Baseline  []geometry.Point
	Left      []geometry.Point
	Right     []geometry.Point
	Thickness float64
	Polygon   geometry.Polygon // boundary polygon, used by parallel-overlap union
}

// MiterCalculation is the geometric detail behind a resolved corner.
type MiterCalculation struct {
	Apex         geometry.Point
	OffsetPoints [2]geometry.Point
	AngleDegrees float64
	JoinType     offset.JoinType
	FallbackUsed bool
}

// Record is an intersection record in the data model.
type Record struct {
	ID               string
	Kind             Kind
	WallIDs          []string
	BaselinePoint    geometry.Point
	Miter            MiterCalculation
	OffsetIntA       geometry.Point
	OffsetIntB       geometry.Point
	ResolutionMethod string
	Accuracy         float64
	Validated        bool
	Cached           bool
	State            RecordState

	// MergedPolygon holds the unioned solid for a parallel-overlap record;
	// zero-value for every other kind.
	MergedPolygon geometry.Polygon
}

func sortedIDs(ids ...string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// ResolveT resolves a T-junction where branch attaches to the interior of
// main's baseline.
func ResolveT(main, branch WallGeom, tol, miterLimit float64) (Record, error) {
	return resolveCorner(KindT, main, branch, tol, miterLimit)
}

// ResolveL resolves an L-junction where both walls terminate at the shared
// point.
func ResolveL(a, b WallGeom, tol, miterLimit float64) (Record, error) {
	return resolveCorner(KindL, a, b, tol, miterLimit)
}

func resolveCorner(kind Kind, main, branch WallGeom, tol, miterLimit float64) (Record, error) {
	p, ok := firstBaselineIntersection(main.Baseline, branch.Baseline, tol)
	if !ok {
		return approximateFallback(kind, main, branch), nil
	}

	inner, outer, ok := cornerOffsetIntersections(main, branch, p, tol)
	if !ok {
		return approximateFallback(kind, main, branch), nil
	}

	mainDir, branchDir := directionsAt(main.Baseline, branch.Baseline, p)
	angleDeg := geometry.AngleBetween(mainDir, branchDir) * 180 / math.Pi

	halfThickness := main.Thickness / 2
	if halfThickness == 0 {
		halfThickness = branch.Thickness / 2
	}
	miterLen := p.DistanceTo(outer)

	rec := Record{
		ID:            fmt.Sprintf("ix-%s-%s-%s", kind, main.ID, branch.ID),
		Kind:          kind,
		WallIDs:       sortedIDs(main.ID, branch.ID),
		BaselinePoint: p,
		OffsetIntA:    inner,
		OffsetIntB:    outer,
		State:         StateProposed,
	}

	if miterLimit <= 0 {
		miterLimit = 10
	}

	if halfThickness > 0 && miterLen > miterLimit*halfThickness {
		rec.Miter = MiterCalculation{
			Apex:         geometry.Lerp(inner, outer, 0.5),
			OffsetPoints: [2]geometry.Point{inner, outer},
			AngleDegrees: angleDeg,
			JoinType:     offset.JoinBevel,
			FallbackUsed: true,
		}
		rec.ResolutionMethod = "bisector_fallback_bevel"
		rec.Accuracy = 0.80
	} else {
		jt := offset.SelectAutoJoin(angleDeg, halfThickness, 0)
		apex := outer
		if jt != offset.JoinMiter {
			apex = geometry.Lerp(inner, outer, 0.5)
		}
		rec.Miter = MiterCalculation{
			Apex:         apex,
			OffsetPoints: [2]geometry.Point{inner, outer},
			AngleDegrees: angleDeg,
			JoinType:     jt,
		}
		rec.ResolutionMethod = "bisector"
		rec.Accuracy = 0.95
	}

	return rec, nil
}

func approximateFallback(kind Kind, main, branch WallGeom) Record {
	p := centroidOf(main.Baseline, branch.Baseline)
	return Record{
		ID:               fmt.Sprintf("ix-%s-%s-%s-approx", kind, main.ID, branch.ID),
		Kind:             kind,
		WallIDs:          sortedIDs(main.ID, branch.ID),
		BaselinePoint:    p,
		Miter:            MiterCalculation{Apex: p, FallbackUsed: true},
		ResolutionMethod: "approximate_fallback",
		Accuracy:         0.6,
		State:            StateProposed,
	}
}

func centroidOf(rings ...[]geometry.Point) geometry.Point {
	var sx, sy float64
	var n int
	for _, r := range rings {
		for _, p := range r {
			sx += p.X
			sy += p.Y
			n++
		}
	}
	if n == 0 {
		return geometry.Point{}
	}
	return geometry.Point{X: sx / float64(n), Y: sy / float64(n)}
}

func firstBaselineIntersection(a, b []geometry.Point, tol float64) (geometry.Point, bool) {
	ca := geometry.NewPolyline(a)
	cb := geometry.NewPolyline(b)
	pts := geometry.CurveIntersections(ca, cb, tol)
	if len(pts) == 0 {
		return geometry.Point{}, false
	}
	return pts[0], true
}

// cornerOffsetIntersections computes the same-side offset-line intersection
// pair (left-left, right-right) for a two-wall corner, returning the member
// closer to P as "inner" and farther as "outer".
func cornerOffsetIntersections(main, branch WallGeom, p geometry.Point, tol float64) (inner, outer geometry.Point, ok bool) {
	ll, llOK := infiniteLinesIntersect(main.Left, branch.Left, tol)
	rr, rrOK := infiniteLinesIntersect(main.Right, branch.Right, tol)
	if !llOK || !rrOK {
		return geometry.Point{}, geometry.Point{}, false
	}
	if p.DistanceTo(ll) <= p.DistanceTo(rr) {
		return ll, rr, true
	}
	return rr, ll, true
}

func infiniteLinesIntersect(a, b []geometry.Point, tol float64) (geometry.Point, bool) {
	if len(a) < 2 || len(b) < 2 {
		return geometry.Point{}, false
	}
	return geometry.LineIntersection(a[0], a[len(a)-1], b[0], b[len(b)-1], tol)
}

func directionsAt(mainBase, branchBase []geometry.Point, p geometry.Point) (geometry.Vector, geometry.Vector) {
	mainDir := mainBase[len(mainBase)-1].Sub(mainBase[0])
	branchDir := branchBase[len(branchBase)-1].Sub(branchBase[0])
	return mainDir, branchDir
}

// ResolveCross resolves an all-pairs junction among three or more incident
// walls: it intersects every offset pair, keeps the four outermost points,
// and places the apex at their centroid.
func ResolveCross(walls []WallGeom, tol float64) (Record, error) {
	if len(walls) < 3 {
		return Record{}, errs.New(component, errs.InvalidInput, "cross junction requires at least 3 incident walls, got %d", len(walls))
	}

	var candidates []geometry.Point
	for i := 0; i < len(walls); i++ {
		for j := i + 1; j < len(walls); j++ {
			for _, la := range [][]geometry.Point{walls[i].Left, walls[i].Right} {
				for _, lb := range [][]geometry.Point{walls[j].Left, walls[j].Right} {
					if p, ok := infiniteLinesIntersect(la, lb, tol); ok {
						candidates = append(candidates, p)
					}
				}
			}
		}
	}
	if len(candidates) == 0 {
		return Record{}, errs.New(component, errs.Degenerate, "cross junction produced no offset intersections")
	}

	p := centroidAllBaselines(walls)
	outer := fourFarthest(candidates, p)
	apex := centroidOf(outer)

	ids := make([]string, len(walls))
	for i, w := range walls {
		ids[i] = w.ID
	}

	accuracy := 0.95
	fallback := len(outer) < 4
	if fallback {
		accuracy = 0.80
	}

	return Record{
		ID:               "ix-cross-" + sortedJoin(ids),
		Kind:             KindCross,
		WallIDs:          sortedIDs(ids...),
		BaselinePoint:    p,
		Miter:            MiterCalculation{Apex: apex, FallbackUsed: fallback},
		ResolutionMethod: "centroid_of_outermost",
		Accuracy:         accuracy,
		State:            StateProposed,
	}, nil
}

func centroidAllBaselines(walls []WallGeom) geometry.Point {
	rings := make([][]geometry.Point, len(walls))
	for i, w := range walls {
		rings[i] = w.Baseline
	}
	return centroidOf(rings...)
}

func fourFarthest(pts []geometry.Point, from geometry.Point) []geometry.Point {
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].DistanceTo(from) > pts[j].DistanceTo(from)
	})
	n := 4
	if len(pts) < n {
		n = len(pts)
	}
	return pts[:n]
}

func sortedJoin(ids []string) string {
	s := sortedIDs(ids...)
	out := ""
	for i, id := range s {
		if i > 0 {
			out += "-"
		}
		out += id
	}
	return out
}

// ResolveParallelOverlap detects whether two baselines run parallel within
// threshold and their offset bands overlap; if so it unions the two wall
// polygons and returns a single merge-method intersection record.
func ResolveParallelOverlap(a, b WallGeom, tol, parallelThresholdRad float64) (Record, bool, error) {
	if parallelThresholdRad <= 0 {
		parallelThresholdRad = DefaultParallelOverlapThreshold
	}
	dirA := a.Baseline[len(a.Baseline)-1].Sub(a.Baseline[0])
	dirB := b.Baseline[len(b.Baseline)-1].Sub(b.Baseline[0])
	angle := geometry.AngleBetween(dirA, dirB)
	// Parallel either nearly aligned or nearly anti-aligned.
	if angle > parallelThresholdRad && math.Pi-angle > parallelThresholdRad {
		return Record{}, false, nil
	}

	if len(a.Polygon.Outer) == 0 || len(b.Polygon.Outer) == 0 {
		return Record{}, false, errs.New(component, errs.Degenerate, "parallel-overlap check requires both wall polygons")
	}
	if !geometry.RingsCross(a.Polygon.Outer, b.Polygon.Outer, tol) &&
		!a.Polygon.ContainsPoint(b.Polygon.Outer[0], tol) &&
		!b.Polygon.ContainsPoint(a.Polygon.Outer[0], tol) {
		return Record{}, false, nil
	}

	res, err := boolean.Apply(boolean.OpUnion, a.Polygon, b.Polygon, tol)
	if err != nil {
		return Record{}, false, errs.Wrap(component, errs.NumericalFailure, err, "parallel-overlap union failed")
	}
	merged := boolean.LargestByArea(res.Polygons)

	p := centroidOf(a.Baseline, b.Baseline)
	rec := Record{
		ID:               fmt.Sprintf("ix-overlap-%s-%s", a.ID, b.ID),
		Kind:             KindParallelOverlap,
		WallIDs:          sortedIDs(a.ID, b.ID),
		BaselinePoint:    p,
		Miter:            MiterCalculation{Apex: p},
		ResolutionMethod: "merge",
		Accuracy:         0.9,
		State:            StateProposed,
		MergedPolygon:    merged,
	}
	return rec, true, nil
}
