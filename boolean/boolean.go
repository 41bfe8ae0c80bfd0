// Package boolean implements the polygon boolean engine: union,
// intersection and difference over wall-solid boundary polygons, with a
// multi-stage fallback cascade for degenerate inputs. The join/sweep shape
// is grounded on a Clipper2-style offsetting port; no dedicated
// polygon-clipping library exists in the reference material gathered for
// this codebase, so the kernel here is a from-scratch Weiler-Atherton-style
// clip, not a vendored port.
package boolean

import (
	"math"
	"math/rand"
	"sort"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
)

const component = "boolean"

// maxComplexity is the vertex-pair complexity budget; exceeding it adds a
// warning to the result, and the operation still runs in full.
const maxComplexity = 10000

// Result is the outcome of a single boolean operation.
type Result struct {
	Polygons        []geometry.Polygon
	ProcessingTime  float64 // seconds, filled in by the caller/benchmark harness
	Warnings        []string
	RequiresHealing bool
	Success         bool
}

// Op is the closed set of supported operations.
type Op int

const (
	OpUnion Op = iota
	OpIntersection
	OpDifference
)

// Apply runs op over subject and clip, applying a fallback cascade
// on kernel failure.
func Apply(op Op, subject, clip geometry.Polygon, tol float64) (Result, error) {
	if len(subject.Outer) == 0 || len(clip.Outer) == 0 {
		return Result{}, errs.New(component, errs.Degenerate, "operand has empty geometry")
	}

	rings, ok := clipRings(op, subject.Outer, clip.Outer, tol)
	if !ok {
		logger.Debug("boolean: primary kernel attempt failed for op %v, entering fallback cascade", op)
		rings, ok = clipRings(op, simplifyCollinear(subject.Outer, tol), simplifyCollinear(clip.Outer, tol), tol)
	}
	if !ok {
		rings, ok = clipRings(op, jitter(subject.Outer, tol), jitter(clip.Outer, tol), tol)
	}
	if !ok {
		return Result{Success: false}, errs.New(component, errs.NumericalFailure, "boolean operation failed after exhausting fallback cascade")
	}

	polys := make([]geometry.Polygon, 0, len(rings))
	requiresHealing := false
	for _, r := range rings {
		if len(r) < 4 || math.Abs(geometry.SignedArea(r)) < tol*tol*100 {
			requiresHealing = true
		}
		polys = append(polys, geometry.NewPolygon(r))
	}

	return Result{Polygons: polys, Success: true, RequiresHealing: requiresHealing}, nil
}

// Union merges solids. N<=10 folds sequentially by ascending complexity; N>10
// uses divide-and-conquer halving.
func Union(solids []geometry.Polygon, tol float64) (Result, error) {
	if len(solids) == 0 {
		return Result{Success: false}, errs.New(component, errs.InvalidInput, "batch_union over zero walls")
	}
	if len(solids) == 1 {
		return Result{Polygons: solids, Success: true}, nil
	}

	complexity := totalVertexPairs(solids)
	var warnings []string
	if complexity > maxComplexity {
		warnings = append(warnings, "complexity budget exceeded; proceeding anyway")
	}

	ordered := make([]geometry.Polygon, len(solids))
	copy(ordered, solids)
	sort.Slice(ordered, func(i, j int) bool {
		return len(ordered[i].Outer) < len(ordered[j].Outer)
	})

	var acc geometry.Polygon
	var err error
	if len(ordered) <= 10 {
		acc, err = foldUnion(ordered, tol)
	} else {
		acc, err = divideAndConquerUnion(ordered, tol)
	}
	if err != nil {
		return Result{Success: false}, err
	}

	requiresHealing := len(acc.Outer) < 4 || math.Abs(geometry.SignedArea(acc.Outer)) < tol*tol*100
	return Result{Polygons: []geometry.Polygon{acc}, Success: true, Warnings: warnings, RequiresHealing: requiresHealing}, nil
}

func foldUnion(polys []geometry.Polygon, tol float64) (geometry.Polygon, error) {
	acc := polys[0]
	for _, p := range polys[1:] {
		res, err := Apply(OpUnion, acc, p, tol)
		if err != nil {
			return geometry.Polygon{}, err
		}
		acc = LargestByArea(res.Polygons)
	}
	return acc, nil
}

func divideAndConquerUnion(polys []geometry.Polygon, tol float64) (geometry.Polygon, error) {
	if len(polys) == 1 {
		return polys[0], nil
	}
	mid := len(polys) / 2
	left, err := divideAndConquerUnion(polys[:mid], tol)
	if err != nil {
		return geometry.Polygon{}, err
	}
	right, err := divideAndConquerUnion(polys[mid:], tol)
	if err != nil {
		return geometry.Polygon{}, err
	}
	res, err := Apply(OpUnion, left, right, tol)
	if err != nil {
		return geometry.Polygon{}, err
	}
	return LargestByArea(res.Polygons), nil
}

// LargestByArea returns the polygon with the greatest area in polys,
// used to pick the primary ring out of a multi-ring boolean result.
func LargestByArea(polys []geometry.Polygon) geometry.Polygon {
	best := polys[0]
	bestArea := best.Area()
	for _, p := range polys[1:] {
		if a := p.Area(); a > bestArea {
			best, bestArea = p, a
		}
	}
	return best
}

func totalVertexPairs(solids []geometry.Polygon) int {
	total := 0
	for i := 0; i < len(solids); i++ {
		for j := i + 1; j < len(solids); j++ {
			total += len(solids[i].Outer) * len(solids[j].Outer)
		}
	}
	return total
}

func simplifyCollinear(ring []geometry.Point, tol float64) []geometry.Point {
	n := len(ring)
	if n < 3 {
		return ring
	}
	var out []geometry.Point
	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		cur := ring[i]
		next := ring[(i+1)%n]
		v1 := cur.Sub(prev)
		v2 := next.Sub(cur)
		cross := v1.Cross(v2)
		if math.Abs(cross) > tol {
			out = append(out, cur)
		}
	}
	if len(out) < 3 {
		return ring
	}
	return out
}

func jitter(ring []geometry.Point, tol float64) []geometry.Point {
	out := make([]geometry.Point, len(ring))
	for i, p := range ring {
		out[i] = geometry.Point{
			X: p.X + (rand.Float64()*2-1)*tol,
			Y: p.Y + (rand.Float64()*2-1)*tol,
		}
	}
	return out
}
