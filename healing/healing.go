// Package healing implements the shape healer: three atomic repair
// operations plus the composite loop that applies them to a fixed point.
// Grounded on the CoverageReport/BoundaryPreservationReport shape of a
// go-polygon-fixer topology cleaner: the distortion metric and gap/overlap
// reporting style come from there, reworked against our own geometry
// package rather than a GEOS binding.
package healing

import (
	"fmt"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
)

const component = "healing"

// MaxIterations bounds the composite healing loop.
const MaxIterations = 10

// Operation names one of the three atomic healing operations.
type Operation string

const (
	OpRemoveSlivers   Operation = "remove_sliver_faces"
	OpMergeDuplicates Operation = "merge_duplicate_vertices"
	OpCloseMicroGaps  Operation = "close_micro_gaps"
)

// Result reports what a single healing operation changed.
type Result struct {
	Operation       Operation
	Applied         bool
	VerticesRemoved int
	VerticesMerged  int
	GapsClosed      int
	AreaBefore      float64
	AreaAfter       float64
	Distortion      float64 // |area change| / original area
	Warnings        []string
}

// HistoryRecord is one append-only entry in a solid's healing history.
type HistoryRecord struct {
	Sequence  int
	Operation Operation
	Result    Result
}

func areaDistortion(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	d := (after - before) / before
	if d < 0 {
		d = -d
	}
	return d
}

// isProtected reports whether a vertex is shielded from removal by the
// preserve_architectural_features rule: user-placed corners are never
// silently dropped by a repair pass.
func isProtected(p geometry.Point) bool {
	return p.CreationMethod == geometry.CreationMethodUserPlaced
}

// RemoveSliverFaces drops near-degenerate triangular slivers from a ring:
// any vertex whose removal changes the local triangle area by less than
// tolerance^2 is collapsed, unless it is architecturally protected.
func RemoveSliverFaces(poly geometry.Polygon, tolerance float64) (geometry.Polygon, Result) {
	before := poly.Area()
	ring := poly.Outer
	removed := 0

	changed := true
	for changed {
		changed = false
		n := len(ring)
		if n <= 3 {
			break
		}
		for i := 0; i < n; i++ {
			prev := ring[(i-1+n)%n]
			cur := ring[i]
			next := ring[(i+1)%n]
			if isProtected(cur) {
				continue
			}
			triArea := triangleArea(prev, cur, next)
			if triArea < tolerance*tolerance {
				ring = append(append([]geometry.Point{}, ring[:i]...), ring[i+1:]...)
				removed++
				changed = true
				break
			}
		}
	}

	out := geometry.NewPolygon(ring, poly.Holes...)
	after := out.Area()
	res := Result{
		Operation:       OpRemoveSlivers,
		Applied:         removed > 0,
		VerticesRemoved: removed,
		AreaBefore:      before,
		AreaAfter:       after,
		Distortion:      areaDistortion(before, after),
	}
	if len(ring) < 3 {
		res.Warnings = append(res.Warnings, "sliver removal degenerated ring below 3 vertices")
	}
	return out, res
}

func triangleArea(a, b, c geometry.Point) float64 {
	v1 := b.Sub(a)
	v2 := c.Sub(a)
	cross := v1.Cross(v2)
	if cross < 0 {
		cross = -cross
	}
	return cross / 2
}

// MergeDuplicateVertices collapses any run of vertices within tolerance of
// each other into a single point (the centroid of the run, or the
// protected vertex if one of the run is architecturally protected).
func MergeDuplicateVertices(poly geometry.Polygon, tolerance float64) (geometry.Polygon, Result) {
	before := poly.Area()
	ring := poly.Outer
	n := len(ring)
	if n < 2 {
		return poly, Result{Operation: OpMergeDuplicates}
	}

	var out []geometry.Point
	merged := 0
	i := 0
	for i < n {
		run := []geometry.Point{ring[i]}
		j := i + 1
		for j < n && ring[j%n].DistanceTo(ring[i]) <= tolerance {
			run = append(run, ring[j%n])
			j++
		}
		if len(run) > 1 {
			merged += len(run) - 1
			out = append(out, collapseRun(run))
		} else {
			out = append(out, ring[i])
		}
		i = j
	}

	result := geometry.NewPolygon(out, poly.Holes...)
	after := result.Area()
	return result, Result{
		Operation:      OpMergeDuplicates,
		Applied:        merged > 0,
		VerticesMerged: merged,
		AreaBefore:     before,
		AreaAfter:      after,
		Distortion:     areaDistortion(before, after),
	}
}

func collapseRun(run []geometry.Point) geometry.Point {
	for _, p := range run {
		if isProtected(p) {
			return p
		}
	}
	var sx, sy float64
	for _, p := range run {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(run))
	return geometry.Point{X: sx / n, Y: sy / n, CreationMethod: geometry.CreationMethodHealing, Accuracy: run[0].Accuracy}
}

// CloseMicroGaps scans a ring for consecutive vertices separated by more
// than zero but no more than tolerance, and collapses each such pair to
// their midpoint, eliminating the hairline gap a junction resolution or a
// noisy construction input can leave behind.
func CloseMicroGaps(poly geometry.Polygon, tolerance float64) (geometry.Polygon, Result) {
	before := poly.Area()
	ring := poly.Outer
	closed := 0

	changed := true
	for changed {
		changed = false
		n := len(ring)
		if n < 3 {
			break
		}
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			d := ring[i].DistanceTo(ring[j])
			if d <= 0 || d > tolerance {
				continue
			}
			mid := geometry.Lerp(ring[i], ring[j], 0.5)
			if isProtected(ring[i]) {
				mid = ring[i]
			} else if isProtected(ring[j]) {
				mid = ring[j]
			}
			next := make([]geometry.Point, 0, n-1)
			for k := 0; k < n; k++ {
				switch k {
				case j:
					// dropped: folded into mid at i.
				case i:
					next = append(next, mid)
				default:
					next = append(next, ring[k])
				}
			}
			ring = next
			closed++
			changed = true
			break
		}
	}

	out := geometry.NewPolygon(ring, poly.Holes...)
	after := out.Area()
	return out, Result{
		Operation:  OpCloseMicroGaps,
		Applied:    closed > 0,
		GapsClosed: closed,
		AreaBefore: before,
		AreaAfter:  after,
		Distortion: areaDistortion(before, after),
	}
}

// Heal runs the composite healing loop: sliver removal, duplicate-vertex
// merging, then micro-gap closing, repeated until none of the three changes
// the ring or maxIterations is hit. Returns the healed polygon and its
// append-only history.
func Heal(poly geometry.Polygon, tolerance float64, maxIterations int) (geometry.Polygon, []HistoryRecord, error) {
	if tolerance <= 0 {
		return poly, nil, errs.New(component, errs.InvalidInput, "tolerance must be positive, got %v", tolerance)
	}
	if maxIterations <= 0 {
		maxIterations = MaxIterations
	}

	var history []HistoryRecord
	cur := poly
	seq := 0
	for iter := 0; iter < maxIterations; iter++ {
		next, sliverRes := RemoveSliverFaces(cur, tolerance)
		seq++
		history = append(history, HistoryRecord{Sequence: seq, Operation: OpRemoveSlivers, Result: sliverRes})

		next, mergeRes := MergeDuplicateVertices(next, tolerance)
		seq++
		history = append(history, HistoryRecord{Sequence: seq, Operation: OpMergeDuplicates, Result: mergeRes})

		next, gapRes := CloseMicroGaps(next, tolerance)
		seq++
		history = append(history, HistoryRecord{Sequence: seq, Operation: OpCloseMicroGaps, Result: gapRes})

		if !sliverRes.Applied && !mergeRes.Applied && !gapRes.Applied {
			cur = next
			break
		}
		cur = next
		if len(cur.Outer) < 3 {
			logger.Warn("healing: ring collapsed below 3 vertices after %d iterations", iter+1)
			return cur, history, errs.New(component, errs.Degenerate, "healing collapsed polygon below a valid ring")
		}
	}

	if len(history) >= 3*maxIterations {
		logger.Debug("healing: hit max_healing_iterations=%d without reaching a fixed point", maxIterations)
	}
	return cur, history, nil
}

// Summarize renders a one-line description of a history record, used by the
// heal subcommand of cmd/wallgeom.
func (r HistoryRecord) Summarize() string {
	return fmt.Sprintf("#%d %s applied=%v distortion=%.6f", r.Sequence, r.Operation, r.Result.Applied, r.Result.Distortion)
}
