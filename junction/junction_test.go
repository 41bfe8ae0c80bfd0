package junction

import (
	"math"
	"testing"

	"github.com/wallcore/geom/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func line(p0, p1 geometry.Point) []geometry.Point { return []geometry.Point{p0, p1} }

// offsetLine shifts a baseline segment by distance along its left normal.
func offsetLine(p0, p1 geometry.Point, distance float64) []geometry.Point {
	dir := p1.Sub(p0)
	n, _ := dir.Rot90().Normalized()
	n = n.Scale(distance)
	return line(p0.Add(n), p1.Add(n))
}

func TestResolveLMatchesWorkedExample(t *testing.T) {
	a0, a1 := pt(0, 0), pt(1000, 0)
	b0, b1 := pt(1000, 0), pt(1000, 1000)

	a := WallGeom{
		ID:        "A",
		Baseline:  line(a0, a1),
		Left:      offsetLine(a0, a1, 125),
		Right:     offsetLine(a0, a1, -125),
		Thickness: 250,
	}
	b := WallGeom{
		ID:        "B",
		Baseline:  line(b0, b1),
		Left:      offsetLine(b0, b1, 125),
		Right:     offsetLine(b0, b1, -125),
		Thickness: 250,
	}

	rec, err := ResolveL(a, b, 1e-6, 10)
	if err != nil {
		t.Fatalf("ResolveL error = %v", err)
	}
	if rec.Kind != KindL {
		t.Fatalf("kind = %v, want L", rec.Kind)
	}
	if rec.ResolutionMethod == "approximate_fallback" {
		t.Fatalf("expected bisector resolution, got fallback")
	}

	outer := rec.Miter.Apex
	wantOuter := pt(1125, -125)
	if math.Abs(outer.X-wantOuter.X) > 1e-6 || math.Abs(outer.Y-wantOuter.Y) > 1e-6 {
		t.Errorf("outer apex = %+v, want %+v", outer, wantOuter)
	}

	inner := rec.OffsetIntA
	wantInner := pt(875, 125)
	if math.Abs(inner.X-wantInner.X) > 1e-6 || math.Abs(inner.Y-wantInner.Y) > 1e-6 {
		t.Errorf("inner intersection = %+v, want %+v", inner, wantInner)
	}

	if rec.Accuracy < 0.95 {
		t.Errorf("accuracy = %v, want >= 0.95", rec.Accuracy)
	}
}

func TestResolveTProducesTwoOffsetIntersections(t *testing.T) {
	a0, a1 := pt(0, 0), pt(2000, 0)
	b0, b1 := pt(1000, 0), pt(1000, 1000)

	main := WallGeom{
		ID:        "main",
		Baseline:  line(a0, a1),
		Left:      offsetLine(a0, a1, 125),
		Right:     offsetLine(a0, a1, -125),
		Thickness: 250,
	}
	branch := WallGeom{
		ID:        "branch",
		Baseline:  line(b0, b1),
		Left:      offsetLine(b0, b1, 125),
		Right:     offsetLine(b0, b1, -125),
		Thickness: 250,
	}

	rec, err := ResolveT(main, branch, 1e-6, 10)
	if err != nil {
		t.Fatalf("ResolveT error = %v", err)
	}
	if rec.Kind != KindT {
		t.Fatalf("kind = %v, want T", rec.Kind)
	}
	if rec.BaselinePoint.DistanceTo(pt(1000, 0)) > 1e-6 {
		t.Errorf("baseline intersection = %+v, want (1000,0)", rec.BaselinePoint)
	}
	if rec.OffsetIntA.Equals(rec.OffsetIntB, 1e-9) {
		t.Errorf("expected two distinct offset intersections")
	}
}

func TestResolveCrossRequiresThreeWalls(t *testing.T) {
	_, err := ResolveCross([]WallGeom{{ID: "a"}, {ID: "b"}}, 1e-6)
	if err == nil {
		t.Fatalf("expected error for fewer than 3 walls")
	}
}

func TestResolveParallelOverlapDetectsOverlappingCollinearWalls(t *testing.T) {
	a := WallGeom{
		ID:       "a",
		Baseline: line(pt(0, 0), pt(1000, 0)),
		Polygon:  geometry.NewPolygon([]geometry.Point{pt(0, -125), pt(1000, -125), pt(1000, 125), pt(0, 125)}),
	}
	b := WallGeom{
		ID:       "b",
		Baseline: line(pt(500, 0), pt(1500, 0)),
		Polygon:  geometry.NewPolygon([]geometry.Point{pt(500, -125), pt(1500, -125), pt(1500, 125), pt(500, 125)}),
	}

	rec, overlapped, err := ResolveParallelOverlap(a, b, 1e-6, DefaultParallelOverlapThreshold)
	if err != nil {
		t.Fatalf("ResolveParallelOverlap error = %v", err)
	}
	if !overlapped {
		t.Fatalf("expected overlap to be detected")
	}
	if rec.Kind != KindParallelOverlap {
		t.Errorf("kind = %v, want parallel_overlap", rec.Kind)
	}
	if rec.ResolutionMethod != "merge" {
		t.Errorf("resolution method = %q, want merge", rec.ResolutionMethod)
	}
	if len(rec.MergedPolygon.Outer) == 0 {
		t.Errorf("expected MergedPolygon to be populated with the unioned solid")
	}
}

func TestResolveParallelOverlapNonParallelReturnsFalse(t *testing.T) {
	a := WallGeom{
		ID:       "a",
		Baseline: line(pt(0, 0), pt(1000, 0)),
		Polygon:  geometry.NewPolygon([]geometry.Point{pt(0, -125), pt(1000, -125), pt(1000, 125), pt(0, 125)}),
	}
	b := WallGeom{
		ID:       "b",
		Baseline: line(pt(500, -500), pt(500, 500)),
		Polygon:  geometry.NewPolygon([]geometry.Point{pt(375, -500), pt(625, -500), pt(625, 500), pt(375, 500)}),
	}

	_, overlapped, err := ResolveParallelOverlap(a, b, 1e-6, DefaultParallelOverlapThreshold)
	if err != nil {
		t.Fatalf("ResolveParallelOverlap error = %v", err)
	}
	if overlapped {
		t.Errorf("expected perpendicular walls not to be classified as parallel overlap")
	}
}
