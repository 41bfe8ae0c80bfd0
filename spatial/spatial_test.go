package spatial

import (
	"context"
	"testing"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/junction"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func offsetLine(p0, p1 geometry.Point, distance float64) []geometry.Point {
	dir := p1.Sub(p0)
	n, _ := dir.Rot90().Normalized()
	n = n.Scale(distance)
	return []geometry.Point{p0.Add(n), p1.Add(n)}
}

func bbFor(points ...geometry.Point) geometry.BoundingBox {
	bb := geometry.EmptyBoundingBox()
	for _, p := range points {
		bb.Expand(p)
	}
	return bb
}

func wallEntry(id string, p0, p1 geometry.Point, thickness float64) Entry {
	geo := junction.WallGeom{
		ID:        id,
		Baseline:  []geometry.Point{p0, p1},
		Left:      offsetLine(p0, p1, thickness/2),
		Right:     offsetLine(p0, p1, -thickness/2),
		Thickness: thickness,
	}
	return Entry{ID: id, BB: bbFor(p0, p1), Geo: geo}
}

func TestIndexCandidatePairsFindsOverlappingBoxes(t *testing.T) {
	entries := []Entry{
		wallEntry("a", pt(0, 0), pt(1000, 0), 250),
		wallEntry("b", pt(1000, 0), pt(1000, 1000), 250),
		wallEntry("c", pt(5000, 5000), pt(6000, 5000), 250),
	}
	idx := NewIndex(entries)
	pairs := idx.CandidatePairs()

	found := false
	for _, p := range pairs {
		ids := map[string]bool{p[0].ID: true, p[1].ID: true}
		if ids["a"] && ids["b"] {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pair (a,b) to be found among candidates, got %v", pairs)
	}
	for _, p := range pairs {
		ids := map[string]bool{p[0].ID: true, p[1].ID: true}
		if ids["c"] {
			t.Errorf("did not expect wall c to pair with anything, got %v", p)
		}
	}
}

func TestClassifyDetectsL(t *testing.T) {
	a := junction.WallGeom{Baseline: []geometry.Point{pt(0, 0), pt(1000, 0)}}
	b := junction.WallGeom{Baseline: []geometry.Point{pt(1000, 0), pt(1000, 1000)}}
	if got := Classify(a, b, 1e-6); got != ClassL {
		t.Errorf("Classify() = %v, want L", got)
	}
}

func TestOptimizeNetworkResolvesCrossJunction(t *testing.T) {
	entries := []Entry{
		wallEntry("a", pt(0, 0), pt(1000, 0), 250),
		wallEntry("b", pt(1000, 0), pt(1000, 1000), 250),
		wallEntry("c", pt(1000, 0), pt(2000, 0), 250),
	}
	res, err := OptimizeNetwork(context.Background(), entries, nil, nil, 1e-6, 10)
	if err != nil {
		t.Fatalf("OptimizeNetwork error = %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 resolved record, got %d", len(res.Records))
	}
	if res.Records[0].Kind != junction.KindCross {
		t.Errorf("kind = %v, want cross", res.Records[0].Kind)
	}
}

func TestOptimizeNetworkResolvesLJunction(t *testing.T) {
	entries := []Entry{
		wallEntry("a", pt(0, 0), pt(1000, 0), 250),
		wallEntry("b", pt(1000, 0), pt(1000, 1000), 250),
	}
	res, err := OptimizeNetwork(context.Background(), entries, nil, nil, 1e-6, 10)
	if err != nil {
		t.Fatalf("OptimizeNetwork error = %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 resolved record, got %d", len(res.Records))
	}
	if res.Records[0].Kind != junction.KindL {
		t.Errorf("kind = %v, want L", res.Records[0].Kind)
	}
}
