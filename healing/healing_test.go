package healing

import (
	"testing"

	"github.com/wallcore/geom/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func TestRemoveSliverFacesDropsNearDegenerateVertex(t *testing.T) {
	ring := []geometry.Point{
		pt(0, 0), pt(10, 0), pt(10, 1e-7), pt(10, 10), pt(0, 10),
	}
	poly := geometry.NewPolygon(ring)
	out, res := RemoveSliverFaces(poly, 1e-3)
	if !res.Applied {
		t.Fatalf("expected sliver removal to apply")
	}
	if len(out.Outer) != 4 {
		t.Errorf("outer ring length = %d, want 4", len(out.Outer))
	}
}

func TestRemoveSliverFacesPreservesUserPlacedVertex(t *testing.T) {
	protected := pt(10, 1e-7)
	protected.CreationMethod = geometry.CreationMethodUserPlaced
	ring := []geometry.Point{pt(0, 0), pt(10, 0), protected, pt(10, 10), pt(0, 10)}
	poly := geometry.NewPolygon(ring)
	out, _ := RemoveSliverFaces(poly, 1e-3)
	// The unprotected neighbour (10,0) spans a sliver and is removed instead.
	if len(out.Outer) != 4 {
		t.Errorf("outer ring length = %d, want 4", len(out.Outer))
	}
	survived := false
	for _, p := range out.Outer {
		if p.X == protected.X && p.Y == protected.Y {
			survived = true
		}
	}
	if !survived {
		t.Errorf("expected protected vertex to survive, got %v", out.Outer)
	}
}

func TestMergeDuplicateVerticesCollapsesCluster(t *testing.T) {
	ring := []geometry.Point{
		pt(0, 0), pt(10, 0), pt(10.0000001, 0.0000001), pt(10, 10), pt(0, 10),
	}
	poly := geometry.NewPolygon(ring)
	out, res := MergeDuplicateVertices(poly, 1e-3)
	if !res.Applied || res.VerticesMerged != 1 {
		t.Fatalf("expected one vertex merged, got %+v", res)
	}
	if len(out.Outer) != 4 {
		t.Errorf("outer ring length = %d, want 4", len(out.Outer))
	}
}

func TestCloseMicroGapsInsertsMidpointAtConsecutivePair(t *testing.T) {
	ring := []geometry.Point{
		pt(0, 0), pt(1000, 0), pt(1000, 500), pt(1000.00005, 500.00005), pt(0, 500),
	}
	poly := geometry.NewPolygon(ring)
	out, res := CloseMicroGaps(poly, 1e-3)
	if !res.Applied || res.GapsClosed != 1 {
		t.Fatalf("expected one gap closed, got %+v", res)
	}
	if len(out.Outer) != 4 {
		t.Errorf("outer ring length = %d, want 4", len(out.Outer))
	}
}

func TestCloseMicroGapsPreservesUserPlacedVertex(t *testing.T) {
	protected := pt(1000, 500)
	protected.CreationMethod = geometry.CreationMethodUserPlaced
	ring := []geometry.Point{
		pt(0, 0), pt(1000, 0), protected, pt(1000.00005, 500.00005), pt(0, 500),
	}
	poly := geometry.NewPolygon(ring)
	out, res := CloseMicroGaps(poly, 1e-3)
	if !res.Applied {
		t.Fatalf("expected gap to close, got %+v", res)
	}
	if out.Outer[2] != protected {
		t.Errorf("expected protected vertex to win the midpoint snap")
	}
}

func TestHealReachesFixedPointWithinMaxIterations(t *testing.T) {
	ring := []geometry.Point{
		pt(0, 0), pt(10, 0), pt(10, 1e-7), pt(10, 10), pt(0, 10),
	}
	poly := geometry.NewPolygon(ring)
	healed, history, err := Heal(poly, 1e-3, MaxIterations)
	if err != nil {
		t.Fatalf("Heal error = %v", err)
	}
	if len(history) == 0 {
		t.Fatalf("expected a non-empty healing history")
	}
	if len(healed.Outer) != 4 {
		t.Errorf("healed ring length = %d, want 4", len(healed.Outer))
	}
}

func TestHealRejectsNonPositiveTolerance(t *testing.T) {
	poly := geometry.NewPolygon([]geometry.Point{pt(0, 0), pt(1, 0), pt(1, 1)})
	if _, _, err := Heal(poly, 0, 10); err == nil {
		t.Fatalf("expected error for non-positive tolerance")
	}
}
