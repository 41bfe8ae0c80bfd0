package boolean

import (
	"testing"

	"github.com/wallcore/geom/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func rect(x0, y0, x1, y1 float64) geometry.Polygon {
	return geometry.NewPolygon([]geometry.Point{pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1)})
}

func TestUnionOfOverlappingRectangles(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(5, 0, 15, 10)
	res, err := Apply(OpUnion, a, b, 1e-6)
	if err != nil {
		t.Fatalf("Apply(union) error = %v", err)
	}
	if !res.Success || len(res.Polygons) != 1 {
		t.Fatalf("expected a single merged polygon, got %d", len(res.Polygons))
	}
	if got, want := res.Polygons[0].Area(), 150.0; got != want {
		t.Errorf("union area = %v, want %v", got, want)
	}
}

func TestIntersectionOfOverlappingRectangles(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(5, 0, 15, 10)
	res, err := Apply(OpIntersection, a, b, 1e-6)
	if err != nil {
		t.Fatalf("Apply(intersection) error = %v", err)
	}
	if !res.Success || len(res.Polygons) != 1 {
		t.Fatalf("expected a single overlap polygon, got %d", len(res.Polygons))
	}
	if got, want := res.Polygons[0].Area(), 50.0; got != want {
		t.Errorf("intersection area = %v, want %v", got, want)
	}
}

func TestUnionSingleWallReturnsUnchanged(t *testing.T) {
	a := rect(0, 0, 10, 10)
	res, err := Union([]geometry.Polygon{a}, 1e-6)
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if len(res.Polygons) != 1 || res.Polygons[0].Area() != a.Area() {
		t.Errorf("expected single-wall union to return it unchanged")
	}
}

func TestUnionZeroWallsFails(t *testing.T) {
	_, err := Union(nil, 1e-6)
	if err == nil {
		t.Fatalf("expected error for batch_union over zero walls")
	}
}

func TestDifferenceDisjointReturnsSubjectUnchanged(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(20, 20, 30, 30)
	res, err := Apply(OpDifference, a, b, 1e-6)
	if err != nil {
		t.Fatalf("Apply(difference) error = %v", err)
	}
	if len(res.Polygons) != 1 || res.Polygons[0].Area() != a.Area() {
		t.Errorf("expected subject unchanged for disjoint difference")
	}
}
