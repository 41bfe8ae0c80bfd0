package geometry

import "testing"

func TestCurveLengthPolyline(t *testing.T) {
	c := NewPolyline([]Point{NewPoint(0, 0), NewPoint(3, 4), NewPoint(3, 0)})
	if got, want := c.Length(), 9.0; got != want {
		t.Errorf("Length() = %v, want %v", got, want)
	}
}

func TestCurveBoundingBox(t *testing.T) {
	c := NewPolyline([]Point{NewPoint(0, 0), NewPoint(10, 5)})
	bb := c.BoundingBox()
	if bb.MinX != 0 || bb.MaxX != 10 || bb.MinY != 0 || bb.MaxY != 5 {
		t.Errorf("unexpected bbox: %+v", bb)
	}
}

func TestValidConstructionRejectsDuplicate(t *testing.T) {
	c := NewPolyline([]Point{NewPoint(0, 0), NewPoint(0, 0.0000001), NewPoint(10, 0)})
	if c.ValidConstruction(1e-6) {
		t.Errorf("expected curve with near-duplicate consecutive points to fail construction validity")
	}
}

func TestFlattenArc(t *testing.T) {
	c := NewArc(NewPoint(0, 0), 10, 10, 0, 1.5707963267948966, false)
	c.FlattenSamples = 4
	pts := c.Flatten()
	if len(pts) != 5 {
		t.Fatalf("expected 5 sampled points, got %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if first.DistanceTo(NewPoint(10, 0)) > 1e-9 {
		t.Errorf("arc start = %+v, want (10,0)", first)
	}
	if last.DistanceTo(NewPoint(0, 10)) > 1e-6 {
		t.Errorf("arc end = %+v, want (0,10)", last)
	}
}
