package geometry

import "testing"

func rect(x0, y0, x1, y1 float64) []Point {
	return []Point{NewPoint(x0, y0), NewPoint(x1, y0), NewPoint(x1, y1), NewPoint(x0, y1)}
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := rect(0, 0, 10, 5)
	if SignedArea(ccw) <= 0 {
		t.Errorf("expected positive signed area for CCW rect, got %v", SignedArea(ccw))
	}
	cw := EnsureOrientation(ccw, false)
	if SignedArea(cw) >= 0 {
		t.Errorf("expected negative signed area after reversal, got %v", SignedArea(cw))
	}
}

func TestPolygonArea(t *testing.T) {
	poly := NewPolygon(rect(0, 0, 1000, 500))
	if got, want := poly.Area(), 500000.0; got != want {
		t.Errorf("Area() = %v, want %v", got, want)
	}
}

func TestContainsPoint(t *testing.T) {
	poly := NewPolygon(rect(0, 0, 10, 10))
	if !poly.ContainsPoint(NewPoint(5, 5), 1e-9) {
		t.Errorf("expected center point to be contained")
	}
	if poly.ContainsPoint(NewPoint(20, 20), 1e-9) {
		t.Errorf("expected far point to not be contained")
	}
}

func TestContainsPointExcludesHole(t *testing.T) {
	poly := NewPolygon(rect(0, 0, 10, 10), rect(4, 4, 6, 6))
	if poly.ContainsPoint(NewPoint(5, 5), 1e-9) {
		t.Errorf("expected point inside hole to not be contained")
	}
	if !poly.ContainsPoint(NewPoint(1, 1), 1e-9) {
		t.Errorf("expected point outside hole but inside outer ring to be contained")
	}
}

func TestIsSimpleDetectsSelfIntersection(t *testing.T) {
	bowtie := []Point{NewPoint(0, 0), NewPoint(10, 10), NewPoint(10, 0), NewPoint(0, 10)}
	poly := NewPolygon(bowtie)
	if poly.IsSimple(1e-9) {
		t.Errorf("expected bowtie ring to be detected as non-simple")
	}
}
