package offset

import (
	"testing"

	"github.com/wallcore/geom/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func TestRectangleOffset(t *testing.T) {
	baseline := geometry.NewPolyline([]geometry.Point{
		pt(0, 0), pt(1000, 0), pt(1000, 500), pt(0, 500), pt(0, 0),
	})
	res, err := Offset(baseline, 125, JoinMiter, 1e-6, Options{})
	if err != nil {
		t.Fatalf("Offset() error = %v", err)
	}
	if res.FallbackUsed {
		t.Errorf("expected no fallback for a simple rectangle")
	}
	if res.Left[0].DistanceTo(pt(0, -125)) > 1e-6 {
		t.Errorf("left offset start = %+v, want (0,-125)", res.Left[0])
	}
}

func TestOffsetZeroDistanceIsInvalid(t *testing.T) {
	baseline := geometry.NewPolyline([]geometry.Point{pt(0, 0), pt(10, 0)})
	_, err := Offset(baseline, 0, JoinMiter, 1e-6, Options{})
	if err == nil {
		t.Fatalf("expected error for zero distance")
	}
}

func TestOffsetDropsZeroLengthSegment(t *testing.T) {
	baseline := geometry.NewPolyline([]geometry.Point{pt(0, 0), pt(0, 0), pt(10, 0)})
	res, err := Offset(baseline, 1, JoinMiter, 1e-6, Options{})
	if err != nil {
		t.Fatalf("Offset() error = %v", err)
	}
	if !res.Success {
		t.Errorf("expected success after dropping the zero-length segment")
	}
}

func TestSharpAngleFallsBackToBevel(t *testing.T) {
	// ~5 degree interior angle at the middle vertex.
	baseline := geometry.NewPolyline([]geometry.Point{
		pt(1000, 87.5), pt(0, 0), pt(1000, 0),
	})
	res, err := Offset(baseline, 125, JoinMiter, 1e-6, Options{MiterLimit: 10})
	if err != nil {
		t.Fatalf("Offset() error = %v", err)
	}
	if len(res.JoinTypeUsed) == 0 || res.JoinTypeUsed[0] != JoinBevel {
		t.Errorf("JoinTypeUsed = %v, want first join to downgrade to bevel", res.JoinTypeUsed)
	}
}

func TestOffsetTolerancePropagation(t *testing.T) {
	baseline := geometry.NewPolyline([]geometry.Point{pt(0, 0), pt(10, 0)})
	_, err := Offset(baseline, 5, JoinMiter, 0, Options{})
	if err == nil {
		t.Fatalf("expected error for non-positive tolerance")
	}
}
