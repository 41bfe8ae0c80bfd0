package validator

import (
	"testing"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/quality"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func rect(x0, y0, x1, y1 float64) []geometry.Point {
	return []geometry.Point{pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1)}
}

func TestValidatePolygonAcceptsSimpleCCWRect(t *testing.T) {
	p := geometry.NewPolygon(rect(0, 0, 10, 10))
	res := ValidatePolygon(p, 1e-6)
	if !res.IsValid {
		t.Errorf("expected valid polygon, got issues %+v", res.Issues)
	}
}

func TestValidatePolygonFlagsClockwiseOuter(t *testing.T) {
	cw := geometry.NewPolygon(geometry.EnsureOrientation(rect(0, 0, 10, 10), false))
	res := ValidatePolygon(cw, 1e-6)
	if res.IsValid {
		t.Fatalf("expected clockwise outer ring to be flagged")
	}
}

func TestValidatePolygonFlagsHoleOutsideOuter(t *testing.T) {
	hole := geometry.EnsureOrientation(rect(100, 100, 110, 110), true)
	p := geometry.NewPolygon(rect(0, 0, 10, 10), hole)
	res := ValidatePolygon(p, 1e-6)
	if res.IsValid {
		t.Fatalf("expected out-of-bounds hole to be flagged")
	}
}

func TestValidateWallSolidAcceptsConservedArea(t *testing.T) {
	baseline := []geometry.Point{pt(0, 0), pt(1000, 0)}
	thickness := 250.0
	polys := []geometry.Polygon{geometry.NewPolygon(rect(0, -125, 1000, 125))}

	in := quality.Input{
		Polygon:     polys[0],
		LeftOffset:  []geometry.Point{pt(0, 125), pt(1000, 125)},
		RightOffset: []geometry.Point{pt(0, -125), pt(1000, -125)},
		Thickness:   thickness,
		Tolerance:   0.25,
		WallType:    quality.WallTypeInterior,
	}

	res := ValidateWallSolid(baseline, thickness, polys, in)
	if !res.IsValid {
		t.Errorf("expected valid wall solid, got issues %+v", res.Issues)
	}
	if res.QualityScore <= 0 {
		t.Errorf("expected a positive quality score, got %v", res.QualityScore)
	}
}

func TestValidateCurveFlagsNearDuplicatePoints(t *testing.T) {
	c := geometry.NewPolyline([]geometry.Point{pt(0, 0), pt(1e-9, 0), pt(10, 0)})
	res := ValidateCurve(c, 1e-3)
	if res.IsValid {
		t.Fatalf("expected near-duplicate consecutive points to be flagged")
	}
}
