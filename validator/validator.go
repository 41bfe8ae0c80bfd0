// Package validator implements non-mutating structural and semantic
// validation of curves, polygons, and wall solids against the
// wall-geometry core's invariants. It reuses the quality scorer for its
// quality_score field rather than duplicating the accuracy math.
package validator

import (
	"fmt"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/quality"
)

// Issue is a single validation failure.
type Issue struct {
	Rule    string
	Message string
}

// Result is the outcome of a validation pass.
type Result struct {
	IsValid      bool
	QualityScore float64
	Issues       []Issue
}

// ValidateCurve checks the "no two consecutive points within construction
// tolerance" invariant.
func ValidateCurve(c geometry.Curve, tolerance float64) Result {
	var issues []Issue
	if !c.ValidConstruction(tolerance) {
		issues = append(issues, Issue{Rule: "curve_min_spacing", Message: "two consecutive points fall within the curve's construction tolerance"})
	}
	return Result{IsValid: len(issues) == 0, Issues: issues}
}

// ValidatePolygon checks the polygon invariants: outer ring simple,
// holes strictly inside the outer ring, no ring crossings, correct
// orientation signs.
func ValidatePolygon(p geometry.Polygon, tolerance float64) Result {
	var issues []Issue

	if !p.IsSimple(tolerance) {
		issues = append(issues, Issue{Rule: "outer_ring_simple", Message: "outer ring self-intersects"})
	}
	if !geometry.IsCCW(p.Outer) {
		issues = append(issues, Issue{Rule: "outer_orientation", Message: "outer ring is not counter-clockwise"})
	}
	for i, h := range p.Holes {
		if geometry.IsCCW(h) {
			issues = append(issues, Issue{Rule: "hole_orientation", Message: fmt.Sprintf("hole %d is not clockwise", i)})
		}
		if !geometry.HoleInsideOuter(p.Outer, h, tolerance) {
			issues = append(issues, Issue{Rule: "hole_containment", Message: fmt.Sprintf("hole %d is not strictly inside the outer ring", i)})
		}
		if geometry.RingsCross(p.Outer, h, tolerance) {
			issues = append(issues, Issue{Rule: "ring_crossing", Message: fmt.Sprintf("hole %d crosses the outer ring", i)})
		}
	}
	for i := 0; i < len(p.Holes); i++ {
		for j := i + 1; j < len(p.Holes); j++ {
			if geometry.RingsCross(p.Holes[i], p.Holes[j], tolerance) {
				issues = append(issues, Issue{Rule: "ring_crossing", Message: fmt.Sprintf("holes %d and %d cross", i, j)})
			}
		}
	}

	return Result{IsValid: len(issues) == 0, Issues: issues}
}

// ValidateWallSolid checks the wall-solid invariant: the sum of
// polygon areas equals baseline-length * thickness, to within
// tolerance * perimeter. It also folds in a quality score via the
// scorer so callers get a single validation verdict.
func ValidateWallSolid(baseline []geometry.Point, thickness float64, polys []geometry.Polygon, in quality.Input) Result {
	var issues []Issue

	for _, p := range polys {
		res := ValidatePolygon(p, in.Tolerance)
		issues = append(issues, res.Issues...)
	}

	baselineLen := geometry.Perimeter(baseline) / 2 // Perimeter closes the ring; an open baseline is half that.
	if len(baseline) >= 2 {
		baselineLen = polylineLength(baseline)
	}
	expectedArea := baselineLen * thickness

	var totalArea float64
	for _, p := range polys {
		totalArea += p.Area()
	}

	perimeter := 0.0
	for _, p := range polys {
		perimeter += geometry.Perimeter(p.Outer)
	}
	allowed := in.Tolerance * perimeter
	if allowed == 0 {
		allowed = in.Tolerance
	}

	if diff := totalArea - expectedArea; diff > allowed || diff < -allowed {
		issues = append(issues, Issue{Rule: "area_conservation", Message: fmt.Sprintf("polygon area %.6f deviates from baseline_length*thickness %.6f beyond tolerance*perimeter %.6f", totalArea, expectedArea, allowed)})
	}

	report := quality.Score(in)
	overallScore := (report.Scores.GeometricAccuracy + report.Scores.TopologicalConsistency +
		report.Scores.Manufacturability + report.Scores.ArchitecturalCompliance) / 4

	return Result{IsValid: len(issues) == 0, QualityScore: overallScore, Issues: issues}
}

func polylineLength(points []geometry.Point) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += points[i].DistanceTo(points[i+1])
	}
	return total
}
