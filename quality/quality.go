// Package quality implements the quality-metrics scorer: geometric
// accuracy, topological consistency, manufacturability, and architectural
// compliance scores, issue enumeration, and threshold-based
// recommendations. Grounded on the healing package's distortion/history
// shape (itself adapted from a polygon-fixer's topology-cleaner reports)
// for the issue/severity vocabulary, since no other part of this codebase
// scores wall geometry directly.
package quality

import (
	"math"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/healing"
)

// WallType drives the architectural_compliance baseline, following the
// usual exterior/interior/structural/partition/curtain classification.
type WallType string

const (
	WallTypeExterior   WallType = "exterior"
	WallTypeInterior   WallType = "interior"
	WallTypeStructural WallType = "structural"
	WallTypePartition  WallType = "partition"
	WallTypeCurtain    WallType = "curtain"
)

// expectedStraightness holds the per-type straightness baselines
// architectural_compliance measures against.
var expectedStraightness = map[WallType]float64{
	WallTypeExterior:   0.98,
	WallTypeStructural: 0.98,
	WallTypeInterior:   0.95,
	WallTypePartition:  0.90,
	WallTypeCurtain:    0.95,
}

// Severity classifies an Issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Issue is a single flagged problem on a wall solid.
type Issue struct {
	Kind        string
	Severity    Severity
	Location    geometry.Point
	AutoFixable bool
}

// Scores holds the four quality metrics, each in [0,1].
type Scores struct {
	GeometricAccuracy       float64
	TopologicalConsistency  float64
	Manufacturability       float64
	ArchitecturalCompliance float64
}

// Report is the full output of a quality pass: scores, issues, and
// generated recommendations.
type Report struct {
	Scores          Scores
	Issues          []Issue
	Recommendations []string
}

// Input bundles everything a quality pass needs about one wall solid.
type Input struct {
	Polygon           geometry.Polygon
	LeftOffset        []geometry.Point
	RightOffset       []geometry.Point
	Thickness         float64
	Tolerance         float64
	WallType          WallType
	SelfIntersections int
	UnmatchedEdges    int
}

const component = "quality"

// Score runs the full quality-scoring pipeline over a healed wall solid.
func Score(in Input) Report {
	geomAcc := geometricAccuracy(in)
	topo := topologicalConsistency(in)
	manu := manufacturability(in)
	arch := architecturalCompliance(in)

	scores := Scores{
		GeometricAccuracy:       geomAcc,
		TopologicalConsistency:  topo,
		Manufacturability:       manu,
		ArchitecturalCompliance: arch,
	}

	issues := enumerateIssues(in, scores)
	recs := recommend(scores, issues)

	return Report{Scores: scores, Issues: issues, Recommendations: recs}
}

// geometricAccuracy measures mean perpendicular deviation between the
// offset curves and the actual boundary polygon, relative to tolerance.
func geometricAccuracy(in Input) float64 {
	if in.Tolerance <= 0 {
		return 0
	}
	deviations := meanDeviation(in.LeftOffset, in.Polygon.Outer) + meanDeviation(in.RightOffset, in.Polygon.Outer)
	meanDev := deviations / 2
	ratio := meanDev / in.Tolerance
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}

func meanDeviation(offset []geometry.Point, boundary []geometry.Point) float64 {
	if len(offset) == 0 || len(boundary) < 2 {
		return 0
	}
	var total float64
	for _, p := range offset {
		total += nearestBoundaryDistance(p, boundary)
	}
	return total / float64(len(offset))
}

func nearestBoundaryDistance(p geometry.Point, boundary []geometry.Point) float64 {
	n := len(boundary)
	best := math.MaxFloat64
	for i := 0; i < n; i++ {
		d := geometry.PointSegmentDistance(p, boundary[i], boundary[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

func topologicalConsistency(in Input) float64 {
	edgeCount := len(in.Polygon.Outer)
	if edgeCount == 0 {
		return 0
	}
	bad := in.SelfIntersections + in.UnmatchedEdges
	score := 1 - float64(bad)/float64(edgeCount)
	if score < 0 {
		score = 0
	}
	return score
}

// manufacturability penalizes interior angles under 10 degrees and
// segments shorter than 5x tolerance. It does not check local thickness.
func manufacturability(in Input) float64 {
	ring := in.Polygon.Outer
	n := len(ring)
	if n < 3 {
		return 0
	}
	penalty := 0.0
	minSegLen := 5 * in.Tolerance

	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		cur := ring[i]
		next := ring[(i+1)%n]

		v1 := prev.Sub(cur)
		v2 := next.Sub(cur)
		angleDeg := geometry.AngleBetween(v1, v2) * 180 / math.Pi
		if angleDeg < 10 {
			penalty += (10 - angleDeg) / 10
		}

		if segLen := cur.DistanceTo(next); segLen < minSegLen && minSegLen > 0 {
			penalty += (minSegLen - segLen) / minSegLen
		}
	}

	score := 1 - penalty/float64(n)
	if score < 0 {
		score = 0
	}
	return score
}

// architecturalCompliance compares effective thickness, straightness, and
// right-angle alignment to the wall-type's expected baseline.
func architecturalCompliance(in Input) float64 {
	baseline, ok := expectedStraightness[in.WallType]
	if !ok {
		baseline = 0.9
	}

	straightness := straightnessRatio(in.Polygon.Outer)
	thicknessScore := thicknessConsistency(in.LeftOffset, in.RightOffset, in.Thickness, in.Tolerance)

	score := (straightness/baseline)*0.5 + thicknessScore*0.5
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func straightnessRatio(ring []geometry.Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	rightAngles := 0
	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		cur := ring[i]
		next := ring[(i+1)%n]
		v1 := cur.Sub(prev)
		v2 := next.Sub(cur)
		angleDeg := geometry.AngleBetween(v1, v2) * 180 / math.Pi
		if math.Abs(angleDeg-90) < 5 || angleDeg < 5 {
			rightAngles++
		}
	}
	return float64(rightAngles) / float64(n)
}

func thicknessConsistency(left, right []geometry.Point, thickness, tolerance float64) float64 {
	if len(left) != len(right) || len(left) == 0 || thickness <= 0 {
		return 1
	}
	var maxDev float64
	for i := range left {
		d := left[i].DistanceTo(right[i])
		dev := math.Abs(d - thickness)
		if dev > maxDev {
			maxDev = dev
		}
	}
	ratio := maxDev / thickness
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio
}

func enumerateIssues(in Input, s Scores) []Issue {
	var issues []Issue
	loc := geometry.Point{}
	if len(in.Polygon.Outer) > 0 {
		bb := geometry.EmptyBoundingBox()
		for _, p := range in.Polygon.Outer {
			bb.Expand(p)
		}
		loc = bb.Center()
	}

	if in.SelfIntersections > 0 {
		issues = append(issues, Issue{Kind: "self_intersection", Severity: SeverityCritical, Location: loc, AutoFixable: false})
	}
	if in.UnmatchedEdges > 0 {
		issues = append(issues, Issue{Kind: "unmatched_edge", Severity: SeverityWarning, Location: loc, AutoFixable: true})
	}
	if s.Manufacturability < 0.7 {
		issues = append(issues, Issue{Kind: "manufacturability_risk", Severity: SeverityWarning, Location: loc, AutoFixable: true})
	}
	if s.GeometricAccuracy < 0.8 {
		issues = append(issues, Issue{Kind: "offset_deviation", Severity: SeverityWarning, Location: loc, AutoFixable: false})
	}
	if s.ArchitecturalCompliance < 0.7 {
		issues = append(issues, Issue{Kind: "architectural_noncompliance", Severity: SeverityInfo, Location: loc, AutoFixable: false})
	}
	return issues
}

func recommend(s Scores, issues []Issue) []string {
	var recs []string
	if s.GeometricAccuracy < 0.8 {
		recs = append(recs, "adjust tolerance")
	}
	for _, iss := range issues {
		if iss.Kind == "self_intersection" {
			recs = append(recs, "critical: resolve self-intersections immediately")
		}
	}
	if s.Manufacturability < 0.7 {
		recs = append(recs, "run shape healing to remove sharp angles and short segments")
	}
	if s.ArchitecturalCompliance < 0.7 {
		recs = append(recs, "review wall type against its straightness/thickness baseline")
	}
	return recs
}

// HistoryImpact totals the vertices removed, vertices merged and gaps
// closed across a healing history.
func HistoryImpact(history []healing.HistoryRecord) (verticesRemoved, verticesMerged, gapsClosed int) {
	for _, h := range history {
		verticesRemoved += h.Result.VerticesRemoved
		verticesMerged += h.Result.VerticesMerged
		gapsClosed += h.Result.GapsClosed
	}
	return
}
