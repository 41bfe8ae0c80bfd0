package report

import (
	"testing"
	"time"

	"github.com/wallcore/geom/quality"
)

func TestBuildDescriptionIncludesAllScoresAndIssues(t *testing.T) {
	cr := ComplianceReport{
		WallID:      "wall-1",
		WallType:    quality.WallTypeInterior,
		GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Report: quality.Report{
			Scores: quality.Scores{
				GeometricAccuracy:       0.95,
				TopologicalConsistency:  0.9,
				Manufacturability:       0.8,
				ArchitecturalCompliance: 0.85,
			},
			Issues:          []quality.Issue{{Kind: "sliver_face", Severity: quality.SeverityWarning}},
			Recommendations: []string{"adjust tolerance"},
		},
	}

	desc := buildDescription(cr)
	page, ok := desc.Pages["1"]
	if !ok {
		t.Fatalf("expected a page \"1\" in the content description")
	}

	var found int
	for _, tb := range page.Content.Texts {
		if tb.Value == "adjust tolerance" || tb.Value == "  - adjust tolerance" {
			found++
		}
	}
	if found == 0 {
		t.Errorf("expected a text box rendering the recommendation")
	}
	if len(page.Content.Texts) < 8 {
		t.Errorf("expected report body to contain several text lines, got %d", len(page.Content.Texts))
	}
}
