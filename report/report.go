// Package report renders a one-page architectural-compliance report (the
// four quality scores, issue list, recommendations) as a PDF, grounded on the
// teacher's core/backend/services/pdf_processor.go call convention
// (api.ValidateFile(path, conf)) and pdfcpu's JSON page-content creation
// workflow (the `pdfcpu create description.json out.pdf` CLI command,
// exposed programmatically as api.CreateFile).
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/quality"
)

const component = "report"

type textBox struct {
	Value    string `json:"value"`
	Position [2]int `json:"position"`
	FontSize int    `json:"fontSize"`
}

type pageContent struct {
	Texts []textBox `json:"texts"`
}

type page struct {
	Content pageContent `json:"content"`
}

type contentDescription struct {
	Paper string          `json:"paper"`
	Pages map[string]page `json:"pages"`
}

// ComplianceReport is the input to Render: a wall identifier, its
// quality report, and the wall type it was scored against.
type ComplianceReport struct {
	WallID      string
	WallType    quality.WallType
	GeneratedAt time.Time
	Report      quality.Report
}

// Render writes a single-page PDF summarizing report to outPath.
func Render(cr ComplianceReport, outPath string) error {
	desc := buildDescription(cr)

	descBytes, err := json.Marshal(desc)
	if err != nil {
		return errs.Wrap(component, errs.InvalidInput, err, "failed to marshal report content description")
	}

	descFile, err := os.CreateTemp("", "wallgeom-report-*.json")
	if err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to create temp content description file")
	}
	defer os.Remove(descFile.Name())

	if _, err := descFile.Write(descBytes); err != nil {
		descFile.Close()
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to write content description")
	}
	if err := descFile.Close(); err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to close content description file")
	}

	if err := api.CreateFile(descFile.Name(), outPath, model.NewDefaultConfiguration()); err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to render compliance report PDF")
	}
	if err := api.ValidateFile(outPath, model.NewDefaultConfiguration()); err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "generated compliance report PDF failed validation")
	}
	return nil
}

func buildDescription(cr ComplianceReport) contentDescription {
	var texts []textBox
	y := 780

	addLine := func(s string, size int) {
		texts = append(texts, textBox{Value: s, Position: [2]int{50, y}, FontSize: size})
		y -= size + 10
	}

	addLine(fmt.Sprintf("Wall Compliance Report: %s", cr.WallID), 20)
	addLine(fmt.Sprintf("Wall type: %s    Generated: %s", cr.WallType, cr.GeneratedAt.Format(time.RFC3339)), 11)
	addLine("", 6)

	s := cr.Report.Scores
	addLine(fmt.Sprintf("Geometric accuracy:        %.3f", s.GeometricAccuracy), 13)
	addLine(fmt.Sprintf("Topological consistency:   %.3f", s.TopologicalConsistency), 13)
	addLine(fmt.Sprintf("Manufacturability:         %.3f", s.Manufacturability), 13)
	addLine(fmt.Sprintf("Architectural compliance:  %.3f", s.ArchitecturalCompliance), 13)
	addLine("", 6)

	addLine(fmt.Sprintf("Issues (%d):", len(cr.Report.Issues)), 14)
	for _, issue := range cr.Report.Issues {
		addLine(fmt.Sprintf("  [%s] %s at %v (auto_fixable=%v)", issue.Severity, issue.Kind, issue.Location, issue.AutoFixable), 11)
	}
	addLine("", 6)

	addLine("Recommendations:", 14)
	for _, rec := range cr.Report.Recommendations {
		addLine("  - "+rec, 11)
	}

	return contentDescription{
		Paper: "A4",
		Pages: map[string]page{
			"1": {Content: pageContent{Texts: texts}},
		},
	}
}
