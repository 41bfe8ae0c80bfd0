package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/quality"
	"github.com/wallcore/geom/report"
)

var (
	reportPolygonFile string
	reportLeftFile     string
	reportRightFile    string
	reportThickness    float64
	reportTolerance    float64
	reportWallID       string
	reportWallType     string
	reportOut          string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a compliance report PDF for a wall solid",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportPolygonFile, "polygon", "", "JSON file of [x,y] wall-solid boundary points (required)")
	reportCmd.Flags().StringVar(&reportLeftFile, "left", "", "JSON file of [x,y] left offset curve points")
	reportCmd.Flags().StringVar(&reportRightFile, "right", "", "JSON file of [x,y] right offset curve points")
	reportCmd.Flags().Float64Var(&reportThickness, "thickness", 250, "wall thickness")
	reportCmd.Flags().Float64Var(&reportTolerance, "tolerance", 0.1, "construction tolerance")
	reportCmd.Flags().StringVar(&reportWallID, "wall-id", "", "wall id (required)")
	reportCmd.Flags().StringVar(&reportWallType, "wall-type", "interior", "wall type: exterior, interior, structural, partition, curtain")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "report.pdf", "output PDF path")
	reportCmd.MarkFlagRequired("polygon")
	reportCmd.MarkFlagRequired("wall-id")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	polygonPoints, err := readPoints(reportPolygonFile)
	if err != nil {
		return fmt.Errorf("reading polygon: %w", err)
	}

	var left, right []geometry.Point
	if reportLeftFile != "" {
		if left, err = readPoints(reportLeftFile); err != nil {
			return fmt.Errorf("reading left offset: %w", err)
		}
	}
	if reportRightFile != "" {
		if right, err = readPoints(reportRightFile); err != nil {
			return fmt.Errorf("reading right offset: %w", err)
		}
	}

	in := quality.Input{
		Polygon:     geometry.NewPolygon(polygonPoints),
		LeftOffset:  left,
		RightOffset: right,
		Thickness:   reportThickness,
		Tolerance:   reportTolerance,
		WallType:    quality.WallType(reportWallType),
	}
	scored := quality.Score(in)

	cr := report.ComplianceReport{
		WallID:      reportWallID,
		WallType:    in.WallType,
		GeneratedAt: time.Now(),
		Report:      scored,
	}
	if err := report.Render(cr, reportOut); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", reportOut)
	return nil
}
