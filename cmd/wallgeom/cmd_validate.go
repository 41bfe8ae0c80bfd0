package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/validator"
)

var (
	validatePointsFile string
	validateTolerance  float64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a polygon against the structural invariants of the wall-geometry core",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validatePointsFile, "points", "p", "", "JSON file of [x,y] polygon outer-ring points (required)")
	validateCmd.Flags().Float64VarP(&validateTolerance, "tolerance", "t", 0.1, "construction tolerance")
	validateCmd.MarkFlagRequired("points")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	points, err := readPoints(validatePointsFile)
	if err != nil {
		return fmt.Errorf("reading points: %w", err)
	}
	poly := geometry.NewPolygon(points)

	if loadedConfig != nil && !cmd.Flags().Changed("tolerance") {
		validateTolerance = loadedConfig.Tolerance.Default
	}

	res := validator.ValidatePolygon(poly, validateTolerance)
	if res.IsValid {
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "invalid:")
	for _, issue := range res.Issues {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", issue.Rule, issue.Message)
	}
	return fmt.Errorf("%d invariant violation(s)", len(res.Issues))
}
