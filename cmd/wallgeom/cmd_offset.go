package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/offset"
)

var (
	offsetPointsFile string
	offsetDistance   float64
	offsetJoin       string
	offsetTolerance  float64
	offsetOutLeft    string
	offsetOutRight   string
)

var offsetCmd = &cobra.Command{
	Use:   "offset",
	Short: "Offset a baseline curve into left/right wall-face curves",
	RunE:  runOffset,
}

func init() {
	offsetCmd.Flags().StringVarP(&offsetPointsFile, "points", "p", "", "JSON file of [x,y] baseline points (required)")
	offsetCmd.Flags().Float64VarP(&offsetDistance, "distance", "d", 125, "offset distance (half wall thickness)")
	offsetCmd.Flags().StringVarP(&offsetJoin, "join", "j", "miter", "join type: miter, bevel, round, auto")
	offsetCmd.Flags().Float64VarP(&offsetTolerance, "tolerance", "t", 0.1, "construction tolerance")
	offsetCmd.Flags().StringVar(&offsetOutLeft, "out-left", "left.json", "output file for the left offset curve")
	offsetCmd.Flags().StringVar(&offsetOutRight, "out-right", "right.json", "output file for the right offset curve")
	offsetCmd.MarkFlagRequired("points")
	rootCmd.AddCommand(offsetCmd)
}

func runOffset(cmd *cobra.Command, args []string) error {
	points, err := readPoints(offsetPointsFile)
	if err != nil {
		return fmt.Errorf("reading points: %w", err)
	}
	baseline := geometry.NewPolyline(points)

	opts := offset.Options{}
	if loadedConfig != nil {
		opts = loadedConfig.OffsetOptions()
		if !cmd.Flags().Changed("tolerance") {
			offsetTolerance = loadedConfig.Tolerance.Default
		}
		if !cmd.Flags().Changed("join") {
			offsetJoin = string(loadedConfig.Offset.DefaultJoin)
		}
	}

	res, err := offset.Offset(baseline, offsetDistance, offset.JoinType(offsetJoin), offsetTolerance, opts)
	if err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(cmd.OutOrStdout(), "warning:", w)
	}

	if err := writePoints(offsetOutLeft, res.Left); err != nil {
		return fmt.Errorf("writing left curve: %w", err)
	}
	if err := writePoints(offsetOutRight, res.Right); err != nil {
		return fmt.Errorf("writing right curve: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s (fallback_used=%v)\n", offsetOutLeft, offsetOutRight, res.FallbackUsed)
	return nil
}
