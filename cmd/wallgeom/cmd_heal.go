package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/healing"
)

var (
	healPointsFile    string
	healTolerance     float64
	healMaxIterations int
	healOut           string
)

var healCmd = &cobra.Command{
	Use:   "heal",
	Short: "Run the shape healer over a polygon until it reaches a fixed point",
	RunE:  runHeal,
}

func init() {
	healCmd.Flags().StringVarP(&healPointsFile, "points", "p", "", "JSON file of [x,y] polygon outer-ring points (required)")
	healCmd.Flags().Float64VarP(&healTolerance, "tolerance", "t", 0.1, "construction tolerance")
	healCmd.Flags().IntVar(&healMaxIterations, "max-iterations", healing.MaxIterations, "maximum healing iterations")
	healCmd.Flags().StringVar(&healOut, "out", "healed.json", "output file for the healed polygon")
	healCmd.MarkFlagRequired("points")
	rootCmd.AddCommand(healCmd)
}

func runHeal(cmd *cobra.Command, args []string) error {
	points, err := readPoints(healPointsFile)
	if err != nil {
		return fmt.Errorf("reading points: %w", err)
	}
	poly := geometry.NewPolygon(points)

	if loadedConfig != nil {
		if !cmd.Flags().Changed("tolerance") {
			healTolerance = loadedConfig.Tolerance.Default
		}
		if !cmd.Flags().Changed("max-iterations") {
			healMaxIterations = loadedConfig.Healing.MaxIterations
		}
	}

	healed, history, err := healing.Heal(poly, healTolerance, healMaxIterations)
	if err != nil {
		return fmt.Errorf("heal: %w", err)
	}
	for _, rec := range history {
		fmt.Fprintln(cmd.OutOrStdout(), rec.Summarize())
	}

	if err := writePoints(healOut, healed.Outer); err != nil {
		return fmt.Errorf("writing healed polygon: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s after %d iteration(s)\n", healOut, len(history))
	return nil
}
