package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/metricslog"
)

var (
	metricsDSN    string
	metricsWallID string
	metricsSince  time.Duration
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the quality-metrics trend for a wall over a time window",
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsDSN, "dsn", "", "Postgres DSN for the metrics log (required)")
	metricsCmd.Flags().StringVar(&metricsWallID, "wall-id", "", "wall id to report on (required)")
	metricsCmd.Flags().DurationVar(&metricsSince, "since", 7*24*time.Hour, "how far back to look")
	metricsCmd.MarkFlagRequired("dsn")
	metricsCmd.MarkFlagRequired("wall-id")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log, err := metricslog.Open(ctx, metricsDSN)
	if err != nil {
		return fmt.Errorf("connecting to metrics log: %w", err)
	}
	defer log.Close()

	trend, err := log.TrendSince(ctx, metricsWallID, time.Now().Add(-metricsSince))
	if err != nil {
		return fmt.Errorf("computing trend: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wall %s: %d sample(s) since %s\n", trend.WallID, trend.SampleCount, trend.FirstRecordedAt.Format(time.RFC3339))
	fmt.Fprintf(cmd.OutOrStdout(), "  avg geometric_accuracy:       %.3f\n", trend.AverageGeometricAccuracy)
	fmt.Fprintf(cmd.OutOrStdout(), "  avg architectural_compliance: %.3f\n", trend.AverageArchitecturalScore)
	fmt.Fprintf(cmd.OutOrStdout(), "  worst issue_count:            %d\n", trend.WorstIssueCount)
	return nil
}
