// Command wallgeom is the cobra CLI front door over the wall-geometry
// library API, grounded on cmd/arx's root command (persistent flags,
// SilenceUsage/SilenceErrors, one file per subcommand).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wallcore/geom/config"
	"github.com/wallcore/geom/internal/logger"
)

var configPath string

// loadedConfig holds the configuration loaded via --config, or
// config.Default() when no file is given. Subcommands read it to seed
// flag defaults (e.g. offset/heal fall back to its tolerance and join
// settings when a flag wasn't explicitly set).
var loadedConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "wallgeom",
	Short: "2D wall-geometry core: offset, heal, validate, metrics, and compliance reports",
	Long: `wallgeom is the CLI surface over the wall-geometry library API:
offsetting baselines into wall solids, healing shape defects, validating
invariants, inspecting quality-metrics trends, and rendering compliance
reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			loadedConfig = config.Default()
			return nil
		}
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		loadedConfig = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (tolerance/offset/healing/cache defaults); built-in defaults used when omitted")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("wallgeom: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
