// Package commands implements the censusplot CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/am"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
)

// NewRootCmd builds the censusplot command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "censusplot",
		Short: "Health risk scatter plots from state survey data",
		Long: `censusplot - Health risk scatter plots from state survey data.

Plots one of poverty, age or income against one of healthcare, smokes or
obesity for every state, with an OLS trend line, R² and a short narrative.
Clicking an axis label switches the metric on that axis.

Available commands:
  page    - Write the interactive HTML page
  render  - Export one chart as SVG or PNG
  stats   - Regression results for all nine pairs
  select  - Replay label clicks and print the step trace
  frame   - Print the computed frame for a selection
  am      - Manage configuration ("I am")

Examples:
  censusplot page --watch                 # Regenerate the page when data.csv changes
  censusplot render -x age -y smokes      # Write out/chart.svg
  censusplot stats --format yaml          # All nine fits as YAML
  censusplot select income obesity age    # Trace three clicks`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().Bool("json", false, "Output results as JSON")
	root.PersistentFlags().Bool("log-json", false, "Write logs as JSON (logs always go to stderr)")
	root.PersistentFlags().String("data", "", "CSV data file (overrides data.path)")
	root.PersistentFlags().String("narratives", "", "Narrative TOML file (overrides data.narrative_file)")

	root.AddCommand(
		newPageCmd(),
		newRenderCmd(),
		newStatsCmd(),
		newSelectCmd(),
		newFrameCmd(),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}

// initLogging sets up the global logger before any command runs.
// A config that fails to load leaves the defaults in place; commands report the error themselves.
func initLogging(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	if cfg, err := am.Load(); err == nil {
		logger.SetTheme(cfg.GetLogTheme())
		logJSON = logJSON || cfg.Log.JSON
	}

	if err := logger.Initialize(logJSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}
