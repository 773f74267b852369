package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/display"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/internal/util"
	"github.com/teranos/censusplot/regression"
	"github.com/teranos/censusplot/selection"
)

// StatRow is one fitted pair. Coefficients are nil when the fit is undefined.
type StatRow struct {
	X         census.Field `json:"x" yaml:"x"`
	Y         census.Field `json:"y" yaml:"y"`
	Slope     *float64     `json:"slope" yaml:"slope"`
	Intercept *float64     `json:"intercept" yaml:"intercept"`
	R2        *float64     `json:"r2" yaml:"r2"`
	N         int          `json:"n" yaml:"n"`
	Skipped   int          `json:"skipped" yaml:"skipped"`
	Equation  string       `json:"equation" yaml:"equation"`
	Reason    string       `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Regression results for all nine (X, Y) pairs",
		Long: `Fit an ordinary least squares line for every (X, Y) pair and print
slope, intercept and R². Degenerate pairs (constant X, no finite values)
are reported as undefined rather than failing the command.`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}
	cmd.Flags().String("format", "table", "Output format: table, json, yaml")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := display.FormatFor(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	rows, err := fitAll(s.builder.Dataset())
	if err != nil {
		return err
	}

	if format != display.FormatTable {
		return display.Write(cmd.OutOrStdout(), format, rows)
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{
			string(r.X), string(r.Y),
			formatOptional(r.Slope), formatOptional(r.Intercept), formatOptional(r.R2),
			strconv.Itoa(r.N), strconv.Itoa(r.Skipped),
		}
	}
	return display.WriteTable(cmd.OutOrStdout(),
		[]string{"X", "Y", "Slope", "Intercept", "R²", "N", "Skipped"}, table)
}

// fitAll fits every selection in X-major order
func fitAll(ds *census.Dataset) ([]StatRow, error) {
	rows := make([]StatRow, 0, 9)
	for _, sel := range selection.All() {
		res, err := regression.FitFields(ds, sel.X, sel.Y)
		row := StatRow{X: sel.X, Y: sel.Y, N: res.N, Skipped: res.Skipped, Equation: res.EquationText()}
		switch {
		case err == nil:
			row.Slope = util.Ptr(util.RoundTo(res.Slope, 6))
			row.Intercept = util.Ptr(util.RoundTo(res.Intercept, 6))
			if res.R2Defined {
				row.R2 = util.Ptr(util.RoundTo(res.R2, 6))
			}
		case errors.IsAny(err, regression.ErrZeroVariance, regression.ErrEmptyInput):
			row.Reason = err.Error()
		default:
			return nil, errors.Wrapf(err, "failed to fit %s", sel)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return regression.UndefinedText
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}
