package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/chart"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export one chart as SVG or PNG",
		Long: `Export the chart for one (X, Y) selection as a static SVG or PNG.

The format is taken from the output file extension.

Examples:
  censusplot render                          # configured selection to output.export
  censusplot render -x income -y obesity -o income.png`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}
	addSelectionFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file, .svg or .png (default: output.export)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, s.cfg)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = s.cfg.Output.Export
	}

	frame, err := s.builder.Build(sel)
	if err != nil {
		return err
	}
	if err := chart.ExportFile(s.builder.Dataset(), frame, out); err != nil {
		return err
	}
	success(cmd, "Wrote %s (%s)", out, sel)
	return nil
}
