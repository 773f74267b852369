package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/display"
)

func newFrameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Print the computed frame for a selection as JSON",
		Long: `Print the full visual state for one selection: scales, ticks, point
positions, trend line, narrative, label states and tooltips. This is the
same JSON the interactive page embeds.`,
		Args: cobra.NoArgs,
		RunE: runFrame,
	}
	addSelectionFlags(cmd)
	return cmd
}

func runFrame(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	sel, err := selectionFor(cmd, s.cfg)
	if err != nil {
		return err
	}
	frame, err := s.builder.Build(sel)
	if err != nil {
		return err
	}
	return display.WriteJSON(cmd.OutOrStdout(), frame)
}
