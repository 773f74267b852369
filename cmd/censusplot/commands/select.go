package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/display"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/render"
	"github.com/teranos/censusplot/selection"
)

// ClickResult is the outcome of one replayed label click
type ClickResult struct {
	Field census.Field        `json:"field" yaml:"field"`
	NoOp  bool                `json:"no_op" yaml:"no_op"` // label was already active
	Seq   uint64              `json:"seq,omitempty" yaml:"seq,omitempty"`
	After selection.Selection `json:"after" yaml:"after"`
}

// SelectResult is the replayed session
type SelectResult struct {
	Start  selection.Selection `json:"start" yaml:"start"`
	Final  selection.Selection `json:"final" yaml:"final"`
	Clicks []ClickResult       `json:"clicks" yaml:"clicks"`
	Trace  []render.TraceEntry `json:"trace" yaml:"trace"`
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <field>...",
		Short: "Replay label clicks and print the step trace",
		Long: `Click the named axis labels in order, starting from the configured
selection, and print every step each transition ran. Clicking a label that
is already active does nothing and is reported as a no-op.

Examples:
  censusplot select age                    # one X transition, nine steps
  censusplot select poverty                # no-op from the default selection
  censusplot select income obesity --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSelect,
	}
	addSelectionFlags(cmd)
	cmd.Flags().String("format", "table", "Output format: table, json, yaml")
	return cmd
}

func runSelect(cmd *cobra.Command, args []string) error {
	format, err := display.FormatFor(cmd)
	if err != nil {
		return err
	}

	// Reject unknown names before anything runs
	fields := make([]census.Field, len(args))
	for i, a := range args {
		if fields[i], err = census.ParseField(a); err != nil {
			return err
		}
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	start, err := selectionFor(cmd, s.cfg)
	if err != nil {
		return err
	}

	trace := render.NewTraceApplier(logger.Logger)
	loop, err := render.NewLoop(s.builder, render.LoopConfig{Initial: start, Duration: s.cfg.TransitionDuration()}, trace, logger.Logger)
	if err != nil {
		return err
	}

	result := SelectResult{Start: start}
	for _, f := range fields {
		tr, err := loop.Click(cmd.Context(), f)
		if err != nil {
			return err
		}
		click := ClickResult{Field: f, NoOp: tr == nil, After: loop.Selection()}
		if tr != nil {
			click.Seq = tr.Seq
		}
		result.Clicks = append(result.Clicks, click)
	}
	result.Final = loop.Selection()
	result.Trace = trace.Entries()

	if format != display.FormatTable {
		return display.Write(cmd.OutOrStdout(), format, result)
	}

	var rows [][]string
	for _, c := range result.Clicks {
		if c.NoOp {
			rows = append(rows, []string{"-", string(c.Field), "no-op", "", "label already active"})
		}
	}
	for _, e := range result.Trace {
		axes := make([]string, len(e.Axes))
		for i, a := range e.Axes {
			axes[i] = a.String()
		}
		rows = append(rows, []string{strconv.FormatUint(e.Seq, 10), "", e.Step.String(), strings.Join(axes, ","), e.Detail})
	}
	if err := display.WriteTable(cmd.OutOrStdout(), []string{"Seq", "Field", "Step", "Axes", "Detail"}, rows); err != nil {
		return err
	}
	info(cmd, "%s -> %s", result.Start, result.Final)
	return nil
}
