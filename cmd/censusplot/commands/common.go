package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/am"
	"github.com/teranos/censusplot/census"
	"github.com/teranos/censusplot/errors"
	"github.com/teranos/censusplot/logger"
	"github.com/teranos/censusplot/scatter"
	"github.com/teranos/censusplot/selection"
)

// session is the validated config plus a builder over the loaded dataset
type session struct {
	cfg           *am.Config
	dataPath      string
	narrativePath string
	builder       *scatter.Builder
}

// loadConfig loads and validates the configuration
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "configuration validation failed"),
			"run 'censusplot am validate' and fix am.toml",
		)
	}
	return cfg, nil
}

// openSession loads config, data and narratives. A data load failure is fatal for the command.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newSession(cmd, cfg)
}

func newSession(cmd *cobra.Command, cfg *am.Config) (*session, error) {
	s := &session{
		cfg:           cfg,
		dataPath:      cfg.GetDataPath(),
		narrativePath: cfg.Data.NarrativeFile,
	}
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		s.dataPath = p
	}
	if p, _ := cmd.Flags().GetString("narratives"); p != "" {
		s.narrativePath = p
	}

	ds, err := census.Load(s.dataPath, logger.ComponentLogger("census"))
	if err != nil {
		return nil, err
	}

	narratives := selection.DefaultNarratives()
	if s.narrativePath != "" {
		if narratives, err = selection.LoadNarratives(s.narrativePath); err != nil {
			return nil, err
		}
	}

	s.builder, err = scatter.NewBuilder(ds, cfg.Layout(), narratives, logger.Logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// addSelectionFlags registers -x/-y; empty values fall back to the configured selection
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("x", "x", "", "X field: poverty, age or income")
	cmd.Flags().StringP("y", "y", "", "Y field: healthcare, smokes or obesity")
}

// selectionFor resolves -x/-y over the configured initial selection
func selectionFor(cmd *cobra.Command, cfg *am.Config) (selection.Selection, error) {
	sel, err := cfg.InitialSelection()
	if err != nil {
		return selection.Selection{}, err
	}
	if x, _ := cmd.Flags().GetString("x"); x != "" {
		f, err := census.ParseField(x)
		if err != nil {
			return selection.Selection{}, err
		}
		sel.X = f
	}
	if y, _ := cmd.Flags().GetString("y"); y != "" {
		f, err := census.ParseField(y)
		if err != nil {
			return selection.Selection{}, err
		}
		sel.Y = f
	}
	return selection.New(sel.X, sel.Y)
}

// success prints a status line on stderr so stdout stays pipeable
func success(cmd *cobra.Command, format string, args ...interface{}) {
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln(format, args...)
}

func info(cmd *cobra.Command, format string, args ...interface{}) {
	pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln(format, args...)
}
