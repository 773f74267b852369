package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teranos/censusplot/am"
	"github.com/teranos/censusplot/display"
	"github.com/teranos/censusplot/errors"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Manage censusplot configuration",
		Long: `am - Manage censusplot configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CENSUSPLOT_* prefix)
3. Project config (am.toml, searched upward from the working directory)
4. User config (~/.censusplot/am.toml)
5. Default values

Examples:
  censusplot am show                    # Show current configuration
  censusplot am show --format json      # Show configuration in JSON format
  censusplot am get chart.width         # Get specific config value
  censusplot am set selection.x age     # Update the project am.toml
  censusplot am where                   # Show where each setting comes from
  censusplot am init                    # Write a starter am.toml`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE:  runAmShow,
	}
	show.Flags().String("format", "toml", "Output format: toml, json, yaml")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., chart.width, selection.x)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAmGet,
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the project am.toml",
		Args:  cobra.ExactArgs(2),
		RunE:  runAmSet,
	}
	set.Flags().Bool("user", false, "Write to ~/.censusplot/am.toml instead")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE:  runAmValidate,
	}

	where := &cobra.Command{
		Use:   "where",
		Short: "Show where each setting is loaded from",
		Args:  cobra.NoArgs,
		RunE:  runAmWhere,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter am.toml with the current effective values",
		Args:  cobra.NoArgs,
		RunE:  runAmInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file (keeps a .back1 backup)")
	initCmd.Flags().Bool("user", false, "Write to ~/.censusplot/am.toml instead of ./am.toml")

	cmd.AddCommand(show, get, set, validate, where, initCmd)
	return cmd
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = string(display.FormatJSON)
	}
	out := cmd.OutOrStdout()

	switch format {
	case "toml":
		data, err := am.MarshalTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# censusplot configuration\n%s", data)
		return nil
	case "json", "yaml", "yml":
		f, err := display.ParseFormat(format)
		if err != nil {
			return err
		}
		return display.Write(out, f, cfg)
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrInvalidRequest, "unsupported format %q", format),
		"use toml, json or yaml",
	)
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !am.IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q", key),
			"run 'censusplot am where' to list keys",
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := targetConfigPath(cmd)
	if err != nil {
		return err
	}
	if err := am.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	am.Reset()
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrapf(err, "%s no longer loads", path)
	}
	if err := cfg.Validate(); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "%s was written but the result is invalid", path),
			"the previous file is kept as "+filepath.Base(path)+".back1",
		)
	}
	success(cmd, "Set %s = %s in %s", args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), intro)
	}

	settings := append([]am.SettingInfo(nil), intro.Settings...)
	order := map[am.ConfigSource]int{am.SourceDefault: 0, am.SourceUser: 1, am.SourceProject: 2, am.SourceEnvironment: 3}
	sort.SliceStable(settings, func(i, j int) bool {
		return order[settings[i].Source] < order[settings[j].Source]
	})

	rows := make([][]string, len(settings))
	for i, s := range settings {
		rows[i] = []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath}
	}
	return display.WriteTable(cmd.OutOrStdout(), []string{"Key", "Value", "Source", "From"}, rows)
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path, err := targetConfigPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	force, _ := cmd.Flags().GetBool("force")
	if err := am.WriteStarter(path, cfg, force); err != nil {
		return err
	}
	success(cmd, "Wrote %s", path)
	return nil
}

// targetConfigPath is ./am.toml, or the user config with --user
func targetConfigPath(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool("user"); user {
		path := am.UserConfigPath()
		if path == "" {
			return "", errors.New("could not determine home directory")
		}
		return path, nil
	}
	return am.ConfigFileName, nil
}
