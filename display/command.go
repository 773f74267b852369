// Package display writes command results as tables, JSON or YAML.
package display

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/censusplot/errors"
)

// Format selects how a command renders its result
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat resolves a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrInvalidRequest, "unknown format %q", s),
		"use table, json or yaml",
	)
}

// FormatFor reads the command's --format flag. The global --json flag wins over it.
func FormatFor(cmd *cobra.Command) (Format, error) {
	if ShouldOutputJSON(cmd) {
		return FormatJSON, nil
	}
	if cmd == nil || cmd.Flags().Lookup("format") == nil {
		return FormatTable, nil
	}
	s, _ := cmd.Flags().GetString("format")
	return ParseFormat(s)
}

// ShouldOutputJSON determines if a command should output JSON based on flags
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	// Check if --json flag was explicitly set
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Check global --json flag
	if globalFlag, err := cmd.Root().PersistentFlags().GetBool("json"); err == nil && globalFlag {
		return true
	}
	return false
}

// WriteYAML writes v as YAML
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	return enc.Close()
}

// Write renders v as JSON or YAML. Table output is command specific; use WriteTable.
func Write(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	return errors.AssertionFailedf("format %q has no generic encoder", format)
}

// WriteTable renders a header row and data rows with pterm
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
