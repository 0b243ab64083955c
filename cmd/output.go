package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/campus-cli/internal/application"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRendered prints the output of a renderer, or v as JSON when asJSON is set.
func writeRendered(cmd *cobra.Command, asJSON bool, v any, render func() (string, error)) error {
	if asJSON {
		return writeJSON(cmd, v)
	}

	rendered, err := render()
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func writeLine(cmd *cobra.Command, format string, args ...any) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	return err
}

func callOptions(strict bool) []application.CallOption {
	if strict {
		return []application.CallOption{application.Strict()}
	}
	return nil
}
