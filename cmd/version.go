package cmd

import (
	"fmt"

	"github.com/bnema/campus-cli/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", version.Version, version.BuildMode)
			return err
		},
	}
}

func newOriginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "origin",
		Short: "Print the resolved backend origin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin := app.backend.Origin()
			out := cmd.OutOrStdout()

			if _, err := fmt.Fprintln(out, origin.String()); err != nil {
				return err
			}
			if origin.IsProxyPath() {
				page := app.cfg.PageOrigin
				if page == "" {
					page = "(unset)"
				}
				_, err := fmt.Fprintf(out, "proxy path, resolved against page origin %s\n", page)
				return err
			}
			if app.cfg.SecurePage() && !origin.IsSecure() {
				_, err := fmt.Fprintln(out, "warning: secure page with an insecure backend, requests will be refused")
				return err
			}
			return nil
		},
	}
}
