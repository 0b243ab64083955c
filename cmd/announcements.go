package cmd

import (
	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	"github.com/spf13/cobra"
)

func newAnnouncementsCmd(app *app) *cobra.Command {
	var tenantID string
	var strict bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "List the announcements of a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			announcements, err := app.api.ListAnnouncements(
				cmd.Context(),
				app.selectedTenant(cmd.Context(), tenantID),
				callOptions(strict)...,
			)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, announcements, func() (string, error) {
				return dashboardrender.RenderAnnouncements(announcements)
			})
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of showing an empty list when the backend errors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newStatsCmd(app *app) *cobra.Command {
	var strict bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := app.api.GetStats(cmd.Context(), callOptions(strict)...)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, stats, func() (string, error) {
				return dashboardrender.RenderStats(stats)
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of showing zero stats when the backend errors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
