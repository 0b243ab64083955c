package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

type dashboardOutput struct {
	application.Dashboard
	Figures application.DashboardFigures `json:"figures"`
}

func newDashboardCmd(app *app) *cobra.Command {
	var interactive bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard of the current tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interactive && asJSON {
				return fmt.Errorf("--interactive and --json cannot be combined")
			}

			session := app.openSession(cmd.Context())
			if interactive {
				view := application.NewScopedView(session, app.dashboards.Load, app.logger)
				return app.renderInteractive(cmd.Context(), session, view, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			tenant, _ := session.CurrentTenant()
			dashboard, err := loadDashboard(cmd, app, tenant, asJSON)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, dashboardOutput{Dashboard: dashboard, Figures: dashboard.Figures()}, func() (string, error) {
				return app.renderDashboard(dashboard)
			})
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse tenants interactively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func loadDashboard(cmd *cobra.Command, app *app, tenant domain.Tenant, quiet bool) (application.Dashboard, error) {
	load := func(ctx context.Context) (application.Dashboard, error) {
		return app.dashboards.Load(ctx, tenant)
	}
	if quiet {
		return load(cmd.Context())
	}

	return awaitWithSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Loading %s dashboard...", tenant.ID), load)
}
