package cmd

import (
	"fmt"

	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newTenantsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List and select tenants",
	}

	cmd.AddCommand(
		newTenantsListCmd(app),
		newTenantsUseCmd(app),
		newTenantsShowCmd(app),
	)

	return cmd
}

type tenantsOutput struct {
	State   string          `json:"state"`
	Current domain.Tenant   `json:"current"`
	Tenants []domain.Tenant `json:"tenants"`
}

func newTenantsListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants and mark the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot := app.openSession(cmd.Context()).Snapshot()

			tenants := snapshot.Tenants
			if snapshot.State == application.SessionError {
				tenants = []domain.Tenant{snapshot.Current}
			}

			return writeRendered(cmd, asJSON, tenantsOutput{
				State:   snapshot.State.String(),
				Current: snapshot.Current,
				Tenants: tenants,
			}, func() (string, error) {
				return dashboardrender.RenderTenants(tenants, snapshot.Current.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newTenantsUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <tenant-id>",
		Short: "Make a tenant current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.openSession(cmd.Context())
			id := domain.TenantID(args[0])

			switched, err := session.SetCurrentTenant(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !switched {
				return fmt.Errorf("unknown tenant %q", id)
			}

			current, _ := session.CurrentTenant()
			return writeLine(cmd, "current tenant: %s (%s)", current.Name, current.ID)
		},
	}
}

func newTenantsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [tenant-id]",
		Short: "Show tenant details (default: the current tenant)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag := ""
			if len(args) == 1 {
				flag = args[0]
			}
			id := app.selectedTenant(cmd.Context(), flag)
			if !id.Valid() {
				id = app.api.DefaultTenant()
			}

			tenant, err := app.api.GetTenant(cmd.Context(), id)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, tenant, func() (string, error) {
				return dashboardrender.RenderTenants([]domain.Tenant{tenant}, tenant.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
