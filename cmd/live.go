package cmd

import (
	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLiveCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Browse, join and run live classes",
	}

	cmd.AddCommand(
		newLiveListCmd(app),
		newLiveStartCmd(app),
		newLiveStopCmd(app),
		newLiveJoinCmd(app),
		newLiveRemindCmd(app),
	)

	return cmd
}

type liveOutput struct {
	Live     []domain.LiveSession `json:"live"`
	Upcoming []domain.LiveSession `json:"upcoming"`
}

func newLiveListCmd(app *app) *cobra.Command {
	var tenantID string
	var strict bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live and upcoming classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := app.api.ListLiveSessions(cmd.Context(), callOptions(strict)...)
			if err != nil {
				return err
			}

			all := sessions.All
			if tenantID != "" {
				all = application.ForTenant(all, domain.TenantID(tenantID))
			}
			live, upcoming := application.SplitLive(all)

			return writeRendered(cmd, asJSON, liveOutput{Live: live, Upcoming: upcoming}, func() (string, error) {
				return dashboardrender.RenderLive(all)
			})
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Only show sessions of this tenant")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of showing an empty list when the backend errors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newLiveStartCmd(app *app) *cobra.Command {
	var input domain.LiveSessionInput
	var tenantID string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a live class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.TenantID = app.selectedTenant(cmd.Context(), tenantID)

			ack, err := app.api.StartLiveSession(cmd.Context(), input)
			if err != nil {
				return err
			}

			return writeAck(cmd, ack.Message, "started", ack.Session.ID)
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Session title")
	cmd.Flags().StringVar(&input.Instructor, "instructor", "", "Instructor name")
	cmd.Flags().StringVar(&input.SessionID, "id", "", "Session ID (default: generated)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")

	return cmd
}

func newLiveStopCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <session-id>",
		Short: "Stop a live class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := app.api.StopLiveSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeAck(cmd, ack.Message, "stopped", args[0])
		},
	}
}

func newLiveJoinCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join a live class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := app.api.JoinLiveSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeAck(cmd, ack.Message, "joined", args[0])
		},
	}
}

func newLiveRemindCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <session-id>",
		Short: "Set a reminder for an upcoming class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := app.api.SetReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeAck(cmd, ack.Message, "reminder set", args[0])
		},
	}
}

func writeAck(cmd *cobra.Command, message, fallback, id string) error {
	if message == "" {
		message = fallback
	}
	return writeLine(cmd, "%s: %s", message, id)
}
