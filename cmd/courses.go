package cmd

import (
	"fmt"
	"strconv"

	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCoursesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse courses, enroll and track progress",
	}

	cmd.AddCommand(
		newCoursesListCmd(app),
		newCoursesEnrollCmd(app),
		newCoursesProgressCmd(app),
		newCoursesSetProgressCmd(app),
	)

	return cmd
}

func newCoursesListCmd(app *app) *cobra.Command {
	var tenantID string
	var strict bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the courses of a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant := app.selectedTenant(cmd.Context(), tenantID)
			if !tenant.Valid() {
				tenant = app.api.DefaultTenant()
			}

			courses, err := app.api.ListCourses(cmd.Context(), tenant, callOptions(strict)...)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, courses, func() (string, error) {
				return dashboardrender.RenderCourses(tenant, courses)
			})
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of showing an empty list when the backend errors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCoursesEnrollCmd(app *app) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "enroll <course-id>",
		Short: "Enroll the signed-in user in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enrollment, err := app.api.Enroll(
				cmd.Context(),
				domain.CourseID(args[0]),
				app.selectedTenant(cmd.Context(), tenantID),
			)
			if err != nil {
				return err
			}

			message := enrollment.Message
			if message == "" {
				message = "enrolled"
			}
			return writeLine(cmd, "%s: %s (tenant %s)", message, enrollment.CourseID, enrollment.TenantID)
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")

	return cmd
}

func newCoursesProgressCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "progress <course-id>",
		Short: "Show the signed-in user's progress in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := app.api.GetProgress(cmd.Context(), domain.CourseID(args[0]))
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, progress)
			}
			return writeLine(cmd, "%s\t%.0f%%", progress.CourseID, progress.Percent)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCoursesSetProgressCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-progress <course-id> <percent>",
		Short: "Record the signed-in user's progress in a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parse percent %q: %w", args[1], err)
			}

			progress, err := app.api.UpdateProgress(cmd.Context(), domain.CourseID(args[0]), percent)
			if err != nil {
				return err
			}

			return writeLine(cmd, "%s\t%.0f%%", progress.CourseID, progress.Percent)
		},
	}
}
