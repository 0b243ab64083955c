package cmd

import (
	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAdminCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	courses := &cobra.Command{
		Use:   "courses",
		Short: "Manage the course catalog",
	}
	courses.AddCommand(
		newAdminCoursesListCmd(app),
		newAdminCoursesGetCmd(app),
		newAdminCoursesCreateCmd(app),
		newAdminCoursesUpdateCmd(app),
		newAdminCoursesDeleteCmd(app),
	)
	cmd.AddCommand(courses)

	return cmd
}

func newAdminCoursesListCmd(app *app) *cobra.Command {
	var tenantID string
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

			courses, err := app.api.AdminListCourses(cmd.Context(), tenant)
			if err != nil {
				return err
			}

			return writeRendered(cmd, asJSON, courses, func() (string, error) {
				return dashboardrender.RenderCourses(tenant, courses)
			})
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newAdminCoursesGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <course-id>",
		Short: "Show a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := app.api.AdminGetCourse(cmd.Context(), domain.CourseID(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd, course)
		},
	}
}

func bindCourseInputFlags(cmd *cobra.Command, input *domain.CourseInput, tenantID *string) {
	cmd.Flags().StringVar(&input.Title, "title", "", "Course title")
	cmd.Flags().StringVar(&input.Instructor, "instructor", "", "Instructor name")
	cmd.Flags().StringVar(&input.Description, "description", "", "Course description")
	cmd.Flags().StringVar(&input.Duration, "duration", "", "Course duration, e.g. \"8 weeks\"")
	cmd.Flags().StringVar(tenantID, "tenant", "", "Tenant ID (default: current tenant)")
}

func newAdminCoursesCreateCmd(app *app) *cobra.Command {
	var input domain.CourseInput
	var tenantID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.TenantID = app.selectedTenant(cmd.Context(), tenantID)

			course, err := app.api.AdminCreateCourse(cmd.Context(), input)
			if err != nil {
				return err
			}
			return writeLine(cmd, "created course %s: %s", course.ID, course.Title)
		},
	}

	bindCourseInputFlags(cmd, &input, &tenantID)

	return cmd
}

func newAdminCoursesUpdateCmd(app *app) *cobra.Command {
	var input domain.CourseInput
	var tenantID string

	cmd := &cobra.Command{
		Use:   "update <course-id>",
		Short: "Replace a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.TenantID = app.selectedTenant(cmd.Context(), tenantID)

			course, err := app.api.AdminUpdateCourse(cmd.Context(), domain.CourseID(args[0]), input)
			if err != nil {
				return err
			}
			return writeLine(cmd, "updated course %s: %s", course.ID, course.Title)
		},
	}

	bindCourseInputFlags(cmd, &input, &tenantID)

	return cmd
}

func newAdminCoursesDeleteCmd(app *app) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := app.api.AdminDeleteCourse(
				cmd.Context(),
				domain.CourseID(args[0]),
				app.selectedTenant(cmd.Context(), tenantID),
			)
			if err != nil {
				return err
			}
			return writeAck(cmd, ack.Message, "deleted", args[0])
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID (default: current tenant)")

	return cmd
}
