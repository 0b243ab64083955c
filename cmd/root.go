package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "campus",
		Short:         "Campus CLI: browse tenants, courses and live classes",
		Long:          "campus talks to a multi-tenant learning platform backend: pick a tenant, browse its courses, live classes and announcements, track progress and manage courses as an administrator.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(func() io.Writer { return rootCmd.ErrOrStderr() })
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newOriginCmd(app),
		newTenantsCmd(app),
		newCoursesCmd(app),
		newLiveCmd(app),
		newAnnouncementsCmd(app),
		newStatsCmd(app),
		newDashboardCmd(app),
		newAuthCmd(app),
		newAdminCmd(app),
	)

	return rootCmd
}
