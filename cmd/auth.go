package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out",
	}

	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthLogoutCmd(app),
		newAuthWhoamiCmd(app),
	)

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	var creds domain.Credentials
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				password, err := readPassword(cmd)
				if err != nil {
					return err
				}
				creds.Password = password
			}

			result, err := app.api.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}

			user, err := app.auth.Establish(cmd.Context(), result)
			if err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			return writeLine(cmd, "signed in as %s", describeUser(user))
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the selected tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return writeLine(cmd, "signed out")
		},
	}
}

var errNotSignedIn = errors.New("not signed in")

func newAuthWhoamiCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok := app.auth.CurrentUser(cmd.Context())
			if !ok {
				return errNotSignedIn
			}

			if asJSON {
				return writeJSON(cmd, user)
			}
			return writeLine(cmd, "%s", describeUser(user))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func describeUser(user domain.User) string {
	label := user.Name
	if label == "" {
		label = string(user.ID)
	}
	if user.Email != "" {
		label += " <" + user.Email + ">"
	}
	if user.Role != "" {
		label += " (" + string(user.Role) + ")"
	}
	return label
}
