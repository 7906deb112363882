package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/habitkit/internal/auth"
)

func newLoginCommand(getApp func() *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			// An authenticated visit to the login view redirects to
			// the dashboard; mirror that by refusing a second login.
			session, decision, err := app.Guard.Check(ctx, auth.PathLogin)
			if err != nil {
				return err
			}
			if decision.Action == auth.Redirect && decision.Target == auth.PathDashboard {
				fmt.Fprintf(out, "Already logged in as %s. Run `habits logout` first.\n", session.User.Email)
				return nil
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				if email, err = promptLine(reader, "Email", out); err != nil {
					return err
				}
			}
			password, err := promptPassword(out)
			if err != nil {
				return err
			}

			session, err = app.Auth.Login(ctx, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Welcome back, %s!\n", session.User.Name)
			if session.User.IsPremium {
				fmt.Fprintln(out, "Premium account: unlimited habits.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLogoutCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Your habits are saved for next time.")
			return nil
		},
	}
}

func newStatusCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			out := cmd.OutOrStdout()

			session, err := app.Auth.CurrentSession(cmd.Context(), auth.PathHome)
			if err != nil {
				return err
			}
			if !session.Authenticated {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			tier := "free"
			if session.User.IsPremium {
				tier = "premium"
			}
			fmt.Fprintf(out, "Logged in as %s <%s> (%s)\n", session.User.Name, session.User.Email, tier)
			return nil
		},
	}
}
