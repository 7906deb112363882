package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/habitkit/internal/auth"
)

func newRegisterCommand(getApp func() *App) *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()

			// Visiting the register view: already-authenticated users
			// are fine here, the check just records the page view.
			if _, _, err := app.Guard.Check(ctx, auth.PathRegister); err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var err error
			if name == "" {
				if name, err = promptLine(reader, "Name", out); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine(reader, "Email", out); err != nil {
					return err
				}
			}
			password, err := promptPassword(out)
			if err != nil {
				return err
			}

			result, err := app.Auth.Register(ctx, name, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Welcome, %s! Your account is ready.\n", result.Session.User.Name)
			if result.NeedsOnboarding {
				fmt.Fprintln(out, "Create your first habit with: habits habit add")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}
