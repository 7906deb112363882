package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/habitkit/internal/auth"
	"github.com/mmynk/habitkit/internal/habit"
)

func newHabitCommand(getApp func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage your habits",
	}
	cmd.AddCommand(
		newHabitAddCommand(getApp),
		newHabitListCommand(getApp),
		newHabitDoneCommand(getApp),
	)
	return cmd
}

func newHabitAddCommand(getApp func() *App) *cobra.Command {
	var (
		name     string
		category string
		mvpGoal  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new habit",
		Long: `Create a new habit with a minimum viable progress (MVP) goal: the
smallest action that counts as a win for the day. Free accounts can
track up to five habits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			session, err := app.requireSession(ctx, auth.PathDashboard)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if name == "" {
				if name, err = promptLine(reader, "Habit name", out); err != nil {
					return err
				}
			}
			if category == "" {
				if category, err = promptLine(reader, "Category", out); err != nil {
					return err
				}
			}
			if mvpGoal == "" {
				if mvpGoal, err = promptLine(reader, "MVP goal", out); err != nil {
					return err
				}
			}

			created, err := app.Habits.Create(ctx, session.User, habit.Input{
				Name:     name,
				Category: category,
				MVPGoal:  mvpGoal,
			})
			if err != nil {
				if errors.Is(err, habit.ErrLimitReached) {
					fmt.Fprintln(out, "You've reached the free limit of 5 habits.")
					fmt.Fprintln(out, "Run `habits upgrade` for unlimited habits.")
				}
				return err
			}

			fmt.Fprintf(out, "Habit #%d %q created. MVP: %s\n", created.ID, created.Name, created.MVPGoal)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "habit name")
	cmd.Flags().StringVar(&category, "category", "", "habit category (e.g. Fitness, Learning)")
	cmd.Flags().StringVar(&mvpGoal, "mvp", "", "minimum viable progress goal")
	return cmd
}

func newHabitListCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			session, err := app.requireSession(ctx, auth.PathDashboard)
			if err != nil {
				return err
			}

			habits, err := app.Habits.List(ctx, session.User.ID)
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				fmt.Fprintln(out, "No habits yet. Add one with `habits habit add`.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tMVP GOAL\tSTREAK\tDONE\tPROGRESS")
			for _, h := range habits {
				done := " "
				if h.Completed {
					done = "x"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%d%%\n",
					h.ID, h.Name, h.Category, h.MVPGoal, h.Streak, done, h.Progress)
			}
			return w.Flush()
		},
	}
}

func newHabitDoneCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle completion of a habit for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			session, err := app.requireSession(ctx, auth.PathDashboard)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid habit id %q", args[0])
			}

			toggled, err := app.Habits.Toggle(ctx, session.User.ID, id)
			if err != nil {
				return err
			}

			if toggled.Completed {
				fmt.Fprintf(out, "MVP goal achieved for %q! Streak: %d\n", toggled.Name, toggled.Streak)
			} else {
				fmt.Fprintf(out, "Unmarked %q. Streak: %d\n", toggled.Name, toggled.Streak)
			}
			return nil
		},
	}
}
