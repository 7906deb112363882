package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your habit statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			session, err := app.requireSession(ctx, "/analytics")
			if err != nil {
				return err
			}

			stats, err := app.Habits.Stats(ctx, session.User.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Total habits:     %d\n", stats.Total)
			fmt.Fprintf(out, "Completed today:  %d\n", stats.CompletedToday)
			fmt.Fprintf(out, "Longest streak:   %d\n", stats.LongestStreak)
			fmt.Fprintf(out, "Average progress: %d%%\n", stats.AverageProgress)
			return nil
		},
	}
}

func newUpgradeCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade to premium for unlimited habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if _, err := app.requireSession(ctx, "/premium-upgrade"); err != nil {
				return err
			}

			session, err := app.Auth.Upgrade(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s, you're premium now: unlimited habits unlocked.\n", session.User.Name)
			return nil
		},
	}
}

func newViewsCommand(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:    "views",
		Short:  "Show page-view counters (local analytics)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			out := cmd.OutOrStdout()

			views, err := app.store.PageViews(cmd.Context())
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(views))
			for path := range views {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			for _, path := range paths {
				fmt.Fprintf(out, "%-20s %d\n", path, views[path])
			}
			return nil
		},
	}
}
