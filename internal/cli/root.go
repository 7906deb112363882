package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/habitkit/internal/config"
	"github.com/mmynk/habitkit/pkg/logging"
)

// NewRootCommand builds the habits command tree. The application is
// initialized once in the persistent pre-run so every subcommand shares
// one storage handle.
func NewRootCommand() *cobra.Command {
	var (
		cfgPath string
		app     *App
	)

	root := &cobra.Command{
		Use:   "habits",
		Short: "Track small habits with minimum-viable-progress goals",
		Long: `habits is a local habit tracker: register an account, add habits
with a minimum viable progress (MVP) goal, mark daily completion, and
watch your streaks. Free accounts track up to five habits; upgrading
lifts the limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))
			app, err = NewApp(cfg, slog.Default())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	defaultCfg := filepath.Join(defaultConfigDir(), "config.yaml")
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "path to config file")

	// app is nil until PersistentPreRunE has run, so commands resolve
	// it lazily through the getter.
	getApp := func() *App { return app }

	root.AddCommand(
		newRegisterCommand(getApp),
		newLoginCommand(getApp),
		newLogoutCommand(getApp),
		newStatusCommand(getApp),
		newHabitCommand(getApp),
		newStatsCommand(getApp),
		newUpgradeCommand(getApp),
		newViewsCommand(getApp),
	)

	return root
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".habitkit")
}
