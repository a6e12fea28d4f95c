package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flarepie/internal/logging"
	"flarepie/internal/settings"
)

var (
	settingsPath string
	logLevel     string

	// userSettings is loaded before every command runs.
	userSettings *settings.Settings
)

var rootCmd = &cobra.Command{
	Use:           "flarepie",
	Short:         "Rocket engine performance calculator",
	Long:          "FlarePie computes exhaust velocity, thrust and specific impulse and simulates propellant burns.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		st, err := settings.Load(settingsPath)
		if err != nil {
			return err
		}
		userSettings = st

		level := logLevel
		if level == "" {
			level = st.String("logging.level")
		}
		logger := logging.New(level)
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", settings.DefaultPath(), "Path to the user settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the logging.level setting")

	rootCmd.AddCommand(burnCmd)
	rootCmd.AddCommand(exhaustCmd)
	rootCmd.AddCommand(nozzleCmd)
	rootCmd.AddCommand(propellantsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(dashboardCmd)
}
