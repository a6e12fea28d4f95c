package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"flarepie/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change user settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range userSettings.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, userSettings.Get(k))
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !settings.IsKnown(args[0]) {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), userSettings.Get(args[0]))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSettings.Set(args[0], parseValue(args[1]))
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore all defaults and save the file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSettings.Reset()
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), userSettings.Path())
		return nil
	},
}

// parseValue keeps numbers and booleans typed in the YAML file.
func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsResetCmd, settingsPathCmd)
}
