package main

import (
	"github.com/spf13/cobra"

	"flarepie/internal/dashboard"
)

var (
	dashboardOut  string
	dashboardName string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the GreptimeDB tables",
	Long:  "dashboard renders the embedded Grafana templates. GREPTIMEDB_DATASOURCE_UID must be set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dashboardName != "" {
			return dashboard.Write(cmd.OutOrStdout(), dashboardName)
		}
		return dashboard.Render(dashboardOut)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Directory to write dashboards to")
	dashboardCmd.Flags().StringVar(&dashboardName, "name", "", "Print a single dashboard (e.g. grafana-dashboard.json) to STDOUT")
}
