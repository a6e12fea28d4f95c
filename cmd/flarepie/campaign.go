package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"flarepie/internal/campaign"
)

var (
	campaignBuiltIn string
	campaignJSON    bool
)

var campaignCmd = &cobra.Command{
	Use:   "campaign [file]",
	Short: "Simulate a list of engine cases and compare them",
	Long: `campaign runs every case of a YAML campaign file, or of a built-in study
selected with --builtin, and prints one summary row per case. A failing case is
reported without stopping the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := selectCampaign(args)
		if err != nil {
			return err
		}
		results, err := campaign.Run(cmd.Context(), c)
		if err != nil {
			return err
		}
		if campaignJSON {
			return writeJSON(cmd.OutOrStdout(), jsonResults(results))
		}
		renderResults(cmd.OutOrStdout(), c, results)
		return nil
	},
}

func selectCampaign(args []string) (*campaign.Campaign, error) {
	switch {
	case campaignBuiltIn != "" && len(args) > 0:
		return nil, fmt.Errorf("use either a campaign file or --builtin, not both")
	case campaignBuiltIn != "":
		all := campaign.BuiltIn()
		c, ok := all[campaignBuiltIn]
		if !ok {
			names := make([]string, 0, len(all))
			for n := range all {
				names = append(names, n)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("unknown built-in campaign %q (available: %s)", campaignBuiltIn, strings.Join(names, ", "))
		}
		return &c, nil
	case len(args) == 1:
		return campaign.Load(args[0])
	}
	return nil, fmt.Errorf("campaign file or --builtin required")
}

type resultJSON struct {
	Case    string `json:"case"`
	Summary any    `json:"summary,omitempty"`
	Nozzle  any    `json:"nozzle,omitempty"`
	Error   string `json:"error,omitempty"`
}

func jsonResults(results []campaign.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		j := resultJSON{Case: r.Case}
		if r.Err != nil {
			j.Error = r.Err.Error()
		} else {
			j.Summary = r.Summary
			if r.Nozzle != nil {
				j.Nozzle = r.Nozzle
			}
		}
		out = append(out, j)
	}
	return out
}

func renderResults(w io.Writer, c *campaign.Campaign, results []campaign.Result) {
	title := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, title.Render(c.Name))
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}
	failed := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Case, r.Engine.Propellant, failed.Render(r.Err.Error()), "", "", "", ""})
			continue
		}
		thrust := ""
		if r.Nozzle != nil {
			thrust = fmt.Sprintf("%.1f", r.Nozzle.Thrust)
		}
		rows = append(rows, []string{
			r.Case,
			r.Engine.Propellant,
			fmt.Sprintf("%.2f", r.Summary.ExitVelocity),
			fmt.Sprintf("%.2f", r.Summary.SpecificImpulse),
			fmt.Sprintf("%.3f", r.Summary.BurnTime),
			fmt.Sprintf("%.2f", r.Summary.IdealDeltaV),
			thrust,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Case", "Propellant", "ve (m/s)", "Isp (s)", "Burn (s)", "dv (m/s)", "Nozzle F (N)").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func init() {
	campaignCmd.Flags().StringVar(&campaignBuiltIn, "builtin", "", "Run a built-in study (propellants, altitude)")
	campaignCmd.Flags().BoolVar(&campaignJSON, "json", false, "Print results as JSON")
}
