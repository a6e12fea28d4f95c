package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"flarepie/internal/config"
	"flarepie/internal/engine"
	"flarepie/internal/propellant"
)

var (
	exhaustConfigPath string
	exhaustJSON       bool

	nozzleConfigPath string
	nozzleJSON       bool
	nozzleIn         engine.NozzleInputs

	propellantsJSON bool
)

var exhaustCmd = &cobra.Command{
	Use:   "exhaust",
	Short: "Compute the nozzle exit velocity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveEngine(cmd.Flags(), exhaustConfigPath, "", userSettings)
		if err != nil {
			return err
		}
		entry, err := cfg.Entry()
		if err != nil {
			return err
		}
		c := cfg.Conditions()
		ve, err := engine.ExitVelocity(c, entry)
		if err != nil {
			return err
		}
		if exhaustJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"propellant":               entry.ID,
				"chamber_pressure_pa":      c.ChamberPressure,
				"chamber_temperature_k":    c.ChamberTemperature,
				"atmospheric_pressure_pa":  c.AtmosphericPressure,
				"exit_velocity_ms":         ve,
				"ideal_specific_impulse_s": ve / engine.StandardGravity,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Propellant %s (k=%g, R=%g J/kg/K), Pc=%.0f Pa, Tc=%.0f K, Pa=%.0f Pa\n",
			entry.ID, entry.K, entry.R, c.ChamberPressure, c.ChamberTemperature, c.AtmosphericPressure)
		fmt.Fprintf(cmd.OutOrStdout(), "Exit velocity: %.2f m/s\n", ve)
		return nil
	},
}

var nozzleCmd = &cobra.Command{
	Use:   "nozzle",
	Short: "Compute static thrust and specific impulse",
	Long: `nozzle evaluates F = mdot*ve + (pe-pa)*Ae and Isp = F/(mdot*g0).
With --config the exit velocity and mass flow come from the engine definition and
its nozzle section; explicit flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := resolveNozzleInputs(cmd, nozzleConfigPath)
		if err != nil {
			return err
		}
		perf, err := engine.ThrustAndIsp(in)
		if err != nil {
			return err
		}
		if nozzleJSON {
			return writeJSON(cmd.OutOrStdout(), perf)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Thrust: %.2f N (momentum %.2f N, pressure %.2f N)\n",
			perf.Thrust, perf.MomentumThrust, perf.PressureThrust)
		fmt.Fprintf(cmd.OutOrStdout(), "Specific impulse: %.2f s\n", perf.SpecificImpulse)
		return nil
	},
}

func resolveNozzleInputs(cmd *cobra.Command, configPath string) (engine.NozzleInputs, error) {
	in := nozzleIn
	if configPath != "" {
		cfg, err := config.Load(configPath, "")
		if err != nil {
			return in, err
		}
		entry, err := cfg.Entry()
		if err != nil {
			return in, err
		}
		ve, err := engine.ExitVelocity(cfg.Conditions(), entry)
		if err != nil {
			return in, err
		}
		fromCfg, ok := cfg.NozzleInputs(ve)
		if !ok {
			return in, fmt.Errorf("%s has no nozzle section", configPath)
		}
		fs := cmd.Flags()
		if !fs.Changed("mass-flow") {
			in.MassFlowRate = fromCfg.MassFlowRate
		}
		if !fs.Changed("exit-velocity") {
			in.ExitVelocity = fromCfg.ExitVelocity
		}
		if !fs.Changed("exit-pressure") {
			in.ExitPressure = fromCfg.ExitPressure
		}
		if !fs.Changed("ambient-pressure") {
			in.AmbientPressure = fromCfg.AmbientPressure
		}
		if !fs.Changed("exit-area") {
			in.ExitArea = fromCfg.ExitArea
		}
	}
	return in, nil
}

var propellantsCmd = &cobra.Command{
	Use:   "propellants",
	Short: "List the propellant table",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := propellant.All()
		if propellantsJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"version":     propellant.TableVersion,
				"propellants": entries,
			})
		}
		renderPropellants(cmd.OutOrStdout(), entries)
		return nil
	},
}

func renderPropellants(w io.Writer, entries []propellant.Entry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Name, fmt.Sprintf("%g", e.K), fmt.Sprintf("%g", e.R)})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "k", "R (J/kg/K)").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "table version %s\n", propellant.TableVersion)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	exhaustCmd.Flags().StringVar(&exhaustConfigPath, "config", "", "Path to engine configuration YAML")
	exhaustCmd.Flags().BoolVar(&exhaustJSON, "json", false, "Print the result as JSON")
	engineFlags.registerConditions(exhaustCmd.Flags())

	nozzleCmd.Flags().StringVar(&nozzleConfigPath, "config", "", "Path to engine configuration YAML with a nozzle section")
	nozzleCmd.Flags().BoolVar(&nozzleJSON, "json", false, "Print the result as JSON")
	nozzleCmd.Flags().Float64Var(&nozzleIn.MassFlowRate, "mass-flow", 0, "Mass flow rate (kg/s)")
	nozzleCmd.Flags().Float64Var(&nozzleIn.ExitVelocity, "exit-velocity", 0, "Exit velocity (m/s)")
	nozzleCmd.Flags().Float64Var(&nozzleIn.ExitPressure, "exit-pressure", 0, "Exit pressure (Pa)")
	nozzleCmd.Flags().Float64Var(&nozzleIn.AmbientPressure, "ambient-pressure", engine.SeaLevelPressure, "Ambient pressure (Pa)")
	nozzleCmd.Flags().Float64Var(&nozzleIn.ExitArea, "exit-area", 0, "Nozzle exit area (m^2)")
	nozzleCmd.Flags().Float64Var(&nozzleIn.GravitationalAcc, "g0", engine.StandardGravity, "Gravitational acceleration for Isp (m/s^2)")

	propellantsCmd.Flags().BoolVar(&propellantsJSON, "json", false, "Print the table as JSON")
}
