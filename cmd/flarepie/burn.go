package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"flarepie/internal/admin"
	"flarepie/internal/config"
	"flarepie/internal/logging"
	"flarepie/internal/settings"
	"flarepie/internal/sim"
)

var (
	burnConfigPath string
	burnSchemaPath string
	burnTick       time.Duration
	burnOutput     string
	burnPrintOnly  bool
	burnLogFile    string
	burnAdminAddr  string

	engineFlags = newEngineFlagSet()
)

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Simulate a propellant burn until depletion",
	Long: `burn steps a fixed-timestep burn simulation and emits one sample per step
until the propellant is exhausted. The engine comes from --config or from the
simulation.* settings; individual flags override either source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveEngine(cmd.Flags(), burnConfigPath, burnSchemaPath, userSettings)
		if err != nil {
			return err
		}

		tickInterval := burnTick
		if !cmd.Flags().Changed("tick") {
			tickInterval = userSettings.Duration("simulation.tick")
		}
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return fmt.Errorf("invalid TICK_INTERVAL: %w", err)
			}
			tickInterval = d
		}

		format := burnOutput
		if !cmd.Flags().Changed("output") {
			format = userSettings.String("output.format")
		}
		writer, cleanup, err := newWriters(cfg, format, burnPrintOnly, burnLogFile, userSettings.String("greptime.database"))
		if err != nil {
			return err
		}
		defer cleanup()

		runner, err := sim.NewRunner(cfg, writer, tickInterval)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		log := logging.FromContext(ctx)

		addr := burnAdminAddr
		if !cmd.Flags().Changed("admin") {
			addr = userSettings.String("admin.addr")
		}
		if addr != "" {
			srv := admin.NewServer(runner)
			go func() {
				if err := srv.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("admin server failed", "addr", addr, "err", err)
					runner.SetAdminStatus(false)
				}
			}()
			runner.SetAdminStatus(true)
		}

		sum, err := runner.Run(ctx)
		if errors.Is(err, context.Canceled) {
			log.Info("burn interrupted", "steps", sum.Steps, "elapsed", sum.BurnTime)
			return nil
		}
		return err
	},
}

func init() {
	burnCmd.Flags().StringVar(&burnConfigPath, "config", "", "Path to engine configuration YAML")
	burnCmd.Flags().StringVar(&burnSchemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	burnCmd.Flags().DurationVar(&burnTick, "tick", 0, "Wall-clock delay between samples (e.g. 100ms); 0 runs as fast as possible")
	burnCmd.Flags().StringVar(&burnOutput, "output", formatAuto, "Output format: auto, json, color, csv, tui")
	burnCmd.Flags().BoolVar(&burnPrintOnly, "print-only", false, "Print samples to STDOUT even when GREPTIMEDB_ENDPOINT is set")
	burnCmd.Flags().StringVar(&burnLogFile, "log-file", "", "Path to export samples (JSONL); the summary goes to <path>.summary")
	burnCmd.Flags().StringVar(&burnAdminAddr, "admin", "", "Serve the admin UI on this address (e.g. :8080)")
	engineFlags.register(burnCmd.Flags())
}

// engineFlagSet holds the per-field overrides shared by burn and exhaust.
type engineFlagSet struct {
	propellant      string
	chamberPressure float64
	chamberTemp     float64
	ambientPressure float64
	altitude        float64
	totalMass       float64
	propellantMass  float64
	massFlow        float64
	timestep        float64
}

func newEngineFlagSet() *engineFlagSet { return &engineFlagSet{} }

// registerConditions adds the flags that affect exit velocity only.
func (f *engineFlagSet) registerConditions(fs *pflag.FlagSet) {
	fs.StringVar(&f.propellant, "propellant", "", "Propellant identifier (RP1, LH2, SRF, N2O4)")
	fs.Float64Var(&f.chamberPressure, "chamber-pressure", 0, "Chamber pressure (Pa)")
	fs.Float64Var(&f.chamberTemp, "chamber-temp", 0, "Combustion temperature (K)")
	fs.Float64Var(&f.ambientPressure, "ambient-pressure", 0, "Atmospheric pressure (Pa)")
	fs.Float64Var(&f.altitude, "altitude", 0, "Altitude (m) used to derive atmospheric pressure")
}

func (f *engineFlagSet) register(fs *pflag.FlagSet) {
	f.registerConditions(fs)
	fs.Float64Var(&f.totalMass, "total-mass", 0, "Total vehicle mass (kg)")
	fs.Float64Var(&f.propellantMass, "propellant-mass", 0, "Propellant mass (kg)")
	fs.Float64Var(&f.massFlow, "mass-flow", 0, "Mass flow rate (kg/s)")
	fs.Float64Var(&f.timestep, "timestep", 0, "Simulation timestep (s)")
}

// apply copies every flag the user set onto cfg.
func (f *engineFlagSet) apply(fs *pflag.FlagSet, cfg *config.Engine) {
	if fs.Changed("propellant") {
		cfg.Propellant = f.propellant
	}
	if fs.Changed("chamber-pressure") {
		cfg.ChamberPressurePa = f.chamberPressure
	}
	if fs.Changed("chamber-temp") {
		cfg.ChamberTemperatureK = f.chamberTemp
	}
	if fs.Changed("ambient-pressure") {
		p := f.ambientPressure
		cfg.AtmosphericPressurePa = &p
		cfg.AltitudeM = nil
	}
	if fs.Changed("altitude") {
		h := f.altitude
		cfg.AltitudeM = &h
		if !fs.Changed("ambient-pressure") {
			cfg.AtmosphericPressurePa = nil
		}
	}
	if fs.Changed("total-mass") {
		cfg.TotalMassKg = f.totalMass
	}
	if fs.Changed("propellant-mass") {
		cfg.PropellantMassKg = f.propellantMass
	}
	if fs.Changed("mass-flow") {
		cfg.MassFlowRateKgs = f.massFlow
	}
	if fs.Changed("timestep") {
		cfg.TimestepS = f.timestep
	}
}

// engineFromSettings builds the engine described by the simulation.* settings.
func engineFromSettings(st *settings.Settings) config.Engine {
	alt := st.Float("simulation.default_altitude")
	return config.Engine{
		Name:                "default",
		Propellant:          st.String("simulation.default_propellant"),
		ChamberPressurePa:   st.Float("simulation.default_chamber_pressure"),
		ChamberTemperatureK: st.Float("simulation.default_combustion_temp"),
		AltitudeM:           &alt,
		TotalMassKg:         st.Float("simulation.default_total_mass"),
		PropellantMassKg:    st.Float("simulation.default_propellant_mass"),
		MassFlowRateKgs:     st.Float("simulation.default_mass_flow_rate"),
		TimestepS:           st.Float("simulation.default_time_step"),
	}
}

// resolveEngine loads configPath when given, otherwise starts from settings,
// then applies flag overrides.
func resolveEngine(fs *pflag.FlagSet, configPath, schemaPath string, st *settings.Settings) (*config.Engine, error) {
	var cfg config.Engine
	if configPath != "" {
		loaded, err := config.Load(configPath, schemaPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	} else {
		cfg = engineFromSettings(st)
	}
	engineFlags.apply(fs, &cfg)
	return &cfg, nil
}
