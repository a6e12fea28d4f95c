package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"flarepie/internal/config"
	"flarepie/internal/propellant"
	"flarepie/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// lowPropellantFraction colours the remaining mass once it drops below this
// share of the initial load.
const lowPropellantFraction = 0.1

// ColorStdoutWriter prints sample rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.Engine
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Engine) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Engine Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", w.cfg.Name)
	fmt.Fprintf(tw, "Propellant:\t%s (table %s)\n", w.cfg.Propellant, propellant.TableVersion)
	fmt.Fprintf(tw, "Chamber Pressure (Pa):\t%.0f\n", w.cfg.ChamberPressurePa)
	fmt.Fprintf(tw, "Combustion Temperature (K):\t%.0f\n", w.cfg.ChamberTemperatureK)
	fmt.Fprintf(tw, "Atmospheric Pressure (Pa):\t%.0f\n", w.cfg.AmbientPressure())
	fmt.Fprintf(tw, "Total Mass (kg):\t%.2f\n", w.cfg.TotalMassKg)
	fmt.Fprintf(tw, "Propellant Mass (kg):\t%.2f\n", w.cfg.PropellantMassKg)
	fmt.Fprintf(tw, "Mass Flow Rate (kg/s):\t%.2f\n", w.cfg.MassFlowRateKgs)
	fmt.Fprintf(tw, "Timestep (s):\t%g\n", w.cfg.TimestepS)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single sample row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.SampleRow) error {
	w.once.Do(w.printOverview)

	remColor := colorGreen
	if w.cfg != nil && w.cfg.PropellantMassKg > 0 {
		frac := row.RemainingPropellant / w.cfg.PropellantMassKg
		switch {
		case frac == 0:
			remColor = colorRed
		case frac < lowPropellantFraction:
			remColor = colorYellow
		}
	}

	fmt.Fprintf(w.out, "%s[%8.3fs]%s ", colorGray, row.TimeS, colorReset)
	fmt.Fprintf(w.out, "%sstep=%d%s ", colorBlue, row.Step, colorReset)
	fmt.Fprintf(w.out, "%sthrust=%.2fN%s ", colorMagenta, row.ThrustN, colorReset)
	fmt.Fprintf(w.out, "%spropellant=%.3fkg%s ", remColor, row.RemainingPropellant, colorReset)
	fmt.Fprintf(w.out, "%smass=%.3fkg%s", colorCyan, row.TotalMass, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteSummary prints the end-of-burn summary.
func (w *ColorStdoutWriter) WriteSummary(row telemetry.SummaryRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%sPropellant consumed. Simulation ended.%s\n", colorYellow, colorReset)
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", row.RunID)
	fmt.Fprintf(tw, "Burn Time (s):\t%.3f\n", row.BurnTime)
	fmt.Fprintf(tw, "Steps:\t%d\n", row.Steps)
	fmt.Fprintf(tw, "Exit Velocity (m/s):\t%.2f\n", row.ExitVelocity)
	fmt.Fprintf(tw, "Thrust (N):\t%.2f\n", row.PeakThrust)
	fmt.Fprintf(tw, "Specific Impulse (s):\t%.2f\n", row.SpecificImpulse)
	fmt.Fprintf(tw, "Total Impulse (N*s):\t%.2f\n", row.TotalImpulse)
	fmt.Fprintf(tw, "Propellant Consumed (kg):\t%.3f\n", row.PropellantConsumed)
	fmt.Fprintf(tw, "Final Mass (kg):\t%.3f\n", row.FinalMass)
	fmt.Fprintf(tw, "Ideal Delta-v (m/s):\t%.2f\n", row.IdealDeltaV)
	return tw.Flush()
}
