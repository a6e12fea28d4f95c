package burn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"flarepie/internal/engine"
)

// Summary aggregates a completed burn.
type Summary struct {
	Steps              int     `json:"steps"`
	BurnTime           float64 `json:"burn_time_s"`
	PropellantConsumed float64 `json:"propellant_consumed_kg"`
	InitialMass        float64 `json:"initial_mass_kg"`
	FinalMass          float64 `json:"final_mass_kg"`
	ExitVelocity       float64 `json:"exit_velocity_ms"`
	PeakThrust         float64 `json:"peak_thrust_n"`
	TotalImpulse       float64 `json:"total_impulse_ns"`
	SpecificImpulse    float64 `json:"isp_s"`
	IdealDeltaV        float64 `json:"ideal_delta_v_ms"`
}

// Simulate steps sim until it is Depleted and returns every sample along with
// the run summary.
func Simulate(sim *Simulator) ([]Sample, Summary, error) {
	samples := make([]Sample, 0, sim.ExpectedSteps())
	for sim.State() != Depleted {
		s, err := sim.Step()
		if err != nil {
			return samples, Summary{}, err
		}
		samples = append(samples, s)
	}
	return samples, Summarize(sim, samples), nil
}

// Summarize computes totals for samples produced by sim. Impulse is integrated
// per step using the time actually burned, so the short final step counts only
// for its fraction of the timestep.
func Summarize(sim *Simulator, samples []Sample) Summary {
	sum := Summary{
		Steps:        len(samples),
		InitialMass:  sim.InitialTotalMass(),
		FinalMass:    sim.TotalMass(),
		ExitVelocity: sim.ExitVelocity(),
		BurnTime:     sim.Elapsed(),
	}
	if len(samples) == 0 {
		return sum
	}

	used := make([]float64, len(samples))
	impulse := make([]float64, len(samples))
	thrust := make([]float64, len(samples))
	for i, s := range samples {
		used[i] = s.MassUsed
		thrust[i] = s.Thrust
		impulse[i] = s.Thrust * (s.MassUsed / sim.MassFlowRate())
	}
	sum.PropellantConsumed = floats.Sum(used)
	sum.TotalImpulse = floats.Sum(impulse)
	sum.PeakThrust = floats.Max(thrust)
	sum.SpecificImpulse = sim.ExitVelocity() / engine.StandardGravity
	if sum.FinalMass > 0 {
		sum.IdealDeltaV = sim.ExitVelocity() * math.Log(sum.InitialMass/sum.FinalMass)
	}
	return sum
}

// String renders the summary on one line for logs and terminals.
func (s Summary) String() string {
	return fmt.Sprintf("steps=%d burn_time=%.3fs consumed=%.3fkg final_mass=%.3fkg ve=%.2fm/s peak_thrust=%.2fN impulse=%.2fNs isp=%.2fs dv=%.2fm/s",
		s.Steps, s.BurnTime, s.PropellantConsumed, s.FinalMass, s.ExitVelocity,
		s.PeakThrust, s.TotalImpulse, s.SpecificImpulse, s.IdealDeltaV)
}
