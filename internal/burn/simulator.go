// Package burn simulates fixed-timestep propellant depletion at constant
// mass flow.
package burn

import (
	"errors"
	"fmt"
	"math"

	"flarepie/internal/engine"
	"flarepie/internal/propellant"
)

var (
	// ErrConfiguration is returned by Configure for inputs that could never
	// deplete the propellant or describe a non-physical vehicle.
	ErrConfiguration = errors.New("configuration error")
	// ErrUsage is returned when stepping a simulator that is already Depleted.
	ErrUsage = errors.New("usage error")
)

// State is the lifecycle stage of a Simulator.
type State int

const (
	Configured State = iota
	Burning
	Depleted
)

// depletionTolerance is the relative slack within which a remainder counts as
// one full step, so rounding never leaves a sliver for an extra sample.
const depletionTolerance = 1e-9

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Burning:
		return "burning"
	case Depleted:
		return "depleted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Sample is emitted once per step. Time is the elapsed time at the start of
// the step.
type Sample struct {
	Step                int     `json:"step"`
	Time                float64 `json:"time_s"`
	Thrust              float64 `json:"thrust_n"`
	RemainingPropellant float64 `json:"remaining_propellant_kg"`
	TotalMass           float64 `json:"total_mass_kg"`
	MassUsed            float64 `json:"mass_used_kg"`
}

// Simulator owns the burn state of a single run. It is not safe for
// concurrent use.
type Simulator struct {
	exitVelocity float64
	massFlowRate float64
	timestep     float64
	dryMass      float64

	initialTotal      float64
	initialPropellant float64

	totalMass      float64
	propellantMass float64
	consumed       float64
	elapsed        float64
	steps          int
	state          State
}

// Configure validates the inputs, evaluates the exit velocity once and returns
// a simulator in the Configured state.
func Configure(c engine.CombustionConditions, e propellant.Entry, totalMass, propellantMass, massFlowRate, timestep float64) (*Simulator, error) {
	switch {
	case !positive(massFlowRate):
		return nil, fmt.Errorf("%w: mass flow rate must be positive, got %g kg/s", ErrConfiguration, massFlowRate)
	case !positive(timestep):
		return nil, fmt.Errorf("%w: timestep must be positive, got %g s", ErrConfiguration, timestep)
	case !positive(propellantMass):
		return nil, fmt.Errorf("%w: propellant mass must be positive, got %g kg", ErrConfiguration, propellantMass)
	case math.IsNaN(totalMass) || math.IsInf(totalMass, 0) || totalMass < propellantMass:
		return nil, fmt.Errorf("%w: total mass %g kg is below propellant mass %g kg", ErrConfiguration, totalMass, propellantMass)
	}

	ve, err := engine.ExitVelocity(c, e)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		exitVelocity:      ve,
		massFlowRate:      massFlowRate,
		timestep:          timestep,
		dryMass:           totalMass - propellantMass,
		initialTotal:      totalMass,
		initialPropellant: propellantMass,
		totalMass:         totalMass,
		propellantMass:    propellantMass,
		state:             Configured,
	}, nil
}

// Step advances the burn by one timestep. Once the propellant reaches zero the
// simulator is Depleted and further calls return ErrUsage without touching
// state.
func (s *Simulator) Step() (Sample, error) {
	if s.state == Depleted {
		return Sample{}, fmt.Errorf("%w: simulator is depleted after %d steps", ErrUsage, s.steps)
	}
	s.state = Burning

	full := s.massFlowRate * s.timestep
	used, dt := full, s.timestep
	if s.propellantMass <= full*(1+depletionTolerance) {
		// Final step: take whatever the running total leaves so the
		// per-step amounts add back up to the initial load.
		used = s.initialPropellant - s.consumed
		if s.propellantMass < full*(1-depletionTolerance) {
			dt = used / s.massFlowRate
		}
		s.consumed = s.initialPropellant
		s.propellantMass = 0
	} else {
		s.consumed += used
		s.propellantMass = s.initialPropellant - s.consumed
	}

	s.totalMass = math.Max(s.totalMass-used, s.dryMass)
	if s.propellantMass == 0 {
		s.totalMass = s.dryMass
	}

	sample := Sample{
		Step:                s.steps,
		Time:                s.elapsed,
		Thrust:              s.massFlowRate * s.exitVelocity,
		RemainingPropellant: s.propellantMass,
		TotalMass:           s.totalMass,
		MassUsed:            used,
	}
	s.elapsed += dt
	s.steps++

	if s.propellantMass == 0 {
		s.state = Depleted
	}
	return sample, nil
}

// State returns the lifecycle stage.
func (s *Simulator) State() State { return s.state }

// Elapsed returns the simulated burn time so far, in seconds.
func (s *Simulator) Elapsed() float64 { return s.elapsed }

// Steps returns how many samples have been produced.
func (s *Simulator) Steps() int { return s.steps }

// PropellantMass returns the remaining propellant in kg.
func (s *Simulator) PropellantMass() float64 { return s.propellantMass }

// TotalMass returns the current vehicle mass in kg.
func (s *Simulator) TotalMass() float64 { return s.totalMass }

// InitialTotalMass returns the vehicle mass at configuration time.
func (s *Simulator) InitialTotalMass() float64 { return s.initialTotal }

// InitialPropellantMass returns the propellant loaded at configuration time.
func (s *Simulator) InitialPropellantMass() float64 { return s.initialPropellant }

// ExitVelocity returns the constant exit velocity for the run, in m/s.
func (s *Simulator) ExitVelocity() float64 { return s.exitVelocity }

// MassFlowRate returns the configured flow rate in kg/s.
func (s *Simulator) MassFlowRate() float64 { return s.massFlowRate }

// Timestep returns the configured step length in seconds.
func (s *Simulator) Timestep() float64 { return s.timestep }

// ExpectedSteps returns the number of samples a full burn produces.
func (s *Simulator) ExpectedSteps() int {
	n := s.initialPropellant / (s.massFlowRate * s.timestep)
	return int(math.Ceil(n - n*depletionTolerance))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
