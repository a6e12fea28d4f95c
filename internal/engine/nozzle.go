package engine

import "fmt"

// StandardGravity is the g0 used to express specific impulse in seconds.
const StandardGravity = 9.81

// NozzleInputs are the exit-plane quantities for a static thrust evaluation.
type NozzleInputs struct {
	MassFlowRate     float64 // kg/s
	ExitVelocity     float64 // m/s
	ExitPressure     float64 // Pa
	AmbientPressure  float64 // Pa
	ExitArea         float64 // m^2
	GravitationalAcc float64 // m/s^2, StandardGravity when zero
}

// NozzlePerformance is the result of ThrustAndIsp.
type NozzlePerformance struct {
	Thrust          float64 `json:"thrust_n"`
	MomentumThrust  float64 `json:"momentum_thrust_n"`
	PressureThrust  float64 `json:"pressure_thrust_n"`
	SpecificImpulse float64 `json:"isp_s"`
}

// ThrustAndIsp evaluates F = mdot*ve + (pe-pa)*Ae and Isp = F/(mdot*g0).
func ThrustAndIsp(in NozzleInputs) (NozzlePerformance, error) {
	g0 := in.GravitationalAcc
	if g0 == 0 {
		g0 = StandardGravity
	}
	switch {
	case !finite(in.MassFlowRate) || in.MassFlowRate <= 0:
		return NozzlePerformance{}, fmt.Errorf("%w: mass flow rate must be positive for Isp, got %g kg/s", ErrDomain, in.MassFlowRate)
	case !finite(g0) || g0 < 0:
		return NozzlePerformance{}, fmt.Errorf("%w: gravitational acceleration must be positive, got %g", ErrDomain, g0)
	case !finite(in.ExitArea) || in.ExitArea < 0:
		return NozzlePerformance{}, fmt.Errorf("%w: exit area must not be negative, got %g m^2", ErrDomain, in.ExitArea)
	case !finite(in.ExitVelocity) || !finite(in.ExitPressure) || !finite(in.AmbientPressure):
		return NozzlePerformance{}, fmt.Errorf("%w: non-finite nozzle input", ErrDomain)
	}

	momentum := in.MassFlowRate * in.ExitVelocity
	pressure := (in.ExitPressure - in.AmbientPressure) * in.ExitArea
	f := momentum + pressure
	return NozzlePerformance{
		Thrust:          f,
		MomentumThrust:  momentum,
		PressureThrust:  pressure,
		SpecificImpulse: f / (in.MassFlowRate * g0),
	}, nil
}
