// Package engine evaluates ideal nozzle exit velocity and static thrust.
package engine

import (
	"fmt"
	"math"

	"flarepie/internal/propellant"
)

// CombustionConditions describes the chamber and the surrounding atmosphere.
// Pressures are in Pa, temperature in K.
type CombustionConditions struct {
	ChamberPressure     float64 `json:"chamber_pressure_pa" yaml:"chamber_pressure_pa"`
	ChamberTemperature  float64 `json:"chamber_temperature_k" yaml:"chamber_temperature_k"`
	AtmosphericPressure float64 `json:"atmospheric_pressure_pa" yaml:"atmospheric_pressure_pa"`
}

// Validate checks 0 <= Pa < Pc and Tc > 0.
func (c CombustionConditions) Validate() error {
	switch {
	case !finite(c.ChamberPressure) || c.ChamberPressure <= 0:
		return fmt.Errorf("%w: chamber pressure must be positive, got %g Pa", ErrDomain, c.ChamberPressure)
	case !finite(c.ChamberTemperature) || c.ChamberTemperature <= 0:
		return fmt.Errorf("%w: chamber temperature must be positive, got %g K", ErrDomain, c.ChamberTemperature)
	case !finite(c.AtmosphericPressure) || c.AtmosphericPressure < 0:
		return fmt.Errorf("%w: atmospheric pressure must not be negative, got %g Pa", ErrDomain, c.AtmosphericPressure)
	case c.AtmosphericPressure >= c.ChamberPressure:
		return fmt.Errorf("%w: pressure ratio yields non-physical result (atmospheric %g Pa >= chamber %g Pa)",
			ErrDomain, c.AtmosphericPressure, c.ChamberPressure)
	}
	return nil
}

// ExitVelocity returns the ideal exit velocity in m/s for isentropic expansion
// from chamber conditions down to atmospheric pressure:
//
//	ve = sqrt(2k/(k-1) * R * Tc * (1 - (Pa/Pc)^((k-1)/k)))
func ExitVelocity(c CombustionConditions, e propellant.Entry) (float64, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("%w: no constants for %q", ErrInvalidPropellant, e.ID)
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	k, r := e.K, e.R
	ratio := math.Pow(c.AtmosphericPressure/c.ChamberPressure, (k-1)/k)
	ve := math.Sqrt((2 * k / (k - 1)) * r * c.ChamberTemperature * (1 - ratio))
	if !finite(ve) || ve < 0 {
		return 0, fmt.Errorf("%w: exit velocity evaluated to %g", ErrDomain, ve)
	}
	return ve, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
