package engine

import "errors"

var (
	// ErrInvalidPropellant is returned when a calculation receives a propellant
	// entry that did not resolve from the propellant table.
	ErrInvalidPropellant = errors.New("invalid propellant")
	// ErrDomain is returned when inputs fall outside the range where a formula
	// yields a physical result.
	ErrDomain = errors.New("domain error")
)
