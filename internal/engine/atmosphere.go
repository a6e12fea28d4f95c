package engine

import "math"

// SeaLevelPressure is the standard atmosphere at 0 m, in Pa.
const SeaLevelPressure = 101325.0

const (
	pressureLapse    = 2.25577e-5
	pressureExponent = 5.25588
)

// AtmosphericPressure returns the barometric pressure in Pa at altitude metres.
// Negative altitudes are treated as sea level and the result never drops below 0.
func AtmosphericPressure(altitude float64) float64 {
	altitude = math.Max(0, altitude)
	base := 1 - pressureLapse*altitude
	if base <= 0 {
		return 0
	}
	return SeaLevelPressure * math.Pow(base, pressureExponent)
}
