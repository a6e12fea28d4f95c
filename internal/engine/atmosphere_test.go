package engine

import (
	"math"
	"testing"
)

func TestAtmosphericPressure(t *testing.T) {
	cases := []struct {
		alt  float64
		want float64
	}{
		{0, SeaLevelPressure},
		{-500, SeaLevelPressure},
		{5000, 54019.88},
		{10000, 26436.23},
		{50000, 0},
	}
	for _, c := range cases {
		got := AtmosphericPressure(c.alt)
		if math.Abs(got-c.want) > 0.01 {
			t.Errorf("AtmosphericPressure(%v) = %.2f, want %.2f", c.alt, got, c.want)
		}
	}
}

func TestAtmosphericPressureDecreasing(t *testing.T) {
	prev := AtmosphericPressure(0)
	for alt := 1000.0; alt <= 40000; alt += 1000 {
		p := AtmosphericPressure(alt)
		if p > prev || p < 0 {
			t.Fatalf("pressure at %vm = %v, previous %v", alt, p, prev)
		}
		prev = p
	}
}
