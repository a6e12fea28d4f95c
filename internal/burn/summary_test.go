package burn

import (
	"math"
	"testing"

	"flarepie/internal/engine"
)

func TestSummarize(t *testing.T) {
	sim, err := Configure(seaLevel, rp1(t), 150, 100, 10, 1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	samples, sum, err := Simulate(sim)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	ve := sim.ExitVelocity()
	if sum.Steps != len(samples) || sum.Steps != 10 {
		t.Fatalf("steps = %d", sum.Steps)
	}
	if sum.BurnTime != 10 {
		t.Fatalf("burn time = %v", sum.BurnTime)
	}
	if math.Abs(sum.TotalImpulse-100*ve) > 1e-6 {
		t.Fatalf("impulse = %v, want %v", sum.TotalImpulse, 100*ve)
	}
	if sum.PeakThrust != 10*ve {
		t.Fatalf("peak thrust = %v", sum.PeakThrust)
	}
	if math.Abs(sum.SpecificImpulse-ve/engine.StandardGravity) > 1e-12 {
		t.Fatalf("isp = %v", sum.SpecificImpulse)
	}
	if math.Abs(sum.IdealDeltaV-ve*math.Log(3)) > 1e-9 {
		t.Fatalf("delta-v = %v", sum.IdealDeltaV)
	}
	if sum.String() == "" {
		t.Fatalf("empty summary string")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Configured: "configured", Burning: "burning", Depleted: "depleted"} {
		if s.String() != want {
			t.Fatalf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
