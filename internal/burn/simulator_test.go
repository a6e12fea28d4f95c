package burn

import (
	"errors"
	"math"
	"testing"

	"flarepie/internal/engine"
	"flarepie/internal/propellant"
)

var seaLevel = engine.CombustionConditions{ChamberPressure: 5_000_000, ChamberTemperature: 3200, AtmosphericPressure: 101325}

func rp1(t *testing.T) propellant.Entry {
	t.Helper()
	e, ok := propellant.Lookup("RP1")
	if !ok {
		t.Fatalf("RP1 missing")
	}
	return e
}

func TestSimulatorTenSteps(t *testing.T) {
	sim, err := Configure(seaLevel, rp1(t), 150, 100, 10, 1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if sim.State() != Configured {
		t.Fatalf("state = %s, want configured", sim.State())
	}

	var samples []Sample
	for sim.State() != Depleted {
		s, err := sim.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		samples = append(samples, s)
		if len(samples) > 20 {
			t.Fatalf("runaway simulation")
		}
		if sim.State() == Configured {
			t.Fatalf("state still configured after step")
		}
	}

	if len(samples) != 10 {
		t.Fatalf("got %d samples, want 10", len(samples))
	}
	last := samples[len(samples)-1]
	if last.RemainingPropellant != 0 {
		t.Fatalf("last remaining = %v, want 0", last.RemainingPropellant)
	}
	if last.TotalMass != 50 {
		t.Fatalf("last total mass = %v, want 50", last.TotalMass)
	}
	if sim.Elapsed() != 10 {
		t.Fatalf("elapsed = %v, want 10", sim.Elapsed())
	}
	for i, s := range samples {
		if s.Time != float64(i) {
			t.Fatalf("sample %d time = %v, want %d", i, s.Time, i)
		}
		if s.Thrust != 10*sim.ExitVelocity() {
			t.Fatalf("sample %d thrust = %v", i, s.Thrust)
		}
	}
}

func TestSimulatorPartialFinalStep(t *testing.T) {
	sim, err := Configure(seaLevel, rp1(t), 1000, 100, 7, 1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	samples, sum, err := Simulate(sim)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(samples) != 15 {
		t.Fatalf("got %d samples, want 15", len(samples))
	}
	last := samples[len(samples)-1]
	if last.MassUsed != 2 {
		t.Fatalf("final mass used = %v, want 2", last.MassUsed)
	}
	if last.Thrust != samples[0].Thrust {
		t.Fatalf("final step thrust %v must not be pro-rated (%v)", last.Thrust, samples[0].Thrust)
	}
	var total float64
	for _, s := range samples {
		total += s.MassUsed
	}
	if total != 100 {
		t.Fatalf("mass used sums to %v, want exactly 100", total)
	}
	if sum.PropellantConsumed != 100 {
		t.Fatalf("summary consumed = %v", sum.PropellantConsumed)
	}
	wantTime := 14 + 2.0/7
	if math.Abs(sim.Elapsed()-wantTime) > 1e-12 {
		t.Fatalf("elapsed = %v, want %v", sim.Elapsed(), wantTime)
	}
	if sum.FinalMass != 900 {
		t.Fatalf("final mass = %v, want 900", sum.FinalMass)
	}
}

func TestSimulatorMassConservationIrregular(t *testing.T) {
	cases := []struct{ prop, mdot, dt float64 }{
		{1, 0.3, 1},
		{8000, 250, 0.1},
		{123.456, 9.87, 0.05},
		{0.7, 1, 0.1},
		{7.7, 0.7, 0.3},
		{1, 0.1, 1},
	}
	for _, tc := range cases {
		sim, err := Configure(seaLevel, rp1(t), tc.prop*2, tc.prop, tc.mdot, tc.dt)
		if err != nil {
			t.Fatalf("Configure: %v", err)
		}
		samples, _, err := Simulate(sim)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		var total float64
		for _, s := range samples {
			if s.RemainingPropellant < 0 {
				t.Fatalf("negative propellant %v", s.RemainingPropellant)
			}
			if s.MassUsed > tc.mdot*tc.dt*(1+1e-9) {
				t.Fatalf("step used %v more than mdot*dt %v", s.MassUsed, tc.mdot*tc.dt)
			}
			if s.TotalMass < tc.prop {
				t.Fatalf("total mass %v below dry mass %v", s.TotalMass, tc.prop)
			}
			total += s.MassUsed
		}
		if total != tc.prop {
			t.Fatalf("%+v: consumed %.20g, want %v", tc, total, tc.prop)
		}
		if len(samples) != sim.ExpectedSteps() {
			t.Fatalf("%+v: %d samples, want %d", tc, len(samples), sim.ExpectedSteps())
		}
		if samples[len(samples)-1].RemainingPropellant != 0 {
			t.Fatalf("%+v: did not end at zero", tc)
		}
	}
}

func TestSimulatorNoTrailingSliver(t *testing.T) {
	sim, err := Configure(seaLevel, rp1(t), 2, 1, 0.1, 1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	samples, _, err := Simulate(sim)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(samples) != 10 {
		t.Fatalf("got %d samples, want 10", len(samples))
	}
	last := samples[len(samples)-1]
	if math.Abs(last.MassUsed-0.1) > 1e-12 {
		t.Fatalf("last step used %v, want 0.1", last.MassUsed)
	}
	if last.RemainingPropellant != 0 || sim.State() != Depleted {
		t.Fatalf("remaining = %v state = %s", last.RemainingPropellant, sim.State())
	}
	if math.Abs(sim.Elapsed()-10) > 1e-12 {
		t.Fatalf("elapsed = %v, want 10", sim.Elapsed())
	}
}

func TestSimulatorStepAfterDepleted(t *testing.T) {
	sim, err := Configure(seaLevel, rp1(t), 20, 10, 10, 1)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if _, err := sim.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if sim.State() != Depleted {
		t.Fatalf("state = %s, want depleted", sim.State())
	}
	elapsed, mass, steps := sim.Elapsed(), sim.TotalMass(), sim.Steps()
	for i := 0; i < 3; i++ {
		if _, err := sim.Step(); !errors.Is(err, ErrUsage) {
			t.Fatalf("err = %v, want ErrUsage", err)
		}
	}
	if sim.Elapsed() != elapsed || sim.TotalMass() != mass || sim.Steps() != steps || sim.PropellantMass() != 0 {
		t.Fatalf("state mutated after depletion")
	}
}

func TestConfigureErrors(t *testing.T) {
	unknown, _ := propellant.Lookup("LOX")
	cases := []struct {
		name                  string
		cond                  engine.CombustionConditions
		entry                 propellant.Entry
		total, prop, mdot, dt float64
		want                  error
	}{
		{"zero flow", seaLevel, rp1(t), 200, 100, 0, 1, ErrConfiguration},
		{"negative flow", seaLevel, rp1(t), 200, 100, -5, 1, ErrConfiguration},
		{"zero timestep", seaLevel, rp1(t), 200, 100, 10, 0, ErrConfiguration},
		{"negative timestep", seaLevel, rp1(t), 200, 100, 10, -1, ErrConfiguration},
		{"inf timestep", seaLevel, rp1(t), 200, 100, 10, math.Inf(1), ErrConfiguration},
		{"no propellant", seaLevel, rp1(t), 200, 0, 10, 1, ErrConfiguration},
		{"total below propellant", seaLevel, rp1(t), 50, 100, 10, 1, ErrConfiguration},
		{"unknown propellant", seaLevel, unknown, 200, 100, 10, 1, engine.ErrInvalidPropellant},
		{"pressure ordering", engine.CombustionConditions{ChamberPressure: 1e5, ChamberTemperature: 3000, AtmosphericPressure: 1e5}, rp1(t), 200, 100, 10, 1, engine.ErrDomain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim, err := Configure(tc.cond, tc.entry, tc.total, tc.prop, tc.mdot, tc.dt)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if sim != nil {
				t.Fatalf("expected nil simulator on error")
			}
		})
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	run := func() []Sample {
		sim, err := Configure(seaLevel, rp1(t), 10000, 8000, 250, 0.1)
		if err != nil {
			t.Fatalf("Configure: %v", err)
		}
		samples, _, err := Simulate(sim)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		return samples
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("length mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
