// Package sim drives burn simulations and fans their samples out to writers.
package sim

import (
	"sync"
	"time"

	"flarepie/internal/burn"
	"flarepie/internal/config"
	"flarepie/internal/telemetry"
)

const defaultBatchSize = 64

// Status is a point-in-time view of a run for the admin server.
type Status struct {
	RunID             string        `json:"run_id"`
	Engine            string        `json:"engine"`
	Propellant        string        `json:"propellant"`
	State             string        `json:"state"`
	Steps             int           `json:"steps"`
	ExpectedSteps     int           `json:"expected_steps"`
	Elapsed           float64       `json:"elapsed_s"`
	Thrust            float64       `json:"thrust_n"`
	Remaining         float64       `json:"remaining_propellant_kg"`
	InitialPropellant float64       `json:"initial_propellant_kg"`
	TotalMass         float64       `json:"total_mass_kg"`
	ExitVelocity      float64       `json:"exit_velocity_ms"`
	Summary           *burn.Summary `json:"summary,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// Runner steps a burn simulator and fans its samples out to a writer.
type Runner struct {
	cfg           *config.Engine
	sim           *burn.Simulator
	gen           *telemetry.Generator
	writer        SampleWriter
	summaryWriter SummaryWriter
	tickInterval  time.Duration
	batchSize     int
	samples       []burn.Sample

	mu     sync.Mutex
	status Status
}

// NewRunner configures a simulator from cfg. A zero tickInterval runs the burn
// as fast as possible; a positive one emits one sample per tick.
func NewRunner(cfg *config.Engine, writer SampleWriter, tickInterval time.Duration) (*Runner, error) {
	sim, err := cfg.NewSimulator()
	if err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "engine"
	}
	entry, _ := cfg.Entry()
	gen := telemetry.NewGenerator(name, entry.ID, sim.ExitVelocity(), time.Now())

	r := &Runner{
		cfg:          cfg,
		sim:          sim,
		gen:          gen,
		writer:       writer,
		tickInterval: tickInterval,
		batchSize:    defaultBatchSize,
	}
	if sw, ok := writer.(SummaryWriter); ok {
		r.summaryWriter = sw
	}
	if tickInterval > 0 {
		r.batchSize = 1
	}
	r.status = Status{
		RunID:             gen.RunID,
		Engine:            name,
		Propellant:        entry.ID,
		State:             sim.State().String(),
		ExpectedSteps:     sim.ExpectedSteps(),
		Remaining:         sim.PropellantMass(),
		InitialPropellant: sim.InitialPropellantMass(),
		TotalMass:         sim.TotalMass(),
		ExitVelocity:      sim.ExitVelocity(),
	}
	return r, nil
}

// RunID returns the identifier stamped on every row of this run.
func (r *Runner) RunID() string { return r.gen.RunID }

// Config returns the engine definition being simulated.
func (r *Runner) Config() *config.Engine { return r.cfg }

// Status returns a copy of the current run status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	if st.Summary != nil {
		sum := *st.Summary
		st.Summary = &sum
	}
	return st
}

// SetAdminStatus forwards the admin server state to writers that display it.
func (r *Runner) SetAdminStatus(listening bool) {
	if aw, ok := r.writer.(AdminStatusWriter); ok {
		aw.SetAdminStatus(listening)
	}
}

func (r *Runner) record(row telemetry.SampleRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.State = r.sim.State().String()
	r.status.Steps = r.sim.Steps()
	r.status.Elapsed = r.sim.Elapsed()
	r.status.Thrust = row.ThrustN
	r.status.Remaining = row.RemainingPropellant
	r.status.TotalMass = row.TotalMass
}

func (r *Runner) finish(sum *burn.Summary, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.State = r.sim.State().String()
	r.status.Summary = sum
	if err != nil {
		r.status.Error = err.Error()
	}
}
