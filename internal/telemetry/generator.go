package telemetry

import (
	"time"

	"github.com/google/uuid"

	"flarepie/internal/burn"
	"flarepie/internal/propellant"
)

// Generator turns burn samples into rows for one run. Row timestamps are the
// run start plus simulated time, so a replay reproduces the burn's pacing.
type Generator struct {
	RunID        string
	Engine       string
	Propellant   string
	ExitVelocity float64
	StartedAt    time.Time
}

// NewGenerator creates a generator with a fresh run ID.
func NewGenerator(engine, propellantID string, exitVelocity float64, startedAt time.Time) *Generator {
	return &Generator{
		RunID:        uuid.New().String(),
		Engine:       engine,
		Propellant:   propellantID,
		ExitVelocity: exitVelocity,
		StartedAt:    startedAt.UTC(),
	}
}

// GenerateSample converts a burn sample into a SampleRow.
func (g *Generator) GenerateSample(s burn.Sample) SampleRow {
	return SampleRow{
		RunID:               g.RunID,
		Engine:              g.Engine,
		Propellant:          g.Propellant,
		Step:                s.Step,
		TimeS:               s.Time,
		ThrustN:             s.Thrust,
		RemainingPropellant: s.RemainingPropellant,
		TotalMass:           s.TotalMass,
		MassUsed:            s.MassUsed,
		ExitVelocity:        g.ExitVelocity,
		Timestamp:           g.StartedAt.Add(seconds(s.Time)),
	}
}

// GenerateSummary wraps a burn summary with run metadata.
func (g *Generator) GenerateSummary(sum burn.Summary) SummaryRow {
	return SummaryRow{
		RunID:        g.RunID,
		Engine:       g.Engine,
		Propellant:   g.Propellant,
		TableVersion: propellant.TableVersion,
		Timestamp:    g.StartedAt.Add(seconds(sum.BurnTime)),
		Summary:      sum,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
