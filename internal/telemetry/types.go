package telemetry

import (
	"os"
	"time"

	"flarepie/internal/burn"
)

// SampleRow represents one burn sample record for GreptimeDB and log files.
type SampleRow struct {
	RunID               string    `json:"run_id"`     // TAG
	Engine              string    `json:"engine"`     // TAG
	Propellant          string    `json:"propellant"` // TAG
	Step                int       `json:"step"`
	TimeS               float64   `json:"time_s"`
	ThrustN             float64   `json:"thrust_n"`
	RemainingPropellant float64   `json:"remaining_propellant_kg"`
	TotalMass           float64   `json:"total_mass_kg"`
	MassUsed            float64   `json:"mass_used_kg"`
	ExitVelocity        float64   `json:"exit_velocity_ms"`
	Timestamp           time.Time `json:"ts"` // TIME INDEX
}

// SummaryRow is written once when a run reaches depletion.
type SummaryRow struct {
	RunID        string    `json:"run_id"`
	Engine       string    `json:"engine"`
	Propellant   string    `json:"propellant"`
	TableVersion string    `json:"table_version"`
	Timestamp    time.Time `json:"ts"`
	burn.Summary
}

// SampleTableName holds the table name used when writing samples to
// GreptimeDB. It defaults to "engine_burn" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var SampleTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "engine_burn"
}()

// SummaryTableName is the GreptimeDB table for run summaries.
var SummaryTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_SUMMARY_TABLE"); env != "" {
		return env
	}
	return "engine_burn_summary"
}()

func (SampleRow) TableName() string {
	return SampleTableName
}

func (SummaryRow) TableName() string {
	return SummaryTableName
}
