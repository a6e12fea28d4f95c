package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"flarepie/internal/telemetry"
)

const defaultGreptimePort = 4001

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes samples and summaries to GreptimeDB via the ingester client
type GreptimeDBWriter struct {
	client       greptimeClient
	sampleTable  string
	summaryTable string
}

// NewGreptimeDBWriter creates a writer for endpoint ("host" or "host:port").
// Empty table names fall back to the telemetry defaults.
func NewGreptimeDBWriter(endpoint, database, sampleTable, summaryTable string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if sampleTable == "" {
		sampleTable = telemetry.SampleTableName
	}
	if summaryTable == "" {
		summaryTable = telemetry.SummaryTableName
	}
	return &GreptimeDBWriter{client: client, sampleTable: sampleTable, summaryTable: summaryTable}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("greptime endpoint is empty")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// Write inserts a single sample row.
func (w *GreptimeDBWriter) Write(row telemetry.SampleRow) error {
	return w.WriteBatch([]telemetry.SampleRow{row})
}

// WriteBatch inserts multiple sample rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.SampleRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.sampleTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("engine", types.STRING)
	tbl.AddTagColumn("propellant", types.STRING)
	tbl.AddFieldColumn("step", types.INT64)
	tbl.AddFieldColumn("time_s", types.FLOAT64)
	tbl.AddFieldColumn("thrust_n", types.FLOAT64)
	tbl.AddFieldColumn("remaining_propellant_kg", types.FLOAT64)
	tbl.AddFieldColumn("total_mass_kg", types.FLOAT64)
	tbl.AddFieldColumn("mass_used_kg", types.FLOAT64)
	tbl.AddFieldColumn("exit_velocity_ms", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MICROSECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Engine, r.Propellant, int64(r.Step), r.TimeS, r.ThrustN,
			r.RemainingPropellant, r.TotalMass, r.MassUsed, r.ExitVelocity, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime sample write failed", "table", w.sampleTable, "err", err)
		return err
	}
	slog.Debug("greptime wrote samples", "table", w.sampleTable, "rows", len(rows))
	return nil
}

// WriteSummary inserts the run summary.
func (w *GreptimeDBWriter) WriteSummary(row telemetry.SummaryRow) error {
	tbl, err := table.New(w.summaryTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("engine", types.STRING)
	tbl.AddTagColumn("propellant", types.STRING)
	tbl.AddFieldColumn("table_version", types.STRING)
	tbl.AddFieldColumn("steps", types.INT64)
	tbl.AddFieldColumn("burn_time_s", types.FLOAT64)
	tbl.AddFieldColumn("propellant_consumed_kg", types.FLOAT64)
	tbl.AddFieldColumn("final_mass_kg", types.FLOAT64)
	tbl.AddFieldColumn("exit_velocity_ms", types.FLOAT64)
	tbl.AddFieldColumn("peak_thrust_n", types.FLOAT64)
	tbl.AddFieldColumn("total_impulse_ns", types.FLOAT64)
	tbl.AddFieldColumn("isp_s", types.FLOAT64)
	tbl.AddFieldColumn("ideal_delta_v_ms", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MICROSECOND)

	if err := tbl.AddRow(row.RunID, row.Engine, row.Propellant, row.TableVersion, int64(row.Steps),
		row.BurnTime, row.PropellantConsumed, row.FinalMass, row.ExitVelocity, row.PeakThrust,
		row.TotalImpulse, row.SpecificImpulse, row.IdealDeltaV, row.Timestamp); err != nil {
		return err
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime summary write failed", "table", w.summaryTable, "err", err)
		return err
	}
	return nil
}
