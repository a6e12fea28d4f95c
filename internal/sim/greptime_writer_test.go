package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"flarepie/internal/burn"
	"flarepie/internal/telemetry"
)

type mockGreptimeClient struct {
	tables []*table.Table
	err    error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tables = append(m.tables, tables...)
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterSamples(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.SampleRow{
		{RunID: "r1", Engine: "e", Propellant: "RP1", Step: 0, TimeS: 0, ThrustN: 100, RemainingPropellant: 90, Timestamp: ts},
		{RunID: "r1", Engine: "e", Propellant: "RP1", Step: 1, TimeS: 1, ThrustN: 100, RemainingPropellant: 80, Timestamp: ts.Add(time.Second)},
	}
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "engine_burn"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(m.tables))
	}
	got := m.tables[0].GetRows()
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if got.Schema[0].ColumnName != "run_id" || got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("unexpected first column: %+v", got.Schema[0])
	}
	if got.Schema[3].Datatype != gpb.ColumnDataType_INT64 {
		t.Fatalf("step column type = %v", got.Schema[3].Datatype)
	}
	if v := got.Rows[1].Values[3].GetI64Value(); v != 1 {
		t.Fatalf("step = %d, want 1", v)
	}
	if v := got.Rows[1].Values[6].GetF64Value(); v != 80 {
		t.Fatalf("remaining = %v, want 80", v)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "engine_burn"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 0 {
		t.Fatalf("empty batch must not write")
	}
}

func TestGreptimeWriterSummary(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, summaryTable: "engine_burn_summary"}
	row := telemetry.SummaryRow{RunID: "r1", Engine: "e", Propellant: "LH2", TableVersion: "v", Timestamp: time.Unix(0, 0),
		Summary: burn.Summary{Steps: 10, BurnTime: 10, TotalImpulse: 42}}
	if err := w.WriteSummary(row); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	got := m.tables[0].GetRows()
	if v := got.Rows[0].Values[2].GetStringValue(); v != "LH2" {
		t.Fatalf("propellant = %q", v)
	}
	if v := got.Rows[0].Values[4].GetI64Value(); v != 10 {
		t.Fatalf("steps = %d", v)
	}
	if v := got.Rows[0].Values[10].GetF64Value(); v != 42 {
		t.Fatalf("total impulse = %v", v)
	}
}

func TestGreptimeWriterError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := &GreptimeDBWriter{client: m, sampleTable: "engine_burn"}
	if err := w.Write(telemetry.SampleRow{RunID: "r", Timestamp: time.Unix(0, 0)}); err == nil {
		t.Fatalf("expected client error to propagate")
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
		err  bool
	}{
		{"localhost:4001", "localhost", 4001, false},
		{"greptime", "greptime", defaultGreptimePort, false},
		{"db:abc", "", 0, true},
		{"", "", 0, true},
	}
	for _, tc := range cases {
		host, port, err := splitEndpoint(tc.in)
		if (err != nil) != tc.err {
			t.Fatalf("splitEndpoint(%q) err = %v", tc.in, err)
		}
		if !tc.err && (host != tc.host || port != tc.port) {
			t.Fatalf("splitEndpoint(%q) = %s:%d", tc.in, host, port)
		}
	}
}
