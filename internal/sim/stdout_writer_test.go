package sim

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"flarepie/internal/burn"
	"flarepie/internal/config"
	"flarepie/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONStdoutWriter{out: &buf}
	row := telemetry.SampleRow{RunID: "r", Step: 3, ThrustN: 12.5, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteBatch([]telemetry.SampleRow{row, row}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	var got telemetry.SampleRow
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Step != 3 || got.ThrustN != 12.5 {
		t.Fatalf("unexpected row: %#v", got)
	}
	buf.Reset()
	if err := w.WriteSummary(telemetry.SummaryRow{Summary: burn.Summary{SpecificImpulse: 250}}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if !strings.Contains(buf.String(), `"isp_s":250`) {
		t.Fatalf("summary fields should be flattened: %s", buf.String())
	}
}

func TestColorStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	w := &ColorStdoutWriter{cfg: &cfg, out: &buf}
	if err := w.Write(telemetry.SampleRow{Step: 1, ThrustN: 100, RemainingPropellant: 0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(telemetry.SampleRow{Step: 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "Engine Configuration:") != 1 {
		t.Fatalf("overview should print once:\n%s", out)
	}
	if !strings.Contains(out, colorRed+"propellant=0.000kg") {
		t.Fatalf("depleted propellant should be red:\n%s", out)
	}
	buf.Reset()
	if err := w.WriteSummary(telemetry.SummaryRow{RunID: "r", Summary: burn.Summary{Steps: 2}}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "Propellant consumed. Simulation ended.") {
		t.Fatalf("missing end banner:\n%s", buf.String())
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := w.Write(telemetry.SampleRow{RunID: "r", Step: 0, ThrustN: 2500, Timestamp: ts}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.WriteBatch([]telemetry.SampleRow{{RunID: "r", Step: 1, TimeS: 0.5, Timestamp: ts}}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want header + 2", len(recs))
	}
	if recs[0][0] != "run_id" {
		t.Fatalf("header = %v", recs[0])
	}
	if recs[1][3] != "2500" || recs[2][2] != "0.5" {
		t.Fatalf("unexpected records: %v", recs)
	}
	if recs[1][7] != "2024-01-01T00:00:00Z" {
		t.Fatalf("timestamp = %q", recs[1][7])
	}
}
