package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flarepie/internal/burn"
	"flarepie/internal/telemetry"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.SampleRow{
		{RunID: "r1", Propellant: "RP1", Step: 0, ThrustN: 50, RemainingPropellant: 90, MassUsed: 10, Timestamp: ts},
		{RunID: "r1", Propellant: "RP1", Step: 1, TimeS: 1, ThrustN: 50, RemainingPropellant: 80, MassUsed: 10, Timestamp: ts.Add(time.Second)},
	}
	sum := telemetry.SummaryRow{RunID: "r1", Summary: burn.Summary{Steps: 2, TotalImpulse: 100}}

	samplePath := filepath.Join(dir, "samples.jsonl")
	summaryPath := filepath.Join(dir, "summary.jsonl")
	fw, err := NewFileWriter(samplePath, summaryPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := fw.WriteSummary(sum); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(samplePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var got []telemetry.SampleRow
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r telemetry.SampleRow
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decode sample: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 || got[1].RemainingPropellant != 80 || !got[1].Timestamp.Equal(rows[1].Timestamp) {
		t.Fatalf("unexpected samples: %#v", got)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var gotSum telemetry.SummaryRow
	if err := json.Unmarshal(data, &gotSum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if gotSum.Steps != 2 || gotSum.TotalImpulse != 100 {
		t.Fatalf("unexpected summary: %#v", gotSum)
	}
}

func TestFileWriterWithoutSummary(t *testing.T) {
	fw, err := NewFileWriter(filepath.Join(t.TempDir(), "s.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteSummary(telemetry.SummaryRow{}); err != nil {
		t.Fatalf("summary without file should be ignored: %v", err)
	}
}
