package sim

import (
	"errors"
	"testing"

	"flarepie/internal/telemetry"
)

type recordingWriter struct {
	rows      []telemetry.SampleRow
	batches   int
	summaries []telemetry.SummaryRow
	admin     bool
	err       error
}

func (r *recordingWriter) Write(row telemetry.SampleRow) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *recordingWriter) WriteBatch(rows []telemetry.SampleRow) error {
	if r.err != nil {
		return r.err
	}
	r.batches++
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *recordingWriter) WriteSummary(row telemetry.SummaryRow) error {
	r.summaries = append(r.summaries, row)
	return nil
}

func (r *recordingWriter) SetAdminStatus(active bool) { r.admin = active }

// plainWriter only supports single-row writes.
type plainWriter struct{ rows int }

func (p *plainWriter) Write(telemetry.SampleRow) error { p.rows++; return nil }

func TestMultiWriterFanOut(t *testing.T) {
	a := &recordingWriter{}
	b := &plainWriter{}
	mw := NewMultiWriter(a, b)

	rows := []telemetry.SampleRow{{Step: 0}, {Step: 1}, {Step: 2}}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if a.batches != 1 || len(a.rows) != 3 {
		t.Fatalf("batch writer got %d batches, %d rows", a.batches, len(a.rows))
	}
	if b.rows != 3 {
		t.Fatalf("plain writer got %d rows, want 3", b.rows)
	}

	if err := mw.WriteSummary(telemetry.SummaryRow{RunID: "r"}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if len(a.summaries) != 1 {
		t.Fatalf("summary not forwarded")
	}

	mw.SetAdminStatus(true)
	if !a.admin {
		t.Fatalf("admin status not forwarded")
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingWriter{err: boom}
	b := &plainWriter{}
	mw := NewMultiWriter(a, b)
	if err := mw.Write(telemetry.SampleRow{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if b.rows != 0 {
		t.Fatalf("second writer should not be reached")
	}
}
