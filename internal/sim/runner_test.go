package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"flarepie/internal/burn"
	"flarepie/internal/config"
)

func smallEngine() *config.Engine {
	cfg := config.Default()
	cfg.Name = "test"
	cfg.TotalMassKg = 150
	cfg.PropellantMassKg = 100
	cfg.MassFlowRateKgs = 10
	cfg.TimestepS = 1
	return &cfg
}

func TestRunnerFast(t *testing.T) {
	w := &recordingWriter{}
	r, err := NewRunner(smallEngine(), w, 0)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(w.rows) != 10 {
		t.Fatalf("rows = %d, want 10", len(w.rows))
	}
	if w.batches != 1 {
		t.Fatalf("fast mode should write one batch, got %d", w.batches)
	}
	last := w.rows[len(w.rows)-1]
	if last.RemainingPropellant != 0 || last.RunID != r.RunID() || last.Propellant != "RP1" {
		t.Fatalf("unexpected last row: %#v", last)
	}
	if sum.Steps != 10 || sum.BurnTime != 10 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(w.summaries) != 1 || w.summaries[0].RunID != r.RunID() {
		t.Fatalf("summary row not written")
	}
	st := r.Status()
	if st.State != burn.Depleted.String() || st.Steps != 10 || st.Summary == nil || st.Error != "" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestRunnerTicker(t *testing.T) {
	cfg := smallEngine()
	cfg.PropellantMassKg = 30
	w := &recordingWriter{}
	r, err := NewRunner(cfg, w, time.Millisecond)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(w.rows) != 3 || w.batches != 3 {
		t.Fatalf("ticker mode: rows=%d batches=%d, want 3/3", len(w.rows), w.batches)
	}
	for i, row := range w.rows {
		if want := time.Duration(i) * time.Second; row.Timestamp.Sub(w.rows[0].Timestamp) != want {
			t.Fatalf("row %d timestamp offset = %v, want %v", i, row.Timestamp.Sub(w.rows[0].Timestamp), want)
		}
	}
}

func TestRunnerCancel(t *testing.T) {
	w := &recordingWriter{}
	r, err := NewRunner(smallEngine(), w, time.Hour)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(w.rows) != 0 || len(w.summaries) != 0 {
		t.Fatalf("cancelled run should not emit rows or a summary")
	}
	st := r.Status()
	if st.State != burn.Configured.String() || st.Error == "" {
		t.Fatalf("unexpected status after cancel: %+v", st)
	}
}

func TestRunnerWriteError(t *testing.T) {
	boom := errors.New("disk full")
	r, err := NewRunner(smallEngine(), &recordingWriter{err: boom}, 0)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if r.Status().Error == "" {
		t.Fatalf("status should carry the error")
	}
}

func TestNewRunnerInvalidConfig(t *testing.T) {
	cfg := smallEngine()
	cfg.MassFlowRateKgs = 0
	if _, err := NewRunner(cfg, &recordingWriter{}, 0); !errors.Is(err, burn.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunnerAdminStatus(t *testing.T) {
	w := &recordingWriter{}
	r, err := NewRunner(smallEngine(), w, 0)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	r.SetAdminStatus(true)
	if !w.admin {
		t.Fatalf("admin status not forwarded")
	}
}
