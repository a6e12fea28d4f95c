package sim

import "flarepie/internal/telemetry"

// SampleWriter is an interface to support different output writers.
type SampleWriter interface {
	Write(telemetry.SampleRow) error
}

// SummaryWriter handles the row written once a run is depleted.
type SummaryWriter interface {
	WriteSummary(telemetry.SummaryRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.SampleRow) error
}

// writeRows writes rows using batch mode when w supports it.
func writeRows(w SampleWriter, rows []telemetry.SampleRow) error {
	if len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
