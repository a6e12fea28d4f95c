package sim

import "flarepie/internal/telemetry"

// MultiWriter fan-outs sample and summary rows to multiple writers.
type MultiWriter struct {
	writers []SampleWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...SampleWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a sample row to all writers.
func (mw *MultiWriter) Write(row telemetry.SampleRow) error {
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple sample rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, w := range mw.writers {
		if err := writeRows(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary sends the summary to every writer that accepts one.
func (mw *MultiWriter) WriteSummary(row telemetry.SummaryRow) error {
	for _, w := range mw.writers {
		if sw, ok := w.(SummaryWriter); ok {
			if err := sw.WriteSummary(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetAdminStatus forwards the admin status to writers that display it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
