package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"flarepie/internal/telemetry"
)

// JSONStdoutWriter prints samples and summaries as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a sample row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.SampleRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteBatch outputs multiple sample rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary outputs the run summary in JSON format.
func (w *JSONStdoutWriter) WriteSummary(row telemetry.SummaryRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
