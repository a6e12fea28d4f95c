package sim

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"flarepie/internal/telemetry"
)

var csvHeader = []string{"run_id", "step", "time_s", "thrust_n", "remaining_propellant_kg", "total_mass_kg", "mass_used_kg", "ts"}

// CSVWriter writes sample rows as CSV with a header line.
type CSVWriter struct {
	w             *csv.Writer
	headerWritten bool
}

// NewCSVWriter creates a CSVWriter on out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(out)}
}

// Write appends one sample row.
func (c *CSVWriter) Write(row telemetry.SampleRow) error {
	if err := c.writeRow(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// WriteBatch appends rows and flushes once.
func (c *CSVWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		if err := c.writeRow(r); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) writeRow(row telemetry.SampleRow) error {
	if !c.headerWritten {
		if err := c.w.Write(csvHeader); err != nil {
			return err
		}
		c.headerWritten = true
	}
	return c.w.Write([]string{
		row.RunID,
		strconv.Itoa(row.Step),
		formatFloat(row.TimeS),
		formatFloat(row.ThrustN),
		formatFloat(row.RemainingPropellant),
		formatFloat(row.TotalMass),
		formatFloat(row.MassUsed),
		row.Timestamp.Format(time.RFC3339Nano),
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
