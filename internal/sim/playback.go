package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"flarepie/internal/telemetry"
)

// ReplayOptions controls ReplayLog.
type ReplayOptions struct {
	// Speed >0 paces rows by their simulated time divided by Speed.
	// Speed <= 0 replays without delay.
	Speed float64
	// RunID limits the replay to one run when set.
	RunID string
	// Summaries is an optional summary log written after the samples when the
	// writer also implements SummaryWriter.
	Summaries io.Reader
}

// ReplayStats reports what a replay wrote.
type ReplayStats struct {
	Runs      int `json:"runs"`
	Samples   int `json:"samples"`
	Summaries int `json:"summaries"`
}

// ReplayLog feeds sample rows from r back to writer. Rows of one run must
// have increasing steps. Pacing restarts at every new run.
func ReplayLog(ctx context.Context, r io.Reader, writer SampleWriter, opts ReplayOptions) (ReplayStats, error) {
	var stats ReplayStats
	seen := map[string]bool{}
	dec := json.NewDecoder(r)
	var prev *telemetry.SampleRow
	for {
		var row telemetry.SampleRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return stats, fmt.Errorf("decode sample %d: %w", stats.Samples, err)
		}
		if opts.RunID != "" && row.RunID != opts.RunID {
			continue
		}
		if prev != nil && prev.RunID == row.RunID {
			if row.Step <= prev.Step {
				return stats, fmt.Errorf("run %s: step %d follows step %d", row.RunID, row.Step, prev.Step)
			}
			if err := pace(ctx, row.TimeS-prev.TimeS, opts.Speed); err != nil {
				return stats, err
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := writer.Write(row); err != nil {
			return stats, err
		}
		if !seen[row.RunID] {
			seen[row.RunID] = true
			stats.Runs++
		}
		stats.Samples++
		prev = &row
	}

	sw, ok := writer.(SummaryWriter)
	if opts.Summaries == nil || !ok {
		return stats, nil
	}
	dec = json.NewDecoder(opts.Summaries)
	for {
		var row telemetry.SummaryRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("decode summary %d: %w", stats.Summaries, err)
		}
		if !seen[row.RunID] {
			continue
		}
		if err := sw.WriteSummary(row); err != nil {
			return stats, err
		}
		stats.Summaries++
	}
}

// ReplayLogFile replays the sample log at path together with its
// "<path>.summary" companion when one exists.
func ReplayLogFile(ctx context.Context, path string, writer SampleWriter, opts ReplayOptions) (ReplayStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReplayStats{}, err
	}
	defer f.Close()

	if opts.Summaries == nil {
		sf, err := os.Open(path + ".summary")
		switch {
		case err == nil:
			defer sf.Close()
			opts.Summaries = sf
		case !errors.Is(err, os.ErrNotExist):
			return ReplayStats{}, err
		}
	}
	return ReplayLog(ctx, f, writer, opts)
}

func pace(ctx context.Context, simSeconds, speed float64) error {
	if speed <= 0 || simSeconds <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(simSeconds / speed * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
