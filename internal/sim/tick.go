package sim

import (
	"context"
	"fmt"
	"time"

	"flarepie/internal/burn"
	"flarepie/internal/logging"
	"flarepie/internal/metrics"
	"flarepie/internal/telemetry"
)

// Run steps the burn until the propellant is depleted or ctx is done, writing
// every sample and finally the run summary. Cancelling ctx aborts between
// steps; samples produced so far are flushed and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context) (burn.Summary, error) {
	log := logging.FromContext(ctx).With("run_id", r.gen.RunID, "engine", r.gen.Engine)
	log.Info("starting burn",
		"propellant", r.gen.Propellant,
		"exit_velocity", r.sim.ExitVelocity(),
		"expected_steps", r.sim.ExpectedSteps(),
		"tick_interval", r.tickInterval)

	var tick <-chan time.Time
	if r.tickInterval > 0 {
		ticker := time.NewTicker(r.tickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	batch := make([]telemetry.SampleRow, 0, r.batchSize)
	for r.sim.State() != burn.Depleted {
		if tick != nil {
			select {
			case <-ctx.Done():
				return r.abort(ctx, batch)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return r.abort(ctx, batch)
		}

		row, err := r.tick()
		if err != nil {
			return r.fail(ctx, err)
		}
		batch = append(batch, row)
		if len(batch) >= r.batchSize {
			if err := writeRows(r.writer, batch); err != nil {
				log.Error("write failed", "step", row.Step, "err", err)
				return r.fail(ctx, fmt.Errorf("write samples: %w", err))
			}
			batch = batch[:0]
		}
	}
	if err := writeRows(r.writer, batch); err != nil {
		log.Error("write failed", "err", err)
		return r.fail(ctx, fmt.Errorf("write samples: %w", err))
	}

	sum := burn.Summarize(r.sim, r.samples)
	if r.summaryWriter != nil {
		if err := r.summaryWriter.WriteSummary(r.gen.GenerateSummary(sum)); err != nil {
			log.Error("summary write failed", "err", err)
			return r.fail(ctx, fmt.Errorf("write summary: %w", err))
		}
	}
	r.finish(&sum, nil)
	metrics.ObserveRun(r.gen.Propellant, metrics.OutcomeDepleted)
	log.Info("propellant depleted", "steps", sum.Steps, "burn_time", sum.BurnTime, "total_impulse", sum.TotalImpulse)
	return sum, nil
}

// tick advances the simulator one step and records the resulting row.
func (r *Runner) tick() (telemetry.SampleRow, error) {
	sample, err := r.sim.Step()
	if err != nil {
		return telemetry.SampleRow{}, err
	}
	r.samples = append(r.samples, sample)
	row := r.gen.GenerateSample(sample)
	metrics.ObserveSample(r.gen.Engine, r.gen.Propellant, row.ThrustN, row.RemainingPropellant)
	r.record(row)
	return row, nil
}

func (r *Runner) abort(ctx context.Context, batch []telemetry.SampleRow) (burn.Summary, error) {
	log := logging.FromContext(ctx)
	if err := writeRows(r.writer, batch); err != nil {
		log.Error("write failed during abort", "err", err)
	}
	sum := burn.Summarize(r.sim, r.samples)
	r.finish(&sum, ctx.Err())
	metrics.ObserveRun(r.gen.Propellant, metrics.OutcomeAborted)
	log.Warn("burn aborted", "run_id", r.gen.RunID, "steps", sum.Steps, "remaining", r.sim.PropellantMass())
	return sum, ctx.Err()
}

func (r *Runner) fail(ctx context.Context, err error) (burn.Summary, error) {
	r.finish(nil, err)
	metrics.ObserveRun(r.gen.Propellant, metrics.OutcomeFailed)
	logging.FromContext(ctx).Error("burn failed", "run_id", r.gen.RunID, "err", err)
	return burn.Summary{}, err
}
