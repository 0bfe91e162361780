package montecarlo

import (
	"bytes"
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/tuneinsight/polyquad/poly"
)

// Summary gathers the statistics of repeated independent estimates.
type Summary struct {
	// Estimates are the individual estimates, in run order.
	Estimates []float64

	// Samples is the number of samples per run.
	Samples int

	Mean, Median, StdDev, Min, Max float64

	// Seed is the seed from which the streams of all the runs were derived.
	Seed []byte
}

// Runs returns the number of runs.
func (s Summary) Runs() int {
	return len(s.Estimates)
}

// Repeat runs the given number of independent estimates of the integral of p
// over the interval and summarizes them. StdDev is the sample standard deviation
// of the estimates (zero for a single run), which decreases as 1/sqrt(Samples).
// Each run reads its own random streams, derived from the seed and the run index.
func (e *Estimator) Repeat(ctx context.Context, p poly.Polynomial, interval Interval, runs int) (s Summary, err error) {

	if runs <= 0 {
		return Summary{}, fmt.Errorf("cannot Repeat: %w: runs must be positive but is %d", ErrInvalidParameters, runs)
	}

	seed, err := e.seed()
	if err != nil {
		return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
	}

	s.Estimates = make([]float64, runs)
	s.Samples = e.params.Samples()
	s.Seed = bytes.Clone(seed)

	for run := 0; run < runs; run++ {

		var res Result
		if res, err = e.estimate(ctx, p, interval, seed, run); err != nil {
			return Summary{}, fmt.Errorf("cannot Repeat: run %d: %w", run, err)
		}

		s.Estimates[run] = res.Estimate
	}

	data := stats.Float64Data(s.Estimates)

	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
	}

	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
	}

	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
	}

	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
	}

	if runs > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, fmt.Errorf("cannot Repeat: %w", err)
		}
	}

	e.logger.Debug("repeated estimates",
		zap.Int("runs", runs),
		zap.Int("samples", s.Samples),
		zap.Float64("mean", s.Mean),
		zap.Float64("std_dev", s.StdDev))

	return s, nil
}
