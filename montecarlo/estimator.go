package montecarlo

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/polyquad/poly"
	"github.com/tuneinsight/polyquad/utils"
	"github.com/tuneinsight/polyquad/utils/sampling"
)

// checkInterval is the number of samples between two checks of the context.
// It must be a power of two.
const checkInterval = 1024

// Estimator estimates integrals of polynomials by Monte Carlo sampling.
// An Estimator holds no state between calls and can be used concurrently.
type Estimator struct {
	params Parameters
	finder *poly.RootFinder
	logger *zap.Logger
}

// Result is the outcome of an estimate.
type Result struct {
	// Estimate is the estimated value of the integral.
	Estimate float64

	// StdErr is the estimated standard error of Estimate.
	StdErr float64

	// Rectangle is the region in which the samples were drawn.
	Rectangle Rectangle

	// Samples is the number of samples actually drawn. It is zero when the
	// rectangle is degenerate and lower than requested when Partial is true.
	Samples int

	// Positive and Negative count the samples that contributed +1 and -1.
	Positive, Negative int

	// Seed is the seed from which the sampling streams were derived.
	Seed []byte

	// Partial is true if the sampling was interrupted.
	Partial bool
}

// Hits returns the sum of the signed contributions of the samples.
func (r Result) Hits() int {
	return r.Positive - r.Negative
}

// counter accumulates the contributions of the samples of one worker.
type counter struct {
	samples, positive, negative int
}

// NewEstimator creates a new Estimator. A nil logger disables logging.
func NewEstimator(params Parameters, logger *zap.Logger) *Estimator {

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Estimator{
		params: params,
		finder: poly.NewRootFinder(params.RootFinderParameters(), logger),
		logger: logger,
	}
}

// Parameters returns the parameters of the estimator.
func (e *Estimator) Parameters() Parameters {
	return e.params
}

// Classify returns the signed contribution of the sample (x, y) given f = P(x):
// +1 if 0 <= y <= f, -1 if f <= y <= 0 and 0 otherwise.
func Classify(f, y float64) int {
	switch {
	case 0 <= y && y <= f:
		return 1
	case f <= y && y <= 0:
		return -1
	default:
		return 0
	}
}

// Estimate estimates the integral of p over the interval with Parameters.Samples() samples.
//
// If the enclosing rectangle has a zero area, the estimate is exactly zero and
// no sample is drawn. Otherwise the samples are split among Parameters.Workers()
// goroutines, each reading its own keyed random stream derived from the seed.
//
// The sampling checks ctx regularly. If ctx is done before all the samples are
// drawn, Estimate returns the Result computed over the samples drawn so far,
// with Partial set to true, along with the error of ctx.
func (e *Estimator) Estimate(ctx context.Context, p poly.Polynomial, interval Interval) (res Result, err error) {

	seed, err := e.seed()
	if err != nil {
		return Result{}, fmt.Errorf("cannot Estimate: %w", err)
	}

	return e.estimate(ctx, p, interval, seed, 0)
}

func (e *Estimator) seed() ([]byte, error) {

	if seed := e.params.Seed(); seed != nil {
		return seed, nil
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, err
	}

	return sampling.NewSeed(prng)
}

func (e *Estimator) estimate(ctx context.Context, p poly.Polynomial, interval Interval, seed []byte, run int) (res Result, err error) {

	n := e.params.Samples()
	if n <= 0 {
		return Result{}, fmt.Errorf("cannot Estimate: %w: %d", ErrInvalidSampleCount, n)
	}

	if p.Degree() > poly.MaxDegree {
		e.logger.Warn("polynomial degree above the supported maximum",
			zap.Int("degree", p.Degree()),
			zap.Int("max_degree", poly.MaxDegree))
	}

	if res.Rectangle, err = e.ComputeRectangle(p, interval); err != nil {
		return Result{}, fmt.Errorf("cannot Estimate: %w", err)
	}

	res.Seed = bytes.Clone(seed)

	area := res.Rectangle.Area()

	if area == 0 {
		return res, nil
	}

	workers := utils.Min(utils.Max(e.params.Workers(), 1), n)
	counters := make([]counter, workers)

	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		w := w

		// Contiguous chunks, the first n%workers ones hold one more sample.
		size := n / workers
		if w < n%workers {
			size++
		}

		g.Go(func() error {

			prng, err := sampling.NewStreamPRNG(seed, run, w)
			if err != nil {
				return err
			}

			return sampleChunk(gctx, p, res.Rectangle, sampling.NewUniformSampler(prng), size, &counters[w])
		})
	}

	err = g.Wait()

	for _, c := range counters {
		res.Samples += c.samples
		res.Positive += c.positive
		res.Negative += c.negative
	}

	res.finalize(area)

	if err != nil {
		res.Partial = true
		e.logger.Debug("sampling interrupted",
			zap.Int("drawn", res.Samples),
			zap.Int("requested", n),
			zap.Error(err))
		return res, fmt.Errorf("cannot Estimate: %w", err)
	}

	return res, nil
}

// finalize sets the estimate and its standard error from the counters.
func (r *Result) finalize(area float64) {

	if r.Samples == 0 {
		return
	}

	n := float64(r.Samples)

	// Mean and second moment of the contributions in {-1, 0, 1}
	mean := float64(r.Hits()) / n
	moment := float64(r.Positive+r.Negative) / n

	r.Estimate = mean * area
	r.StdErr = area * math.Sqrt(math.Max(moment-mean*mean, 0)/n)
}

// sampleChunk draws n samples in rect and accumulates their contributions in c.
// It returns the error of ctx if ctx is done before all the samples are drawn.
func sampleChunk(ctx context.Context, p poly.Polynomial, rect Rectangle, sampler *sampling.UniformSampler, n int, c *counter) error {

	for i := 0; i < n; i++ {

		if i&(checkInterval-1) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		x := sampler.Float64Range(rect.A, rect.B)
		y := sampler.Float64Range(rect.YMin, rect.YMax)

		switch Classify(p.Evaluate(x), y) {
		case 1:
			c.positive++
		case -1:
			c.negative++
		}

		c.samples++
	}

	return nil
}
