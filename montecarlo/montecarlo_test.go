package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tuneinsight/polyquad/poly"
	"github.com/tuneinsight/polyquad/utils"
)

const testSeed = "5f0a1c3e9b27d4468e13a0f2c7b95d61e8043fa2196bc7d05e4a83f1b62c9d70"

func testString(opname string, params Parameters, name string) string {
	return fmt.Sprintf("%s/method=%s/workers=%d/samples=%d/%s", opname, params.RootMethod(), params.Workers(), params.Samples(), name)
}

func newTestEstimator(t *testing.T, pl ParametersLiteral) *Estimator {
	params, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)
	return NewEstimator(params, zaptest.NewLogger(t))
}

func seededLiteral(samples, workers int) ParametersLiteral {
	pl := DefaultParametersLiteral()
	pl.Samples = samples
	pl.Workers = workers
	pl.Seed = testSeed
	return pl
}

func TestEstimateIntegral(t *testing.T) {

	t.Run("Constant", func(t *testing.T) {
		// Every sample is below the graph.
		estimate, err := EstimateIntegral([]float64{5}, 0, 2, 1000)
		require.NoError(t, err)
		require.InDelta(t, 10, estimate, 1e-12)
	})

	t.Run("Zero", func(t *testing.T) {
		for _, n := range []int{1, 1000} {
			estimate, err := EstimateIntegral([]float64{0}, -3, 7, n)
			require.NoError(t, err)
			require.Equal(t, 0.0, estimate)
		}
	})

	t.Run("Square", func(t *testing.T) {
		estimate, err := EstimateIntegral([]float64{0, 0, 1}, 0, 1, 100000)
		require.NoError(t, err)
		require.InDelta(t, 1.0/3, estimate, 0.01)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := EstimateIntegral([]float64{1}, 1, 1, 10)
		require.ErrorIs(t, err, ErrInvalidInterval)

		_, err = EstimateIntegral([]float64{1}, 2, 1, 10)
		require.ErrorIs(t, err, ErrInvalidInterval)

		_, err = EstimateIntegral([]float64{1}, math.NaN(), 1, 10)
		require.ErrorIs(t, err, ErrInvalidInterval)

		_, err = EstimateIntegral(nil, 0, 1, 10)
		require.ErrorIs(t, err, poly.ErrInvalidPolynomial)

		_, err = EstimateIntegral([]float64{1}, 0, 1, 0)
		require.ErrorIs(t, err, ErrInvalidSampleCount)

		_, err = EstimateIntegral([]float64{1}, 0, 1, -5)
		require.ErrorIs(t, err, ErrInvalidSampleCount)
	})
}

func TestEstimate(t *testing.T) {

	testCases := []struct {
		name   string
		coeffs []float64
		a, b   float64
	}{
		{"Constant", []float64{5}, 0, 2},
		{"NegativeConstant", []float64{-2}, -1, 3},
		{"Odd", []float64{0, 1}, -1, 1},
		{"Square", []float64{0, 0, 1}, 0, 1},
		{"x^2-4", []float64{-4, 0, 1}, 0, 3},
		{"-x+5", []float64{5, -1}, 0, 5},
		{"Cubic", []float64{0, -1, 0, 1}, -1.5, 2},
		{"Degree6", []float64{1, -3, 0, 2, 0, 0, -0.5}, -1, 1.5},
	}

	for _, method := range []string{"companion", "bracketing"} {

		for _, workers := range []int{1, 3} {

			pl := seededLiteral(200000, workers)
			pl.RootMethod = method
			estimator := newTestEstimator(t, pl)

			for _, tc := range testCases {

				t.Run(testString("Estimate", estimator.Parameters(), tc.name), func(t *testing.T) {

					p, err := poly.NewPolynomial(tc.coeffs)
					require.NoError(t, err)

					interval, err := NewInterval(tc.a, tc.b)
					require.NoError(t, err)

					res, err := estimator.Estimate(context.Background(), p, interval)
					require.NoError(t, err)

					require.False(t, res.Partial)
					require.Equal(t, 200000, res.Samples)
					require.Equal(t, testSeed, fmt.Sprintf("%x", res.Seed))
					require.LessOrEqual(t, res.Positive+res.Negative, res.Samples)

					// 6 standard errors, plus rounding for the exact cases.
					want := p.Integrate(tc.a, tc.b)
					require.InDelta(t, want, res.Estimate, 6*res.StdErr+1e-9, "exact: %v, estimate: %v, stderr: %v", want, res.Estimate, res.StdErr)
				})
			}
		}
	}

	t.Run("Reproducible", func(t *testing.T) {
		p, err := poly.NewPolynomial([]float64{-4, 0, 1})
		require.NoError(t, err)
		interval, err := NewInterval(0, 3)
		require.NoError(t, err)

		estimator := newTestEstimator(t, seededLiteral(10000, 4))

		res0, err := estimator.Estimate(context.Background(), p, interval)
		require.NoError(t, err)
		res1, err := estimator.Estimate(context.Background(), p, interval)
		require.NoError(t, err)
		require.Equal(t, res0, res1)

		other := newTestEstimator(t, seededLiteral(10000, 3))
		res2, err := other.Estimate(context.Background(), p, interval)
		require.NoError(t, err)
		require.Equal(t, res0.Rectangle, res2.Rectangle)
	})

	t.Run("RandomSeed", func(t *testing.T) {
		pl := DefaultParametersLiteral()
		pl.Samples = 1000
		estimator := newTestEstimator(t, pl)

		p, err := poly.NewPolynomial([]float64{1, 1})
		require.NoError(t, err)

		res0, err := estimator.Estimate(context.Background(), p, Interval{A: 0, B: 1})
		require.NoError(t, err)
		res1, err := estimator.Estimate(context.Background(), p, Interval{A: 0, B: 1})
		require.NoError(t, err)
		require.Len(t, res0.Seed, 32)
		require.NotEqual(t, res0.Seed, res1.Seed)
	})

	t.Run("MoreWorkersThanSamples", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(3, 8))
		p, err := poly.NewPolynomial([]float64{1, 1})
		require.NoError(t, err)
		res, err := estimator.Estimate(context.Background(), p, Interval{A: 0, B: 1})
		require.NoError(t, err)
		require.Equal(t, 3, res.Samples)
	})

	t.Run("Degenerate", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(1000, 2))
		p, err := poly.NewPolynomial([]float64{0, 0, 0})
		require.NoError(t, err)
		res, err := estimator.Estimate(context.Background(), p, Interval{A: -1, B: 1})
		require.NoError(t, err)
		require.Equal(t, 0.0, res.Estimate)
		require.Zero(t, res.Samples)
		require.Zero(t, res.Rectangle.Area())
	})

	t.Run("Canceled", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(1000000, 2))
		p, err := poly.NewPolynomial([]float64{0, 0, 1})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := estimator.Estimate(ctx, p, Interval{A: 0, B: 1})
		require.ErrorIs(t, err, context.Canceled)
		require.True(t, res.Partial)
		require.Zero(t, res.Samples)
		require.Equal(t, 0.0, res.Estimate)
		require.Equal(t, Rectangle{A: 0, B: 1, YMin: 0, YMax: 1}, res.Rectangle)
	})

	t.Run("InvalidInputs", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(10, 1))

		_, err := estimator.Estimate(context.Background(), poly.Polynomial{}, Interval{A: 0, B: 1})
		require.ErrorIs(t, err, poly.ErrInvalidPolynomial)

		p, err := poly.NewPolynomial([]float64{1})
		require.NoError(t, err)
		_, err = estimator.Estimate(context.Background(), p, Interval{A: 1, B: 0})
		require.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("ZeroParameters", func(t *testing.T) {
		estimator := NewEstimator(Parameters{}, nil)

		p, err := poly.NewPolynomial([]float64{5})
		require.NoError(t, err)

		res, err := estimator.Estimate(context.Background(), p, Interval{A: 0, B: 2})
		require.ErrorIs(t, err, ErrInvalidSampleCount)
		require.Zero(t, res.Samples)

		_, err = estimator.Repeat(context.Background(), p, Interval{A: 0, B: 2}, 3)
		require.ErrorIs(t, err, ErrInvalidSampleCount)
	})

	t.Run("ZeroWorkers", func(t *testing.T) {
		params, err := NewParametersFromLiteral(seededLiteral(1000, 1))
		require.NoError(t, err)
		params.workers = 0

		p, err := poly.NewPolynomial([]float64{5})
		require.NoError(t, err)

		res, err := NewEstimator(params, nil).Estimate(context.Background(), p, Interval{A: 0, B: 2})
		require.NoError(t, err)
		require.Equal(t, 1000, res.Samples)
		require.Equal(t, 10.0, res.Estimate)
	})
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		f, y float64
		want int
	}{
		{2, 1, 1},
		{2, 2, 1},
		{2, 0, 1},
		{0, 0, 1},
		{2, 3, 0},
		{2, -1, 0},
		{-2, -1, -1},
		{-2, -2, -1},
		{-2, 0, -1},
		{-2, -3, 0},
		{-2, 1, 0},
	} {
		require.Equal(t, tc.want, Classify(tc.f, tc.y), "f=%v y=%v", tc.f, tc.y)
	}
}

func TestRepeat(t *testing.T) {

	p, err := poly.NewPolynomial([]float64{0, 0, 1})
	require.NoError(t, err)
	interval := Interval{A: 0, B: 1}

	const runs = 200

	summaries := make([]Summary, 2)
	for i, samples := range []int{1000, 4000} {
		estimator := newTestEstimator(t, seededLiteral(samples, 1))
		summaries[i], err = estimator.Repeat(context.Background(), p, interval, runs)
		require.NoError(t, err)
		require.Equal(t, runs, summaries[i].Runs())
		require.Equal(t, samples, summaries[i].Samples)
		require.InDelta(t, 1.0/3, summaries[i].Mean, 0.005)
		require.LessOrEqual(t, summaries[i].Min, summaries[i].Median)
		require.LessOrEqual(t, summaries[i].Median, summaries[i].Max)

		// Theoretical standard deviation sqrt(p(1-p)/n) with p = 1/3.
		require.InEpsilon(t, math.Sqrt(2.0/9/float64(samples)), summaries[i].StdDev, 0.25)
	}

	// Quadrupling the number of samples halves the spread.
	ratio := summaries[0].StdDev / summaries[1].StdDev
	require.Greater(t, ratio, 1.5)
	require.Less(t, ratio, 2.6)

	t.Run("SingleRun", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(100, 1))
		s, err := estimator.Repeat(context.Background(), p, interval, 1)
		require.NoError(t, err)
		require.Zero(t, s.StdDev)
		require.Equal(t, s.Mean, s.Estimates[0])
	})

	t.Run("InvalidRuns", func(t *testing.T) {
		estimator := newTestEstimator(t, seededLiteral(100, 1))
		_, err := estimator.Repeat(context.Background(), p, interval, 0)
		require.ErrorIs(t, err, ErrInvalidParameters)
	})
}

func TestComputeRectangle(t *testing.T) {

	t.Run("x^2-4", func(t *testing.T) {
		rect, err := ComputeRectangle([]float64{-4, 0, 1}, 0, 3)
		require.NoError(t, err)
		require.Equal(t, Rectangle{A: 0, B: 3, YMin: -4, YMax: 5}, rect)
		require.Equal(t, 27.0, rect.Area())
	})

	t.Run("NonConvergence", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		pl := DefaultParametersLiteral()
		pl.RootMethod = poly.Bracketing.String()
		pl.Tolerance = 1e-15
		pl.MaxIterations = 1

		params, err := NewParametersFromLiteral(pl)
		require.NoError(t, err)

		estimator := NewEstimator(params, zap.New(core))

		// (x^2 - 1)(x^2 - 2.5x + 1), its stationary points cannot be polished in one iteration.
		p, err := poly.NewPolynomial([]float64{-1, 2.5, 0, -2.5, 1})
		require.NoError(t, err)

		rect, err := estimator.ComputeRectangle(p, Interval{A: -1.5, B: 2.5})
		require.NoError(t, err)
		require.True(t, rect.Contains(-1.5, 0))
		require.True(t, rect.Contains(2.5, 0))
		require.True(t, rect.Contains(-1.5, p.Evaluate(-1.5)))
		require.True(t, rect.Contains(2.5, p.Evaluate(2.5)))
		require.NotZero(t, logs.FilterMessage("dropped root candidates").Len())
	})

	t.Run("InteriorExtrema", func(t *testing.T) {
		// x^3 - x has a local maximum at -1/sqrt(3) and a local minimum at 1/sqrt(3).
		rect, err := ComputeRectangle([]float64{0, -1, 0, 1}, -0.9, 0.9)
		require.NoError(t, err)
		extremum := 2 / (3 * math.Sqrt(3))
		require.InDelta(t, -extremum, rect.YMin, 1e-12)
		require.InDelta(t, extremum, rect.YMax, 1e-12)
	})

	t.Run("Baseline", func(t *testing.T) {
		// Strictly positive polynomial, the rectangle still reaches the axis.
		rect, err := ComputeRectangle([]float64{2, 0, 1}, 1, 2)
		require.NoError(t, err)
		require.Equal(t, Rectangle{A: 1, B: 2, YMin: 0, YMax: 6}, rect)
	})

	t.Run("BoundaryStationaryPoint", func(t *testing.T) {
		// The maximum of 1 - (x-1)^2 is at 1, just outside [0, 1-1e-12].
		rect, err := ComputeRectangle([]float64{0, 2, -1}, 0, 1-1e-12)
		require.NoError(t, err)
		require.InDelta(t, 1, rect.YMax, 1e-15)
		require.Equal(t, 0.0, rect.YMin)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := ComputeRectangle([]float64{}, 0, 1)
		require.ErrorIs(t, err, poly.ErrInvalidPolynomial)
		_, err = ComputeRectangle([]float64{1}, 0, 0)
		require.ErrorIs(t, err, ErrInvalidInterval)
	})

	// Spot checks the enclosure on a dense grid for random polynomials.
	for _, method := range []string{"companion", "bracketing"} {

		pl := DefaultParametersLiteral()
		pl.RootMethod = method
		estimator := newTestEstimator(t, pl)

		r := rand.New(rand.NewSource(2))

		for degree := 0; degree <= poly.MaxDegree; degree++ {

			t.Run(testString("ComputeRectangle", estimator.Parameters(), fmt.Sprintf("degree=%d", degree)), func(t *testing.T) {

				coeffs := make([]float64, degree+1)
				for i := range coeffs {
					coeffs[i] = 4*r.Float64() - 2
				}

				p, err := poly.NewPolynomial(coeffs)
				require.NoError(t, err)

				a := 3*r.Float64() - 2
				b := a + 0.1 + 2*r.Float64()

				rect, err := estimator.ComputeRectangle(p, Interval{A: a, B: b})
				require.NoError(t, err)

				require.LessOrEqual(t, rect.YMin, 0.0)
				require.GreaterOrEqual(t, rect.YMax, 0.0)

				slack := 1e-9 * math.Max(1, math.Max(-rect.YMin, rect.YMax))
				loose := Rectangle{A: rect.A, B: rect.B, YMin: rect.YMin - slack, YMax: rect.YMax + slack}

				const steps = 10000
				for i := 0; i <= steps; i++ {
					x := utils.Min(a+(b-a)*float64(i)/steps, b)
					y := p.Evaluate(x)
					require.True(t, loose.Contains(x, y), "P(%v) = %v outside of %v", x, y, rect)
				}
			})
		}
	}
}

func TestRectangle(t *testing.T) {
	rect := Rectangle{A: -1, B: 2, YMin: -0.5, YMax: 1.5}
	require.Equal(t, 3.0, rect.Width())
	require.Equal(t, 2.0, rect.Height())
	require.Equal(t, 6.0, rect.Area())
	require.True(t, rect.Contains(0, 0))
	require.True(t, rect.Contains(2, 1.5))
	require.False(t, rect.Contains(2.5, 0))
	require.Equal(t, "[-1, 2] x [-0.5, 1.5]", rect.String())
}

func TestInterval(t *testing.T) {
	interval, err := NewInterval(-1, 2)
	require.NoError(t, err)
	require.Equal(t, 3.0, interval.Width())

	_, err = NewInterval(2, 2)
	require.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(0, math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidInterval)
}
