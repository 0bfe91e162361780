package poly

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/tuneinsight/polyquad/utils"
)

// Method is the numerical method used by a RootFinder.
type Method int

const (
	// Companion computes the roots as the eigenvalues of the balanced
	// companion matrix, then polishes the real ones with Newton's method.
	Companion = Method(0)
	// Bracketing isolates the real roots between consecutive stationary
	// points, found recursively, and solves each bracket with Newton's
	// method safeguarded by bisection.
	Bracketing = Method(1)
)

const (
	// DefaultTolerance is the default root acceptance tolerance.
	DefaultTolerance = 1e-9
	// DefaultMaxIterations is the default iteration budget of the root polishing.
	DefaultMaxIterations = 100
)

// String returns the name of the method.
func (m Method) String() string {
	switch m {
	case Companion:
		return "companion"
	case Bracketing:
		return "bracketing"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the Method whose name is s (case insensitive).
// The empty string maps to Companion.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "", "companion":
		return Companion, nil
	case "bracketing":
		return Bracketing, nil
	default:
		return 0, fmt.Errorf("invalid root finding method: want companion or bracketing but have %q", s)
	}
}

// RootFinderParameters configures a RootFinder.
// Zero values are substituted by the defaults.
type RootFinderParameters struct {
	// Method is the root finding method.
	Method Method

	// Tolerance is the root acceptance tolerance ε: a candidate x is a root if
	// Newton's correction falls below ε*max(1, |x|) or if |P(x)| <= ε * sum |c[i]||x|^i.
	// Eigenvalues whose imaginary part is below sqrt(ε)*max(1, |z|) are real candidates,
	// and roots closer than sqrt(ε)*max(1, |x|) are merged.
	Tolerance float64

	// MaxIterations is the iteration budget of the polishing of each candidate.
	MaxIterations int
}

// RootFinder finds the real roots of polynomials.
// A RootFinder holds no state between calls and can be used concurrently.
type RootFinder struct {
	RootFinderParameters
	logger *zap.Logger
}

// NewRootFinder creates a new RootFinder. A nil logger disables logging.
func NewRootFinder(params RootFinderParameters, logger *zap.Logger) *RootFinder {

	if params.Tolerance <= 0 {
		params.Tolerance = DefaultTolerance
	}

	if params.MaxIterations <= 0 {
		params.MaxIterations = DefaultMaxIterations
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RootFinder{
		RootFinderParameters: params,
		logger:               logger,
	}
}

// FindRealRoots returns the real roots of the polynomial defined by coeffs
// with the default parameters. See RootFinder.FindRealRoots.
func FindRealRoots(coeffs []float64) []float64 {
	return NewRootFinder(RootFinderParameters{}, nil).FindRealRoots(Polynomial{coeffs: coeffs})
}

// FindRealRoots returns the real roots of p sorted in ascending order, each
// reported once. Complex roots are discarded. The zero polynomial and the
// non-zero constants have no roots.
//
// Candidates for which the polishing does not converge are dropped instead
// of failing the whole computation. The caller may therefore miss a root;
// when the roots are used as stationary points, this can only shrink the
// computed range of the polynomial.
func (rf *RootFinder) FindRealRoots(p Polynomial) (roots []float64) {
	var dropped int
	roots, dropped = rf.findRealRoots(p)

	if dropped != 0 {
		rf.logger.Debug("dropped root candidates",
			zap.Stringer("polynomial", p),
			zap.Stringer("method", rf.Method),
			zap.Int("dropped", dropped))
	}

	return
}

func (rf *RootFinder) findRealRoots(p Polynomial) (roots []float64, dropped int) {

	p = p.Trim()

	if p.Degree() < 1 {
		return []float64{}, 0
	}

	// Factors out x^k
	c := p.coeffs
	k := 0
	for c[k] == 0 {
		k++
	}

	roots = []float64{}

	if k != 0 {
		roots = append(roots, 0)
	}

	q := Polynomial{coeffs: c[k:]}

	if q.Degree() >= 1 {

		var candidates []float64

		switch rf.Method {
		case Companion:
			candidates, dropped = rf.companionRoots(q)
		case Bracketing:
			candidates, dropped = rf.bracketingRoots(q)
		default:
			panic(fmt.Sprintf("invalid root finding method: %v", rf.Method))
		}

		roots = append(roots, candidates...)
	}

	utils.SortSlice(roots)

	merge := math.Sqrt(rf.Tolerance)
	roots = utils.CompactFunc(roots, func(a, b float64) bool {
		return b-a <= merge*math.Max(1, math.Abs(a))
	})

	return
}

// residual returns |P(x)| relative to the magnitude of its terms.
func residual(p Polynomial, x float64) float64 {
	y := math.Abs(p.Evaluate(x))
	if y == 0 {
		return 0
	}
	return y / p.AbsEvaluate(x)
}

// polish refines the root candidate x0 with Newton's method.
// It returns the refined root and true if either the Newton correction
// converged or the relative residual of the best iterate is within tolerance.
func (rf *RootFinder) polish(p Polynomial, x0 float64) (x float64, ok bool) {

	best, bestRes := x0, residual(p, x0)

	x = x0
	for i := 0; i < rf.MaxIterations; i++ {

		y, dy := p.EvaluateWithDerivative(x)

		if y == 0 {
			return x, true
		}

		if dy == 0 {
			break
		}

		dx := y / dy
		x -= dx

		if math.IsNaN(x) || math.IsInf(x, 0) {
			break
		}

		if math.Abs(dx) <= rf.Tolerance*math.Max(1, math.Abs(x)) {
			return x, true
		}

		if r := residual(p, x); r < bestRes {
			best, bestRes = x, r
		}
	}

	if bestRes <= rf.Tolerance {
		return best, true
	}

	return 0, false
}
