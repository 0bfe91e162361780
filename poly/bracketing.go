package poly

import (
	"math"
)

// bracketingRoots returns the real roots of p, of degree at least one and
// with a non-zero leading coefficient. The real line, bounded by the Cauchy
// bound of p, is split at the real roots of P' into pieces on which p is
// monotone. Each piece holds at most one root, found by safeNewton when p
// changes sign. Stationary points where p vanishes are the roots of even
// multiplicity. The second return value counts the dropped candidates.
func (rf *RootFinder) bracketingRoots(p Polynomial) (roots []float64, dropped int) {

	c := p.coeffs

	if p.Degree() == 1 {
		return []float64{-c[0] / c[1]}, 0
	}

	stationary, dropped := rf.findRealRoots(p.Derivative())

	bound := cauchyBound(p)

	points := make([]float64, 0, len(stationary)+2)
	points = append(points, -bound)
	for _, x := range stationary {
		if -bound < x && x < bound {
			points = append(points, x)
		}
	}
	points = append(points, bound)

	for i := 1; i < len(points)-1; i++ {
		if residual(p, points[i]) <= rf.Tolerance {
			roots = append(roots, points[i])
		}
	}

	for i := 0; i < len(points)-1; i++ {

		lo, hi := points[i], points[i+1]
		flo, fhi := p.Evaluate(lo), p.Evaluate(hi)

		if flo == 0 || fhi == 0 || math.Signbit(flo) == math.Signbit(fhi) {
			continue
		}

		if x, ok := rf.safeNewton(p, lo, hi, flo); ok {
			roots = append(roots, x)
		} else {
			dropped++
		}
	}

	return
}

// cauchyBound returns 1 + max |c[i]/c[n]|, a strict upper bound
// on the modulus of the roots of p.
func cauchyBound(p Polynomial) (bound float64) {
	c := p.coeffs
	n := len(c) - 1
	for i := 0; i < n; i++ {
		bound = math.Max(bound, math.Abs(c[i]/c[n]))
	}
	return 1 + bound
}

// safeNewton finds the root of p in the bracket [x1, x2], where p(x1) = f1 and
// p(x2) have opposite signs. It uses Newton's method, falling back on a
// bisection step whenever the Newton step leaves the bracket or does not
// shrink it fast enough, so that the bracket always contains the root.
func (rf *RootFinder) safeNewton(p Polynomial, x1, x2, f1 float64) (float64, bool) {

	// Orients the search such that p(xl) < 0 < p(xh)
	xl, xh := x1, x2
	if f1 > 0 {
		xl, xh = x2, x1
	}

	root := 0.5 * (x1 + x2)
	dxOld := math.Abs(x2 - x1)
	dx := dxOld

	f, df := p.EvaluateWithDerivative(root)

	for j := 0; j < rf.MaxIterations; j++ {

		if f == 0 {
			return root, true
		}

		if ((root-xh)*df-f)*((root-xl)*df-f) > 0 || math.Abs(2*f) > math.Abs(dxOld*df) {

			// Bisection
			dxOld = dx
			dx = 0.5 * (xh - xl)
			root = xl + dx
			if xl == root {
				return root, true
			}

		} else {

			// Newton
			dxOld = dx
			dx = f / df
			tmp := root
			root -= dx
			if tmp == root {
				return root, true
			}
		}

		if math.Abs(dx) <= rf.Tolerance*math.Max(1, math.Abs(root)) {
			return root, true
		}

		f, df = p.EvaluateWithDerivative(root)

		if f < 0 {
			xl = root
		} else {
			xh = root
		}
	}

	return root, false
}
