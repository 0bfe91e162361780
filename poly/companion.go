package poly

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// companionRoots returns the real roots of p, of degree at least one
// and with a non-zero leading coefficient, as the real eigenvalues of its
// companion matrix. The second return value counts the dropped candidates.
func (rf *RootFinder) companionRoots(p Polynomial) (roots []float64, dropped int) {

	c := p.coeffs
	n := p.Degree()

	if n == 1 {
		return []float64{-c[0] / c[1]}, 0
	}

	eigenvalues, ok := companionEigenvalues(c)
	if !ok {
		return nil, n
	}

	imagTolerance := math.Sqrt(rf.Tolerance)

	for _, z := range eigenvalues {

		if math.Abs(imag(z)) > imagTolerance*math.Max(1, cmplx.Abs(z)) {
			continue
		}

		if x, ok := rf.polish(p, real(z)); ok {
			roots = append(roots, x)
		} else {
			dropped++
		}
	}

	return
}

// newCompanionMatrix returns the upper Hessenberg companion matrix of the
// polynomial of coefficients c, whose eigenvalues are the roots of the polynomial.
//
//	| -c[n-1]/c[n] -c[n-2]/c[n] ... -c[0]/c[n] |
//	|      1            0       ...      0     |
//	|      0            1       ...      0     |
//	|                       ...                |
func newCompanionMatrix(c []float64) *mat.Dense {
	n := len(c) - 1

	m := mat.NewDense(n, n, nil)

	for j := 0; j < n; j++ {
		m.Set(0, j, -c[n-1-j]/c[n])
	}

	for i := 1; i < n; i++ {
		m.Set(i, i-1, 1)
	}

	return m
}

// companionEigenvalues returns the eigenvalues of the companion matrix of the
// polynomial of coefficients c, that is, its complex roots. The matrix is
// balanced before the QR iteration. It returns false if the factorization
// does not converge.
func companionEigenvalues(c []float64) (eigenvalues []complex128, ok bool) {
	var eig mat.Eigen
	if ok = eig.Factorize(newCompanionMatrix(c), mat.EigenNone); !ok {
		return nil, false
	}
	return eig.Values(nil), true
}
