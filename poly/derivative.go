package poly

import (
	"github.com/tuneinsight/polyquad/utils/bignum"
)

// integrationPrecision is the bit precision of the exact integral.
const integrationPrecision = 128

// Derivative returns the coefficients of P'(x) given the coefficients of P(x).
// The derivative of a constant is the zero polynomial [0].
func Derivative(coeffs []float64) (derivative []float64) {

	degree := len(coeffs) - 1

	if degree < 1 {
		return []float64{0}
	}

	derivative = make([]float64, degree)
	for i := 1; i <= degree; i++ {
		derivative[i-1] = coeffs[i] * float64(i)
	}

	return
}

// Derivative returns P'(x).
func (p Polynomial) Derivative() Polynomial {
	return Polynomial{coeffs: Derivative(p.coeffs)}
}

// Antiderivative returns the primitive F of P with F(0) = 0.
func (p Polynomial) Antiderivative() Polynomial {
	coeffs := make([]float64, len(p.coeffs)+1)
	for i, c := range p.coeffs {
		coeffs[i+1] = c / float64(i+1)
	}
	return Polynomial{coeffs: coeffs}
}

// Integrate returns the exact value of the integral of P over [a, b],
// i.e. F(b) - F(a) with F the antiderivative of P. Both evaluations are
// carried with 128 bits of precision before the subtraction, such that the
// result is correct up to the rounding of the coefficients of F.
func (p Polynomial) Integrate(a, b float64) float64 {
	F := p.Antiderivative().coeffs
	Fb := bignum.MonomialEvalFloat64(b, F, integrationPrecision)
	Fa := bignum.MonomialEvalFloat64(a, F, integrationPrecision)
	r, _ := Fb.Sub(Fb, Fa).Float64()
	return r
}
