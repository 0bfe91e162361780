package bignum

import (
	"math/big"
)

// MonomialEval evaluates y = sum x^i * poly[i] with Horner's scheme.
// The precision of x is used as reference precision for y.
func MonomialEval(x *big.Float, poly []*big.Float) (y *big.Float) {

	n := len(poly)

	y = new(big.Float).SetPrec(x.Prec())

	if n == 0 {
		return
	}

	y.Set(poly[n-1])
	for i := n - 2; i >= 0; i-- {
		y.Mul(y, x)
		if poly[i] != nil {
			y.Add(y, poly[i])
		}
	}
	return
}

// MonomialEvalFloat64 evaluates y = sum x^i * poly[i] with prec bits of precision
// and returns the result as a *big.Float.
func MonomialEvalFloat64(x float64, poly []float64, prec uint) (y *big.Float) {
	coeffs := make([]*big.Float, len(poly))
	for i := range poly {
		coeffs[i] = NewFloat(poly[i], prec)
	}
	return MonomialEval(NewFloat(x, prec), coeffs)
}
