// Package poly implements real polynomials in the monomial basis: evaluation,
// differentiation, exact integration and the search of real roots.
package poly

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDegree is the largest degree callers are expected to submit.
// Above it the numerical routines still run, but root finding degrades.
const MaxDegree = 20

// ErrInvalidPolynomial is returned when a coefficient sequence is empty or
// holds a non-finite value.
var ErrInvalidPolynomial = errors.New("invalid polynomial")

// Polynomial is a real polynomial c[0] + c[1]x + ... + c[n]x^n.
// A Polynomial is immutable: every transformation returns a new value.
type Polynomial struct {
	coeffs []float64
}

// NewPolynomial creates a new Polynomial from a copy of coeffs,
// where coeffs[i] is the coefficient of x^i.
// It returns ErrInvalidPolynomial if coeffs is empty or contains NaN or Inf.
func NewPolynomial(coeffs []float64) (p Polynomial, err error) {
	if len(coeffs) == 0 {
		return Polynomial{}, fmt.Errorf("cannot NewPolynomial: %w: empty coefficient sequence", ErrInvalidPolynomial)
	}

	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Polynomial{}, fmt.Errorf("cannot NewPolynomial: %w: coefficient %d is %v", ErrInvalidPolynomial, i, c)
		}
	}

	p.coeffs = make([]float64, len(coeffs))
	copy(p.coeffs, coeffs)
	return
}

// Coeffs returns a copy of the coefficients of the polynomial.
func (p Polynomial) Coeffs() (coeffs []float64) {
	coeffs = make([]float64, len(p.coeffs))
	copy(coeffs, p.coeffs)
	return
}

// Degree returns the degree of the polynomial, i.e. the number of coefficients minus one.
// Zero high coefficients are counted, see Trim.
func (p Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Trim returns the polynomial without its zero high coefficients.
// The zero polynomial is returned as [0].
func (p Polynomial) Trim() Polynomial {
	n := len(p.coeffs)
	for n > 1 && p.coeffs[n-1] == 0 {
		n--
	}

	if n == 0 {
		return Polynomial{coeffs: []float64{0}}
	}

	coeffs := make([]float64, n)
	copy(coeffs, p.coeffs[:n])
	return Polynomial{coeffs: coeffs}
}

// IsZero returns true if all the coefficients are zero.
func (p Polynomial) IsZero() bool {
	for _, c := range p.coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

// Evaluate returns P(x).
func (p Polynomial) Evaluate(x float64) float64 {
	return Evaluate(p.coeffs, x)
}

// EvaluateWithDerivative returns P(x) and P'(x) computed in a single Horner pass.
func (p Polynomial) EvaluateWithDerivative(x float64) (y, dy float64) {
	n := len(p.coeffs)
	if n == 0 {
		return
	}

	y = p.coeffs[n-1]
	for i := n - 2; i >= 0; i-- {
		dy = dy*x + y
		y = y*x + p.coeffs[i]
	}
	return
}

// AbsEvaluate returns sum |c[i]| * |x|^i, the magnitude against which
// the rounding error of Evaluate(x) is measured.
func (p Polynomial) AbsEvaluate(x float64) (y float64) {
	x = math.Abs(x)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		y = y*x + math.Abs(p.coeffs[i])
	}
	return
}

// Evaluate returns sum coeffs[i] * x^i with Horner's scheme,
// from the highest degree coefficient down to the constant.
// An empty coefficient sequence evaluates to zero.
func Evaluate(coeffs []float64, x float64) (y float64) {
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}
	return
}

// String returns a human readable representation of the polynomial,
// e.g. "1 + 2x - 3x^2".
func (p Polynomial) String() string {
	var sb strings.Builder

	for i, c := range p.coeffs {
		if c == 0 {
			continue
		}

		abs := strconv.FormatFloat(math.Abs(c), 'g', -1, 64)

		switch {
		case sb.Len() == 0 && c < 0:
			sb.WriteString("-")
		case sb.Len() != 0 && c < 0:
			sb.WriteString(" - ")
		case sb.Len() != 0:
			sb.WriteString(" + ")
		}

		if abs != "1" || i == 0 {
			sb.WriteString(abs)
		}

		switch i {
		case 0:
		case 1:
			sb.WriteString("x")
		default:
			sb.WriteString("x^")
			sb.WriteString(strconv.Itoa(i))
		}
	}

	if sb.Len() == 0 {
		return "0"
	}

	return sb.String()
}
