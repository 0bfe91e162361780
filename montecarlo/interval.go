package montecarlo

import (
	"fmt"
	"math"
)

// Interval is the integration domain [A, B], with A < B.
type Interval struct {
	A, B float64
}

// NewInterval creates a new Interval [a, b].
// It returns ErrInvalidInterval if a >= b or if a bound is not finite.
func NewInterval(a, b float64) (Interval, error) {
	interval := Interval{A: a, B: b}
	if err := interval.Validate(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

// Validate returns ErrInvalidInterval if A >= B or if a bound is not finite.
func (i Interval) Validate() error {
	switch {
	case math.IsNaN(i.A) || math.IsInf(i.A, 0) || math.IsNaN(i.B) || math.IsInf(i.B, 0):
		return fmt.Errorf("%w: bounds must be finite but [a, b] = [%v, %v]", ErrInvalidInterval, i.A, i.B)
	case i.A >= i.B:
		return fmt.Errorf("%w: a < b is required but a = %v, b = %v", ErrInvalidInterval, i.A, i.B)
	}
	return nil
}

// Width returns B - A.
func (i Interval) Width() float64 {
	return i.B - i.A
}
