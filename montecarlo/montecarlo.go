// Package montecarlo estimates the definite integral of a real polynomial over
// an interval [a, b] by uniform sampling inside the smallest axis-aligned
// rectangle enclosing both the graph of the polynomial on [a, b] and the
// horizontal axis.
//
// Each sample (x, y) contributes +1 if it lies between the axis and a positive
// part of the graph (0 <= y <= P(x)), -1 if it lies between a negative part of
// the graph and the axis (P(x) <= y <= 0) and 0 otherwise, such that the mean
// contribution times the area of the rectangle is an unbiased estimate of the
// signed integral.
package montecarlo

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuneinsight/polyquad/poly"
)

var (
	// ErrInvalidInterval is returned when the bounds of an interval are not finite or when a >= b.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidSampleCount is returned when the number of samples is not positive.
	ErrInvalidSampleCount = errors.New("invalid sample count")

	// ErrInvalidParameters is returned when a ParametersLiteral cannot be turned into Parameters.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// EstimateIntegral estimates the integral of the polynomial of coefficients coeffs
// over [a, b] with n samples, using the default parameters and a random seed.
// It returns ErrInvalidSampleCount, poly.ErrInvalidPolynomial or ErrInvalidInterval
// on invalid inputs.
func EstimateIntegral(coeffs []float64, a, b float64, n int) (float64, error) {

	if n <= 0 {
		return 0, fmt.Errorf("cannot EstimateIntegral: %w: %d", ErrInvalidSampleCount, n)
	}

	p, err := poly.NewPolynomial(coeffs)
	if err != nil {
		return 0, fmt.Errorf("cannot EstimateIntegral: %w", err)
	}

	interval, err := NewInterval(a, b)
	if err != nil {
		return 0, fmt.Errorf("cannot EstimateIntegral: %w", err)
	}

	pl := DefaultParametersLiteral()
	pl.Samples = n

	params, err := NewParametersFromLiteral(pl)
	if err != nil {
		return 0, fmt.Errorf("cannot EstimateIntegral: %w", err)
	}

	res, err := NewEstimator(params, nil).Estimate(context.Background(), p, interval)
	if err != nil {
		return 0, fmt.Errorf("cannot EstimateIntegral: %w", err)
	}

	return res.Estimate, nil
}

// ComputeRectangle returns the enclosing rectangle of the polynomial of
// coefficients coeffs over [a, b], using the default parameters.
func ComputeRectangle(coeffs []float64, a, b float64) (Rectangle, error) {

	p, err := poly.NewPolynomial(coeffs)
	if err != nil {
		return Rectangle{}, fmt.Errorf("cannot ComputeRectangle: %w", err)
	}

	interval, err := NewInterval(a, b)
	if err != nil {
		return Rectangle{}, fmt.Errorf("cannot ComputeRectangle: %w", err)
	}

	params, err := NewParametersFromLiteral(DefaultParametersLiteral())
	if err != nil {
		return Rectangle{}, fmt.Errorf("cannot ComputeRectangle: %w", err)
	}

	return NewEstimator(params, nil).ComputeRectangle(p, interval)
}
