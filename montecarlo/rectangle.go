package montecarlo

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tuneinsight/polyquad/poly"
	"github.com/tuneinsight/polyquad/utils"
)

// Rectangle is the region [A, B] x [YMin, YMax] in which the samples are drawn.
// It always contains the horizontal axis: YMin <= 0 <= YMax.
type Rectangle struct {
	A, B       float64
	YMin, YMax float64
}

// Width returns B - A.
func (r Rectangle) Width() float64 {
	return r.B - r.A
}

// Height returns YMax - YMin.
func (r Rectangle) Height() float64 {
	return r.YMax - r.YMin
}

// Area returns the area of the rectangle. A zero area means that the
// polynomial is identically zero over [A, B].
func (r Rectangle) Area() float64 {
	return r.Width() * r.Height()
}

// Contains returns true if (x, y) is inside the closed rectangle.
func (r Rectangle) Contains(x, y float64) bool {
	return r.A <= x && x <= r.B && r.YMin <= y && y <= r.YMax
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%v, %v] x [%v, %v]", r.A, r.B, r.YMin, r.YMax)
}

// ComputeRectangle returns the smallest rectangle enclosing the graph of p over
// the interval and the horizontal axis.
//
// The extrema of p over [A, B] are attained either at A, B or at a stationary
// point of p inside the interval. The stationary points are the real roots of
// p' found by the estimator's root finder; roots within the boundary tolerance
// outside of the interval are clamped onto it.
func (e *Estimator) ComputeRectangle(p poly.Polynomial, interval Interval) (rect Rectangle, err error) {

	if p.Degree() < 0 {
		return Rectangle{}, fmt.Errorf("cannot ComputeRectangle: %w: empty coefficient sequence", poly.ErrInvalidPolynomial)
	}

	if err = interval.Validate(); err != nil {
		return Rectangle{}, fmt.Errorf("cannot ComputeRectangle: %w", err)
	}

	a, b := interval.A, interval.B

	delta := e.params.BoundaryTolerance() * math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	points := []float64{a, b}
	for _, x := range e.finder.FindRealRoots(p.Derivative()) {
		if a-delta <= x && x <= b+delta {
			points = append(points, utils.Clamp(x, a, b))
		}
	}

	values := make([]float64, len(points))
	for i := range points {
		values[i] = p.Evaluate(points[i])
	}

	rect = Rectangle{
		A:    a,
		B:    b,
		YMin: math.Min(0, utils.MinSlice(values)),
		YMax: math.Max(0, utils.MaxSlice(values)),
	}

	e.logger.Debug("computed enclosing rectangle",
		zap.Stringer("polynomial", p),
		zap.Float64s("critical_points", points),
		zap.Stringer("rectangle", rect))

	return
}
