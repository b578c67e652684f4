package animation

import "math"

// Curve maps linear time in [0, 1] to eased progress in [0, 1].
type Curve func(float64) float64

// Linear leaves time unchanged.
func Linear(t float64) float64 {
	return clampUnit(t)
}

// Bezier is a CSS-style cubic-bezier timing function anchored at (0,0) and (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// Ease is the CSS "ease" curve.
var Ease = Bezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1}

// Curve returns the timing function for bezier.
func (bezier Bezier) Curve() Curve {
	return bezier.At
}

// At returns the eased value at time t.
func (bezier Bezier) At(t float64) float64 {
	t = clampUnit(t)
	if t == 0 || t == 1 {
		return t
	}
	return sample(bezier.Y1, bezier.Y2, bezier.solveX(t))
}

// solveX finds the curve parameter whose x equals target.
func (bezier Bezier) solveX(target float64) float64 {
	param := target
	for iter := 0; iter < 8; iter++ {
		delta := sample(bezier.X1, bezier.X2, param) - target
		if math.Abs(delta) < 1e-6 {
			return param
		}
		slope := slopeAt(bezier.X1, bezier.X2, param)
		if math.Abs(slope) < 1e-6 {
			break
		}
		param -= delta / slope
	}

	low, high := 0.0, 1.0
	param = target
	for high-low > 1e-7 {
		if sample(bezier.X1, bezier.X2, param) < target {
			low = param
		} else {
			high = param
		}
		param = (low + high) / 2
	}
	return param
}

func sample(p1, p2, t float64) float64 {
	inverse := 1 - t
	return 3*inverse*inverse*t*p1 + 3*inverse*t*t*p2 + t*t*t
}

func slopeAt(p1, p2, t float64) float64 {
	inverse := 1 - t
	return 3*inverse*inverse*p1 + 6*inverse*t*(p2-p1) + 3*t*t*(1-p2)
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
