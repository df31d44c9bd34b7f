package stability

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

const defaultStep = 1e-6

// NumericJacobian approximates the Jacobian of a 2D field at x with central
// differences.
func NumericJacobian(f dynamo.Field, x dynamo.State, t float64) dynamo.Matrix2 {
	col := func(i int) dynamo.State {
		h := defaultStep * math.Max(1, math.Abs(x[i]))
		plus, minus := x.Clone(), x.Clone()
		plus[i] += h
		minus[i] -= h
		return f(plus, t).Sub(f(minus, t)).Scale(1 / (2 * h))
	}
	c0, c1 := col(0), col(1)
	return dynamo.Matrix2{A: c0[0], B: c1[0], C: c0[1], D: c1[1]}
}

// NumericDerivative is the 1D counterpart of NumericJacobian.
func NumericDerivative(f func(float64) float64, x float64) float64 {
	h := defaultStep * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

// JacobianOf returns the system's analytic Jacobian at x when it has one,
// falling back to central differences.
func JacobianOf(sys dynamo.System, x dynamo.State) dynamo.Matrix2 {
	if sys.Jacobian != nil {
		return sys.Jacobian(x)
	}
	return NumericJacobian(sys.Field, x, 0)
}
