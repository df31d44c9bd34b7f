package stability

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Result is the linear classification of a 2x2 Jacobian.
type Result struct {
	Trace float64
	Det   float64
	Disc  float64
	Class dynamo.StabilityClass
	Eigen dynamo.Eigenvalues
}

// Classify1D applies the sign rule to f'(x*). Zero is reported as
// non-hyperbolic; the caller must look at higher-order terms.
func Classify1D(fp float64) dynamo.StabilityClass {
	switch {
	case fp < 0:
		return dynamo.StableNode
	case fp > 0:
		return dynamo.UnstableNode
	default:
		return dynamo.NonHyperbolic
	}
}

// Classify maps the Jacobian [[a,b],[c,d]] to a stability class using only
// τ = a+d and Δ = ad-bc. Comparisons against zero are exact.
func Classify(m dynamo.Matrix2) Result {
	return ClassifyInvariants(m.Trace(), m.Det())
}

func ClassifyInvariants(tau, delta float64) Result {
	disc := tau*tau - 4*delta
	return Result{
		Trace: tau,
		Det:   delta,
		Disc:  disc,
		Class: classOf(tau, delta, disc),
		Eigen: Eigen(tau, delta),
	}
}

func classOf(tau, delta, disc float64) dynamo.StabilityClass {
	switch {
	case delta < 0:
		return dynamo.Saddle
	case delta == 0:
		return dynamo.NonIsolated
	case tau == 0:
		return dynamo.Center
	case disc == 0:
		return dynamo.DegenerateNode
	case disc > 0 && tau < 0:
		return dynamo.StableNode
	case disc > 0:
		return dynamo.UnstableNode
	case tau < 0:
		return dynamo.StableSpiral
	default:
		return dynamo.UnstableSpiral
	}
}

// Eigen solves λ² - τλ + Δ = 0.
func Eigen(tau, delta float64) dynamo.Eigenvalues {
	disc := tau*tau - 4*delta
	if disc >= 0 {
		sq := math.Sqrt(disc)
		return dynamo.Eigenvalues{L1: (tau + sq) / 2, L2: (tau - sq) / 2}
	}
	return dynamo.Eigenvalues{Complex: true, Re: tau / 2, Im: math.Sqrt(-disc) / 2}
}

// Stable reports asymptotic stability of the class.
func Stable(c dynamo.StabilityClass) bool {
	return c == dynamo.StableNode || c == dynamo.StableSpiral
}

// Point classifies a 2D equilibrium from its Jacobian.
func Point(x dynamo.State, m dynamo.Matrix2) dynamo.EquilibriumPoint {
	r := Classify(m)
	eig := r.Eigen
	return dynamo.EquilibriumPoint{State: x.Clone(), Class: r.Class, Eigen: &eig}
}

// Point1D classifies a 1D equilibrium from f'(x*).
func Point1D(x, fp float64) dynamo.EquilibriumPoint {
	return dynamo.EquilibriumPoint{State: dynamo.State{x}, Class: Classify1D(fp), Derivative: fp}
}

// DegenerateStable reports whether a degenerate node attracts (τ < 0).
func DegenerateStable(r Result) bool {
	return r.Class == dynamo.DegenerateNode && r.Trace < 0
}
