package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// SaddleNode is the normal form x' = r + x².
type SaddleNode struct {
	R float64
}

func (s *SaddleNode) Validate() error {
	return finite("saddle-node", s.R)
}

func (s *SaddleNode) Rate(x float64) float64       { return s.R + x*x }
func (s *SaddleNode) Derivative(x float64) float64 { return 2 * x }

func (s *SaddleNode) System() dynamo.System {
	return dynamo.System{
		Name: "saddle-node",
		Dim:  1,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{s.Rate(x[0])}
		},
	}
}

// Roots are ±√(-r) for r < 0, the double root 0 at r = 0, and none above.
func (s *SaddleNode) Roots() []float64 {
	switch {
	case s.R < 0:
		q := math.Sqrt(-s.R)
		return []float64{-q, q}
	case s.R == 0:
		return []float64{0}
	default:
		return nil
	}
}

func (s *SaddleNode) Equilibria() []dynamo.EquilibriumPoint {
	roots := s.Roots()
	out := make([]dynamo.EquilibriumPoint, 0, len(roots))
	for _, x := range roots {
		out = append(out, stability.Point1D(x, s.Derivative(x)))
	}
	return out
}

// SaddleNodeBranches is the closed-form bifurcation diagram: the stable
// branch -√(-r) and the unstable branch √(-r), undefined for r >= 0.
func SaddleNodeBranches(r float64) (stable, unstable float64) {
	if r >= 0 {
		return dynamo.Undefined(), dynamo.Undefined()
	}
	q := math.Sqrt(-r)
	return -q, q
}

// SaddleNodeFamily builds the field and derivative for solver-driven scans.
func SaddleNodeFamily(r float64) (f, df func(float64) float64) {
	s := &SaddleNode{R: r}
	return s.Rate, s.Derivative
}
