package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/equilibrium"
	"github.com/san-kum/odelab/internal/stability"
)

// Linear is the planar system x' = ax + by, y' = cx + dy.
type Linear struct {
	A, B, C, D float64
}

func NewLinear(p dynamo.Params) (*Linear, error) {
	rd := newReader(p)
	l := &Linear{A: rd.get("a"), B: rd.get("b"), C: rd.get("c"), D: rd.get("d")}
	if rd.err != nil {
		return nil, rd.err
	}
	return l, l.Validate()
}

func (l *Linear) Validate() error {
	return finite("linear", l.A, l.B, l.C, l.D)
}

func (l *Linear) Matrix() dynamo.Matrix2 {
	return dynamo.Matrix2{A: l.A, B: l.B, C: l.C, D: l.D}
}

func (l *Linear) System() dynamo.System {
	m := l.Matrix()
	return dynamo.System{
		Name: "linear",
		Dim:  2,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return m.Apply(x)
		},
		Jacobian: func(dynamo.State) dynamo.Matrix2 { return m },
	}
}

func (l *Linear) Classify() stability.Result {
	return stability.Classify(l.Matrix())
}

func (l *Linear) EquilibriumSet() dynamo.EquilibriumSet {
	return equilibrium.Linear(l.Matrix())
}

func (l *Linear) Equilibria() []dynamo.EquilibriumPoint {
	return equilibrium.LinearPoints(l.Matrix())
}

// Solution evaluates e^(At)·x0 in closed form. With s = τ/2 and M = A - sI,
// e^(At) = e^(st)·(c(t)·I + g(t)·M) where c, g are cosh/sinh, cos/sin or
// 1/t depending on the sign of s² - Δ.
func (l *Linear) Solution(x0 dynamo.State, t float64) dynamo.State {
	m := l.Matrix()
	s := m.Trace() / 2
	q2 := s*s - m.Det()

	var c, g float64
	switch {
	case q2 > 0:
		q := math.Sqrt(q2)
		c, g = math.Cosh(q*t), math.Sinh(q*t)/q
	case q2 < 0:
		q := math.Sqrt(-q2)
		c, g = math.Cos(q*t), math.Sin(q*t)/q
	default:
		c, g = 1, t
	}

	shifted := dynamo.Matrix2{A: m.A - s, B: m.B, C: m.C, D: m.D - s}
	mx := shifted.Apply(x0)
	e := math.Exp(s * t)
	return dynamo.State{
		e * (c*x0[0] + g*mx[0]),
		e * (c*x0[1] + g*mx[1]),
	}
}
