package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// annihilationLevel is the strength below which an army is considered
// destroyed.
const annihilationLevel = 0.1

type Winner string

const (
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
	WinnerNone Winner = "mutual-annihilation"
)

// Lanchester is the square law A' = -βB, B' = -αA.
type Lanchester struct {
	Alpha float64
	Beta  float64
}

func NewLanchester(p dynamo.Params) (*Lanchester, error) {
	rd := newReader(p)
	l := &Lanchester{Alpha: rd.get("alpha"), Beta: rd.get("beta")}
	if rd.err != nil {
		return nil, rd.err
	}
	return l, l.Validate()
}

func (l *Lanchester) Validate() error {
	if err := finite("lanchester", l.Alpha, l.Beta); err != nil {
		return err
	}
	if err := positive("lanchester", "alpha", l.Alpha); err != nil {
		return err
	}
	return positive("lanchester", "beta", l.Beta)
}

func (l *Lanchester) Matrix() dynamo.Matrix2 {
	return dynamo.Matrix2{A: 0, B: -l.Beta, C: -l.Alpha, D: 0}
}

// Invariant is C = αA² - βB².
func (l *Lanchester) Invariant(x dynamo.State) float64 {
	return l.Alpha*x[0]*x[0] - l.Beta*x[1]*x[1]
}

func (l *Lanchester) Halted(x dynamo.State) bool {
	return x[0] <= annihilationLevel || x[1] <= annihilationLevel
}

func (l *Lanchester) System() dynamo.System {
	m := l.Matrix()
	return dynamo.System{
		Name: "lanchester",
		Dim:  2,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return m.Apply(x)
		},
		Jacobian:  func(dynamo.State) dynamo.Matrix2 { return m },
		Invariant: l.Invariant,
		Halt:      l.Halted,
	}
}

// Equilibrium is the origin, a saddle since Δ = -αβ < 0.
func (l *Lanchester) Equilibrium() dynamo.EquilibriumPoint {
	return stability.Point(dynamo.State{0, 0}, l.Matrix())
}

// Outcome predicts the winner and its surviving strength from the
// invariant of the initial forces.
func (l *Lanchester) Outcome(a0, b0 float64) (Winner, float64) {
	c := l.Invariant(dynamo.State{a0, b0})
	switch {
	case c > 0:
		return WinnerA, math.Sqrt(c / l.Alpha)
	case c < 0:
		return WinnerB, math.Sqrt(-c / l.Beta)
	default:
		return WinnerNone, 0
	}
}

// Solution is the exact hyperbolic solution with k = √(αβ).
func (l *Lanchester) Solution(a0, b0, t float64) dynamo.State {
	k := math.Sqrt(l.Alpha * l.Beta)
	ch, sh := math.Cosh(k*t), math.Sinh(k*t)
	return dynamo.State{
		a0*ch - b0*math.Sqrt(l.Beta/l.Alpha)*sh,
		b0*ch - a0*math.Sqrt(l.Alpha/l.Beta)*sh,
	}
}

// EndTime is when the losing army reaches zero in the exact solution. It
// is +Inf for mutual annihilation, which only happens asymptotically.
func (l *Lanchester) EndTime(a0, b0 float64) float64 {
	k := math.Sqrt(l.Alpha * l.Beta)
	sa, sb := math.Sqrt(l.Alpha)*a0, math.Sqrt(l.Beta)*b0
	switch {
	case sa > sb:
		return math.Atanh(sb/sa) / k
	case sb > sa:
		return math.Atanh(sa/sb) / k
	default:
		return math.Inf(1)
	}
}

// Ratios compares the two sides at the start of a battle.
type Ratios struct {
	// Force is the head count A₀/B₀.
	Force float64
	// Effectiveness is √(α/β).
	Effectiveness float64
	// Power is √(αA₀² / βB₀²), the product of the other two. Above 1 A is
	// stronger.
	Power float64
}

func (l *Lanchester) Ratios(a0, b0 float64) Ratios {
	force := a0 / b0
	eff := math.Sqrt(l.Alpha / l.Beta)
	return Ratios{Force: force, Effectiveness: eff, Power: force * eff}
}
