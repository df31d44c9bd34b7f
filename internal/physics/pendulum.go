package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// SeparatrixEnergy is the energy of the saddle at (π, 0).
const SeparatrixEnergy = 2.0

type Regime string

const (
	Oscillation Regime = "oscillation"
	Separatrix  Regime = "separatrix"
	Rotation    Regime = "rotation"
)

// Pendulum is the frictionless pendulum in Hamiltonian form with
// H = y²/2 + (1 - cos x), so x' = y and y' = -sin x.
type Pendulum struct{}

func NewPendulum() *Pendulum {
	return &Pendulum{}
}

func (p *Pendulum) Validate() error { return nil }

func (p *Pendulum) Energy(x dynamo.State) float64 {
	ke := 0.5 * x[1] * x[1]
	pe := 1.0 - math.Cos(x[0])
	return ke + pe
}

func (p *Pendulum) Jacobian(x dynamo.State) dynamo.Matrix2 {
	return dynamo.Matrix2{A: 0, B: 1, C: -math.Cos(x[0]), D: 0}
}

func (p *Pendulum) System() dynamo.System {
	return dynamo.System{
		Name:      "pendulum",
		Dim:       2,
		Canonical: true,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{x[1], -math.Sin(x[0])}
		},
		Jacobian:  p.Jacobian,
		Invariant: p.Energy,
	}
}

// Equilibria returns the bottom (center) and top (saddle) positions.
func (p *Pendulum) Equilibria() []dynamo.EquilibriumPoint {
	bottom := dynamo.State{0, 0}
	top := dynamo.State{math.Pi, 0}
	return []dynamo.EquilibriumPoint{
		stability.Point(bottom, p.Jacobian(bottom)),
		// cos π is exactly -1, so the top is a saddle with Δ = -1.
		stability.Point(top, p.Jacobian(top)),
	}
}

// RegimeOf reports whether energy h yields libration or full rotation.
func RegimeOf(h float64) Regime {
	switch {
	case h < SeparatrixEnergy:
		return Oscillation
	case h == SeparatrixEnergy:
		return Separatrix
	default:
		return Rotation
	}
}

// Amplitude is the turning angle of an oscillation with energy h.
func Amplitude(h float64) float64 {
	if h >= SeparatrixEnergy || h < 0 {
		return math.NaN()
	}
	return math.Acos(1 - h)
}

// SmallAnglePeriod is the linearized period 2π.
func (p *Pendulum) SmallAnglePeriod() float64 { return 2 * math.Pi }
