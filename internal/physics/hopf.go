package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// Hopf is the supercritical Hopf normal form in polar coordinates,
// r' = μr - r³ and θ' = ω. States are (r, θ).
type Hopf struct {
	Mu    float64
	Omega float64
}

func NewHopf(p dynamo.Params) (*Hopf, error) {
	rd := newReader(p)
	h := &Hopf{Mu: rd.get("mu"), Omega: rd.get("omega")}
	if rd.err != nil {
		return nil, rd.err
	}
	return h, h.Validate()
}

func (h *Hopf) Validate() error {
	return finite("hopf", h.Mu, h.Omega)
}

func (h *Hopf) RadialRate(r float64) float64 { return h.Mu*r - r*r*r }

func (h *Hopf) RadialDerivative(r float64) float64 { return h.Mu - 3*r*r }

func (h *Hopf) System() dynamo.System {
	return dynamo.System{
		Name: "hopf",
		Dim:  2,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{h.RadialRate(x[0]), h.Omega}
		},
		Wrap: func(x dynamo.State) dynamo.State {
			return dynamo.State{x[0], WrapAngle(x[1])}
		},
	}
}

// WrapAngle folds θ into [0, 2π).
func WrapAngle(theta float64) float64 {
	w := math.Mod(theta, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w
}

// RadialEquilibria are r* = 0 and, for μ > 0, the limit cycle r* = √μ.
func (h *Hopf) RadialEquilibria() []dynamo.EquilibriumPoint {
	out := []dynamo.EquilibriumPoint{stability.Point1D(0, h.RadialDerivative(0))}
	if h.Mu > 0 {
		r := math.Sqrt(h.Mu)
		out = append(out, stability.Point1D(r, h.RadialDerivative(r)))
	}
	return out
}

// OriginJacobian is the Cartesian linearization [[μ, -ω], [ω, μ]].
func (h *Hopf) OriginJacobian() dynamo.Matrix2 {
	return dynamo.Matrix2{A: h.Mu, B: -h.Omega, C: h.Omega, D: h.Mu}
}

// Origin classifies the focus at the origin in Cartesian coordinates.
func (h *Hopf) Origin() dynamo.EquilibriumPoint {
	return stability.Point(dynamo.State{0, 0}, h.OriginJacobian())
}

// LimitCycleRadius is √μ for μ > 0 and 0 otherwise.
func (h *Hopf) LimitCycleRadius() float64 {
	if h.Mu > 0 {
		return math.Sqrt(h.Mu)
	}
	return 0
}

// HopfBranches plots the attracting radius (origin for μ <= 0, cycle
// beyond) and the repelling origin for μ > 0.
func HopfBranches(mu float64) (stable, unstable float64) {
	if mu <= 0 {
		return 0, dynamo.Undefined()
	}
	return math.Sqrt(mu), 0
}

// ToCartesian maps a polar trajectory onto (x, y).
func ToCartesian(tr *dynamo.Trajectory) *dynamo.Trajectory {
	out := &dynamo.Trajectory{
		Times:  append([]float64(nil), tr.Times...),
		States: make([]dynamo.State, len(tr.States)),
		Halted: tr.Halted,
	}
	for i, s := range tr.States {
		out.States[i] = dynamo.State{s[0] * math.Cos(s[1]), s[0] * math.Sin(s[1])}
	}
	return out
}
