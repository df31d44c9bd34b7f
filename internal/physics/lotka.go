package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

const (
	extinctionLevel = 1e-3
	blowUpLevel     = 1e3
)

// LotkaVolterra is the predator-prey model x' = αx - βxy, y' = δxy - γy.
type LotkaVolterra struct {
	Alpha float64
	Beta  float64
	Delta float64
	Gamma float64
}

func NewLotkaVolterra(p dynamo.Params) (*LotkaVolterra, error) {
	rd := newReader(p)
	lv := &LotkaVolterra{
		Alpha: rd.get("alpha"),
		Beta:  rd.get("beta"),
		Delta: rd.get("delta"),
		Gamma: rd.get("gamma"),
	}
	if rd.err != nil {
		return nil, rd.err
	}
	return lv, lv.Validate()
}

func (lv *LotkaVolterra) Validate() error {
	if err := finite("lotka-volterra", lv.Alpha, lv.Beta, lv.Delta, lv.Gamma); err != nil {
		return err
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"alpha", lv.Alpha}, {"beta", lv.Beta}, {"delta", lv.Delta}, {"gamma", lv.Gamma}} {
		if err := positive("lotka-volterra", p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

func (lv *LotkaVolterra) Jacobian(x dynamo.State) dynamo.Matrix2 {
	return dynamo.Matrix2{
		A: lv.Alpha - lv.Beta*x[1],
		B: -lv.Beta * x[0],
		C: lv.Delta * x[1],
		D: lv.Delta*x[0] - lv.Gamma,
	}
}

// Invariant is H = δx - γ ln x + βy - α ln y, constant along orbits in the
// open first quadrant.
func (lv *LotkaVolterra) Invariant(x dynamo.State) float64 {
	return lv.Delta*x[0] - lv.Gamma*math.Log(x[0]) + lv.Beta*x[1] - lv.Alpha*math.Log(x[1])
}

// Halted reports extinction or blow-up of either population.
func (lv *LotkaVolterra) Halted(x dynamo.State) bool {
	return x[0] <= extinctionLevel || x[1] <= extinctionLevel ||
		x[0] >= blowUpLevel || x[1] >= blowUpLevel
}

func (lv *LotkaVolterra) System() dynamo.System {
	return dynamo.System{
		Name: "lotka-volterra",
		Dim:  2,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{
				lv.Alpha*x[0] - lv.Beta*x[0]*x[1],
				lv.Delta*x[0]*x[1] - lv.Gamma*x[1],
			}
		},
		Jacobian:  lv.Jacobian,
		Invariant: lv.Invariant,
		Halt:      lv.Halted,
	}
}

// Coexistence is the interior equilibrium (γ/δ, α/β).
func (lv *LotkaVolterra) Coexistence() dynamo.State {
	return dynamo.State{lv.Gamma / lv.Delta, lv.Alpha / lv.Beta}
}

// Equilibria returns extinction (a saddle) and coexistence (a center).
// The coexistence Jacobian is written out symbolically so its trace is
// exactly zero.
func (lv *LotkaVolterra) Equilibria() []dynamo.EquilibriumPoint {
	origin := dynamo.State{0, 0}
	interior := dynamo.Matrix2{
		B: -lv.Beta * lv.Gamma / lv.Delta,
		C: lv.Delta * lv.Alpha / lv.Beta,
	}
	return []dynamo.EquilibriumPoint{
		stability.Point(origin, lv.Jacobian(origin)),
		stability.Point(lv.Coexistence(), interior),
	}
}

// Period is the small-oscillation period 2π/√(αγ) around coexistence.
func (lv *LotkaVolterra) Period() float64 {
	return 2 * math.Pi / math.Sqrt(lv.Alpha*lv.Gamma)
}
