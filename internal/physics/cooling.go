package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// Cooling is Newton's law T' = -k(T - T_amb).
type Cooling struct {
	K       float64
	Ambient float64
}

func NewCooling(p dynamo.Params) (*Cooling, error) {
	rd := newReader(p)
	c := &Cooling{K: rd.get("k"), Ambient: rd.get("Tamb")}
	if rd.err != nil {
		return nil, rd.err
	}
	return c, c.Validate()
}

func (c *Cooling) Validate() error {
	return finite("cooling", c.K, c.Ambient)
}

func (c *Cooling) System() dynamo.System {
	return dynamo.System{
		Name: "cooling",
		Dim:  1,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{-c.K * (x[0] - c.Ambient)}
		},
	}
}

func (c *Cooling) Equilibria() []dynamo.EquilibriumPoint {
	return []dynamo.EquilibriumPoint{stability.Point1D(c.Ambient, -c.K)}
}

func (c *Cooling) Solution(t0, t float64) float64 {
	return c.Ambient + (t0-c.Ambient)*math.Exp(-c.K*t)
}

// HalfLife is the time for the temperature gap to halve, ln 2 / k.
func (c *Cooling) HalfLife() float64 {
	if c.K <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / c.K
}

// TimeConstant is 1/k, after which the gap has shrunk to 1/e.
func (c *Cooling) TimeConstant() float64 {
	if c.K <= 0 {
		return math.Inf(1)
	}
	return 1 / c.K
}
