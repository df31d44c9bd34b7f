package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// Logistic is Verhulst growth P' = rP(1 - P/K).
type Logistic struct {
	R float64
	K float64
}

func NewLogistic(p dynamo.Params) (*Logistic, error) {
	rd := newReader(p)
	l := &Logistic{R: rd.get("r"), K: rd.get("K")}
	if rd.err != nil {
		return nil, rd.err
	}
	return l, l.Validate()
}

func (l *Logistic) Validate() error {
	if err := finite("logistic", l.R, l.K); err != nil {
		return err
	}
	if l.K == 0 {
		return fmt.Errorf("%w: logistic carrying capacity K must be non-zero", dynamo.ErrInvalidConfiguration)
	}
	return nil
}

func (l *Logistic) Rate(p float64) float64 {
	return l.R * p * (1 - p/l.K)
}

func (l *Logistic) Derivative(p float64) float64 {
	return l.R * (1 - 2*p/l.K)
}

func (l *Logistic) System() dynamo.System {
	return dynamo.System{
		Name: "logistic",
		Dim:  1,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{l.Rate(x[0])}
		},
	}
}

// Equilibria returns P* = 0 and P* = K, classified by the sign of f'.
func (l *Logistic) Equilibria() []dynamo.EquilibriumPoint {
	return []dynamo.EquilibriumPoint{
		stability.Point1D(0, l.Derivative(0)),
		stability.Point1D(l.K, l.Derivative(l.K)),
	}
}

// Solution is the closed form P(t) = K / (1 + ((K-P0)/P0)·e^(-rt)).
func (l *Logistic) Solution(p0, t float64) float64 {
	if p0 == 0 {
		return 0
	}
	return l.K / (1 + (l.K-p0)/p0*math.Exp(-l.R*t))
}

// InflectionTime is when P crosses K/2, where growth is fastest. It is NaN
// when the trajectory never crosses K/2.
func (l *Logistic) InflectionTime(p0 float64) float64 {
	if l.R == 0 || p0 <= 0 || p0 >= l.K {
		return math.NaN()
	}
	t := math.Log((l.K-p0)/p0) / l.R
	if t < 0 {
		return math.NaN()
	}
	return t
}
