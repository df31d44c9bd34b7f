package metrics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Energy is the running mean of a conserved quantity.
type Energy struct {
	name    string
	h       func(dynamo.State) float64
	samples int
	total   float64
}

func NewEnergy(h func(dynamo.State) float64) *Energy {
	return &Energy{
		name: "energy",
		h:    h,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	if e.h == nil {
		return
	}
	e.total += e.h(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative drift of a conserved quantity
// from its first observed value. Drift is absolute when the first value is
// zero.
type EnergyDrift struct {
	name          string
	h             func(dynamo.State) float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(h func(dynamo.State) float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	if e.h == nil {
		return
	}

	energy := e.h(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, relative(energy, e.initialEnergy))
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func relative(v, ref float64) float64 {
	if ref == 0 {
		return math.Abs(v)
	}
	return math.Abs(v-ref) / math.Abs(ref)
}
