package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func pendulumEnergy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + 1 - math.Cos(x[0])
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(pendulumEnergy)

	theta := math.Pi / 4
	x := dynamo.State{theta, 0}

	m.Observe(x, 0)
	e1 := m.Value()

	m.Reset()
	m.Observe(x, 0)
	e2 := m.Value()

	expected := 1 - math.Cos(theta)
	if math.Abs(e1-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, e1)
	}
	if math.Abs(e2-expected) > 1e-12 {
		t.Errorf("expected energy %f after reset, got %f", expected, e2)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(pendulumEnergy)

	m.Observe(dynamo.State{1.0, 1.0}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(pendulumEnergy)

	m.Observe(dynamo.State{0, 1}, 0)   // H = 0.5
	m.Observe(dynamo.State{0, 1.1}, 1) // H = 0.605
	m.Observe(dynamo.State{0, 1}, 2)

	if got, want := m.Value(), 0.21; math.Abs(got-want) > 1e-12 {
		t.Errorf("max drift = %v, want %v", got, want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestObserveAll(t *testing.T) {
	tr := &dynamo.Trajectory{
		Times:  []float64{0, 1, 2},
		States: []dynamo.State{{0, 1}, {0, 1.1}, {0, 1}},
	}
	mean := NewEnergy(pendulumEnergy)
	drift := NewEnergyDrift(pendulumEnergy)
	ObserveAll(tr, mean, drift)

	if math.Abs(mean.Value()-(0.5+0.605+0.5)/3) > 1e-12 {
		t.Errorf("mean energy = %v", mean.Value())
	}
	if math.Abs(drift.Value()-0.21) > 1e-12 {
		t.Errorf("max drift = %v, want 0.21", drift.Value())
	}
}
