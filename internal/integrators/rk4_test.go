package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func harmonic() dynamo.System {
	return dynamo.System{
		Name:      "harmonic",
		Dim:       2,
		Canonical: true,
		Field: func(x dynamo.State, t float64) dynamo.State {
			return dynamo.State{x[1], -x[0]}
		},
	}
}

// dampedRotation is x' = -x + y, y' = -x - y with solution
// e^{-t}(x0 cos t + y0 sin t, -x0 sin t + y0 cos t).
func dampedRotation() (dynamo.System, func(x0 dynamo.State, t float64) dynamo.State) {
	sys := dynamo.System{
		Name: "damped-rotation",
		Dim:  2,
		Field: func(x dynamo.State, t float64) dynamo.State {
			return dynamo.State{-x[0] + x[1], -x[0] - x[1]}
		},
	}
	exact := func(x0 dynamo.State, t float64) dynamo.State {
		e := math.Exp(-t)
		c, s := math.Cos(t), math.Sin(t)
		return dynamo.State{e * (x0[0]*c + x0[1]*s), e * (-x0[0]*s + x0[1]*c)}
	}
	return sys, exact
}

func integrate(integ Integrator, sys dynamo.System, x0 dynamo.State, dt float64, steps int) dynamo.State {
	x := x0.Clone()
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	x := integrate(NewRK4(), harmonic(), dynamo.State{1.0, 0.0}, 0.01, 100)

	expectedX := math.Cos(1.0)
	expectedV := -math.Sin(1.0)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4ConvergenceOrder(t *testing.T) {
	sys, exact := dampedRotation()
	x0 := dynamo.State{2.0, 1.0}
	const tEnd = 2.0

	globalErr := func(dt float64) float64 {
		steps := int(math.Round(tEnd / dt))
		got := integrate(NewRK4(), sys, x0, dt, steps)
		return got.Sub(exact(x0, tEnd)).MaxAbs()
	}

	coarse := globalErr(0.2)
	fine := globalErr(0.1)
	ratio := coarse / fine

	// Fourth order: halving dt divides the global error by ~16.
	if ratio < 12 || ratio > 20 {
		t.Errorf("error ratio = %.2f (coarse %.3e, fine %.3e), want ~16", ratio, coarse, fine)
	}
}

func TestEulerConvergenceOrder(t *testing.T) {
	sys, exact := dampedRotation()
	x0 := dynamo.State{2.0, 1.0}
	const tEnd = 2.0

	globalErr := func(dt float64) float64 {
		steps := int(math.Round(tEnd / dt))
		got := integrate(NewEuler(), sys, x0, dt, steps)
		return got.Sub(exact(x0, tEnd)).MaxAbs()
	}

	ratio := globalErr(0.01) / globalErr(0.005)
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("euler error ratio = %.3f, want ~2", ratio)
	}
}

func TestEulerStep(t *testing.T) {
	sys := dynamo.System{
		Name: "decay",
		Dim:  1,
		Field: func(x dynamo.State, t float64) dynamo.State {
			return dynamo.State{-2 * x[0]}
		},
	}
	got := NewEuler().Step(sys, dynamo.State{1.0}, 0, 0.1)
	if math.Abs(got[0]-0.8) > 1e-15 {
		t.Errorf("euler step = %v, want 0.8", got[0])
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	for _, name := range Names() {
		integ, err := ByName(name)
		if err != nil {
			t.Fatal(err)
		}
		x := dynamo.State{1.0, 0.5}
		integ.Step(harmonic(), x, 0, 0.1)
		if x[0] != 1.0 || x[1] != 0.5 {
			t.Errorf("%s mutated its input: %v", name, x)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameEuler, NameRK4, NameSymplectic} {
		integ, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, integ.Name())
		}
	}

	if _, err := ByName("rk45"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
