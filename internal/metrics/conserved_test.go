package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/sim"
)

func pendulum() dynamo.System {
	return dynamo.System{
		Name:      "pendulum",
		Dim:       2,
		Canonical: true,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{x[1], -math.Sin(x[0])}
		},
		Invariant: pendulumEnergy,
	}
}

func driftWindows(t *testing.T, integ integrators.Integrator) (*dynamo.ConservedSeries, []float64) {
	t.Helper()
	tr, err := sim.New(pendulum(), integ).Run(context.Background(), dynamo.State{1, 0}, dynamo.Config{Dt: 0.01, TMax: 50})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	cs, err := Track(pendulumEnergy, tr)
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	return cs, WindowMaxima(cs.Drift, 5)
}

func TestSymplecticDriftBounded(t *testing.T) {
	cs, maxima := driftWindows(t, integrators.NewSymplecticEuler())

	if cs.MaxDrift >= 0.01 {
		t.Errorf("max drift = %v, want < 0.01", cs.MaxDrift)
	}
	if !BoundedDrift(maxima, 1.5) {
		t.Errorf("drift windows %v are not bounded", maxima)
	}
}

func TestEulerDriftGrows(t *testing.T) {
	cs, maxima := driftWindows(t, integrators.NewEuler())

	if !Growing(maxima) {
		t.Errorf("drift windows %v should increase strictly", maxima)
	}
	if BoundedDrift(maxima, 1.5) {
		t.Errorf("drift windows %v should not be bounded", maxima)
	}
	if cs.MaxDrift < 0.1 {
		t.Errorf("max drift = %v, expected explicit Euler to gain energy", cs.MaxDrift)
	}
}

func TestTrack(t *testing.T) {
	tr := &dynamo.Trajectory{
		Times:  []float64{0, 1, 2},
		States: []dynamo.State{{0, 2}, {0, 1}, {0, 3}},
	}
	cs, err := Track(pendulumEnergy, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Initial != 2 {
		t.Errorf("initial = %v, want 2", cs.Initial)
	}
	want := []float64{0, 1.5, 2.5}
	for i, d := range cs.Drift {
		if math.Abs(d-want[i]) > 1e-12 {
			t.Errorf("drift[%d] = %v, want %v", i, d, want[i])
		}
	}
	if cs.MaxDrift != 2.5 {
		t.Errorf("max drift = %v, want 2.5", cs.MaxDrift)
	}
	if math.Abs(cs.FinalRelativeDrift-1.25) > 1e-12 {
		t.Errorf("final relative drift = %v, want 1.25", cs.FinalRelativeDrift)
	}
}

func TestTrackZeroInitial(t *testing.T) {
	tr := &dynamo.Trajectory{
		Times:  []float64{0, 1},
		States: []dynamo.State{{0, 0}, {0, 1}},
	}
	cs, err := Track(pendulumEnergy, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.FinalRelativeDrift != 0.5 {
		t.Errorf("final drift = %v, want absolute 0.5", cs.FinalRelativeDrift)
	}
}

func TestTrackInvalid(t *testing.T) {
	if _, err := Track(pendulumEnergy, &dynamo.Trajectory{}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if _, err := Track(nil, &dynamo.Trajectory{Times: []float64{0}, States: []dynamo.State{{0, 0}}}); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestWindowMaxima(t *testing.T) {
	got := WindowMaxima([]float64{1, 3, 2, 5, 4, 0, 7}, 3)
	want := []float64{3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WindowMaxima = %v, want %v", got, want)
		}
	}
	if WindowMaxima([]float64{1}, 3) != nil {
		t.Error("expected nil for too few samples")
	}
}

func TestGrowing(t *testing.T) {
	if !Growing([]float64{1, 2, 3}) {
		t.Error("1,2,3 should be growing")
	}
	if Growing([]float64{1, 2, 2}) {
		t.Error("1,2,2 is not strictly growing")
	}
	if Growing([]float64{1}) {
		t.Error("single window cannot grow")
	}
}
