package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func TestSymplecticEuler_UpdateOrder(t *testing.T) {
	// q' = p, p' = -q. One step from (1, 1) with dt = 0.5:
	// p1 = 1 - 0.5*1 = 0.5, q1 = 1 + 0.5*0.5 = 1.25.
	got := NewSymplecticEuler().Step(harmonic(), dynamo.State{1, 1}, 0, 0.5)
	if got[0] != 1.25 || got[1] != 0.5 {
		t.Errorf("step = %v, want [1.25 0.5]", got)
	}
}

func TestSymplecticEuler_BoundedEnergy(t *testing.T) {
	energy := func(x dynamo.State) float64 { return 0.5 * (x[0]*x[0] + x[1]*x[1]) }

	sym := dynamo.State{1, 0}
	eul := dynamo.State{1, 0}
	dt := 0.05
	maxSym := 0.0
	for i := 0; i < 4000; i++ {
		sym = NewSymplecticEuler().Step(harmonic(), sym, float64(i)*dt, dt)
		eul = NewEuler().Step(harmonic(), eul, float64(i)*dt, dt)
		maxSym = math.Max(maxSym, math.Abs(energy(sym)-0.5))
	}

	if maxSym > 0.05 {
		t.Errorf("symplectic energy drift %.4f exceeds bound", maxSym)
	}
	if eulDrift := math.Abs(energy(eul) - 0.5); eulDrift < 10*maxSym {
		t.Errorf("euler drift %.4f should dwarf symplectic drift %.4f", eulDrift, maxSym)
	}
}

func TestSymplecticEuler_Accepts(t *testing.T) {
	s := NewSymplecticEuler()
	if err := s.Accepts(harmonic()); err != nil {
		t.Errorf("2D system rejected: %v", err)
	}

	oneD := dynamo.System{Name: "decay", Dim: 1, Field: func(x dynamo.State, _ float64) dynamo.State { return x }}
	if err := s.Accepts(oneD); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("1D system should be rejected with ErrInvalidConfiguration, got %v", err)
	}

	spiral, _ := dampedRotation()
	if err := s.Accepts(spiral); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("non-canonical 2D system should be rejected, got %v", err)
	}
}
