package integrators

import (
	"fmt"

	"github.com/san-kum/odelab/internal/dynamo"
)

// SymplecticEuler is the semi-implicit Euler rule for 2D Hamiltonian
// fields with state [position, momentum]. The momentum is updated from the
// old position, then the position from the new momentum.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return NameSymplectic }

func (s *SymplecticEuler) Accepts(sys dynamo.System) error {
	if sys.Dim != 2 {
		return fmt.Errorf("%w: symplectic euler needs a 2D system, %q has dimension %d",
			dynamo.ErrInvalidConfiguration, sys.Name, sys.Dim)
	}
	if !sys.Canonical {
		return fmt.Errorf("%w: symplectic euler needs (position, momentum) coordinates, %q is not canonical",
			dynamo.ErrInvalidConfiguration, sys.Name)
	}
	return nil
}

func (s *SymplecticEuler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Field(x, t)
	p := x[1] + dt*dx[1]

	dxNew := sys.Field(dynamo.State{x[0], p}, t)
	q := x[0] + dt*dxNew[0]

	return dynamo.State{q, p}
}
