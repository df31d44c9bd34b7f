package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Integrator advances a state by one fixed step. Implementations hold no
// state between calls.
type Integrator interface {
	Name() string
	Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State
}

// Constrained is implemented by integrators that only apply to some systems.
type Constrained interface {
	Accepts(sys dynamo.System) error
}

const (
	NameEuler      = "euler"
	NameRK4        = "rk4"
	NameSymplectic = "symplectic"
)

var registry = map[string]func() Integrator{
	NameEuler:      func() Integrator { return NewEuler() },
	NameRK4:        func() Integrator { return NewRK4() },
	NameSymplectic: func() Integrator { return NewSymplecticEuler() },
}

func ByName(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator: %s", dynamo.ErrInvalidConfiguration, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
