package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/sim"
)

// Input is what a caller hands to an exercise. Zero Dt, TMax and an empty
// Integrator fall back to the exercise defaults; Params are merged key by
// key.
type Input struct {
	Params     dynamo.Params
	Dt         float64
	TMax       float64
	Integrator string
}

// Merge returns in with every set field of over applied on top.
func (in Input) Merge(over Input) Input {
	out := in
	out.Params = in.Params.Merge(over.Params)
	if over.Dt != 0 {
		out.Dt = over.Dt
	}
	if over.TMax != 0 {
		out.TMax = over.TMax
	}
	if over.Integrator != "" {
		out.Integrator = over.Integrator
	}
	return out
}

func (in Input) Config() dynamo.Config {
	return dynamo.Config{Dt: in.Dt, TMax: in.TMax}
}

func (in Input) Validate() error {
	if err := in.Params.Validate(); err != nil {
		return err
	}
	if err := in.Config().Validate(); err != nil {
		return err
	}
	_, err := integrators.ByName(in.Integrator)
	return err
}

// SolveFunc computes one exercise. On divergence or numerical instability
// it returns the partial result together with the error.
type SolveFunc func(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error)

type Exercise struct {
	ID          string
	Name        string
	Category    string
	Description string
	Defaults    Input
	Solve       SolveFunc
}

// Env carries the shared run settings into an exercise.
type Env struct {
	Logger  *slog.Logger
	Workers int
}

// Simulate integrates sys from x0 with the input's integrator and timing.
func (e *Env) Simulate(ctx context.Context, sys dynamo.System, x0 dynamo.State, in Input) (*dynamo.Trajectory, error) {
	integ, err := integrators.ByName(in.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.New(sys, integ).WithLogger(e.Logger).Run(ctx, x0, in.Config())
}

// Ensemble runs independent jobs concurrently, keeping job order.
func (e *Env) Ensemble(ctx context.Context, jobs []sim.Job) ([]sim.Outcome, error) {
	return sim.NewEnsemble(e.Workers).WithLogger(e.Logger).Run(ctx, jobs)
}

// simErr splits a run error into a fatal one and a partial-result flag.
func simErr(err error) (fatal error, partial error) {
	if err == nil {
		return nil, nil
	}
	if dynamo.Partial(err) {
		return nil, err
	}
	return err, nil
}

// initialState reads one named parameter per coordinate.
func initialState(p dynamo.Params, names ...string) (dynamo.State, error) {
	x := make(dynamo.State, len(names))
	for i, name := range names {
		v, err := p.Get(name)
		if err != nil {
			return nil, err
		}
		x[i] = v
	}
	return x, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func signWord(v float64, neg, zero, pos string) string {
	switch {
	case v < 0:
		return neg
	case v > 0:
		return pos
	default:
		return zero
	}
}

func describe(p dynamo.EquilibriumPoint) string {
	if p.Eigen != nil {
		return fmt.Sprintf("%v: %s (%s)", []float64(p.State), p.Class, p.Eigen)
	}
	return fmt.Sprintf("x* = %s: %s (f'(x*) = %s)", num(p.State[0]), p.Class, num(p.Derivative))
}
