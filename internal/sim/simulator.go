package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// maxPrealloc caps the samples reserved up front; longer runs grow.
const maxPrealloc = 1 << 16

type Simulator struct {
	sys        dynamo.System
	integrator integrators.Integrator
	log        *slog.Logger
}

func New(sys dynamo.System, integrator integrators.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		log:        slog.Default(),
	}
}

func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l != nil {
		s.log = l
	}
	return s
}

// Run integrates from t=0 while t <= cfg.TMax. Invalid configuration fails
// before any step with a nil trajectory. A NaN/Inf or divergent state ends
// the run early: the trajectory accumulated so far is returned together
// with a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	prealloc := min(steps+1, maxPrealloc)
	traj := &dynamo.Trajectory{
		Times:  make([]float64, 0, prealloc),
		States: make([]dynamo.State, 0, prealloc),
	}

	x := x0.Clone()
	dt := cfg.Dt
	traj.Times = append(traj.Times, 0)
	traj.States = append(traj.States, x.Clone())

	s.log.Debug("run started", "system", s.sys.Name, "integrator", s.integrator.Name(), "dt", dt, "tmax", cfg.TMax, "steps", steps)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		t := float64(i) * dt
		newX := s.integrator.Step(s.sys, x, t, dt)
		tNext := float64(i+1) * dt
		if s.sys.Wrap != nil && newX.IsValid() {
			newX = s.sys.Wrap(newX)
		}

		if !newX.IsValid() {
			s.log.Warn("run stopped: non-finite state", "system", s.sys.Name, "step", i+1, "t", tNext)
			return traj, &dynamo.SimulationError{Step: i + 1, Time: tNext, State: newX, Wrapped: dynamo.ErrNumericalInstability}
		}
		if newX.MaxAbs() > dynamo.DivergenceBound {
			s.log.Warn("run stopped: divergence", "system", s.sys.Name, "step", i+1, "t", tNext, "max_abs", newX.MaxAbs())
			return traj, &dynamo.SimulationError{Step: i + 1, Time: tNext, State: newX, Wrapped: dynamo.ErrDivergence}
		}
		if s.sys.Halt != nil && s.sys.Halt(newX) {
			s.log.Debug("run halted", "system", s.sys.Name, "step", i+1, "t", tNext)
			traj.Halted = true
			break
		}

		x = newX
		traj.Times = append(traj.Times, tNext)
		traj.States = append(traj.States, x.Clone())
	}

	s.log.Debug("run finished", "system", s.sys.Name, "samples", traj.Len())
	return traj, nil
}

func (s *Simulator) validate(x0 dynamo.State, cfg dynamo.Config) error {
	if err := s.sys.Validate(); err != nil {
		return err
	}
	if s.integrator == nil {
		return fmt.Errorf("%w: no integrator", dynamo.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(x0) != s.sys.Dim {
		return fmt.Errorf("%w: initial state has %d coordinates, %q needs %d",
			dynamo.ErrInvalidConfiguration, len(x0), s.sys.Name, s.sys.Dim)
	}
	if !x0.IsValid() {
		return fmt.Errorf("%w: initial state is not finite: %v", dynamo.ErrInvalidConfiguration, x0)
	}
	if x0.MaxAbs() > dynamo.DivergenceBound {
		return fmt.Errorf("%w: initial state exceeds the divergence bound: %v", dynamo.ErrInvalidConfiguration, x0)
	}
	if c, ok := s.integrator.(integrators.Constrained); ok {
		if err := c.Accepts(s.sys); err != nil {
			return err
		}
	}
	return nil
}
