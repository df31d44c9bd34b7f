package sim

import (
	"context"
	"log/slog"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// Job is one independent run of an ensemble.
type Job struct {
	Label      string
	System     dynamo.System
	Integrator integrators.Integrator
	X0         dynamo.State
	Config     dynamo.Config
}

type Outcome struct {
	Label      string
	Trajectory *dynamo.Trajectory
	Err        error
}

type Ensemble struct {
	workers int
	log     *slog.Logger
}

func NewEnsemble(workers int) *Ensemble {
	return &Ensemble{workers: workers, log: slog.Default()}
}

func (e *Ensemble) WithLogger(l *slog.Logger) *Ensemble {
	if l != nil {
		e.log = l
	}
	return e
}

// Run executes every job concurrently. Outcomes keep job order; per-job
// failures are reported in Outcome.Err rather than aborting the batch.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))

	err := dynamo.RunOrdered(ctx, len(jobs), e.workers, func(ctx context.Context, idx int) error {
		job := jobs[idx]
		traj, err := New(job.System, job.Integrator).WithLogger(e.log.With("job", job.Label)).Run(ctx, job.X0, job.Config)
		outcomes[idx] = Outcome{Label: job.Label, Trajectory: traj, Err: err}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcomes, nil
}
