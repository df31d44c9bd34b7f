package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/odelab/internal/dynamo"
)

type Registry struct {
	exercises map[string]Exercise
	order     []string
	log       *slog.Logger
	workers   int
}

// NewRegistry returns a registry holding every built-in exercise.
func NewRegistry() *Registry {
	r := &Registry{
		exercises: make(map[string]Exercise),
		log:       slog.Default(),
	}
	for _, ex := range builtin() {
		if err := r.Register(ex); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) WithLogger(l *slog.Logger) *Registry {
	if l != nil {
		r.log = l
	}
	return r
}

// WithWorkers bounds the goroutines used by scans and ensembles inside an
// exercise. Zero means GOMAXPROCS.
func (r *Registry) WithWorkers(n int) *Registry {
	r.workers = n
	return r
}

func (r *Registry) Register(ex Exercise) error {
	if ex.ID == "" || ex.Solve == nil {
		return fmt.Errorf("%w: exercise needs an id and a solver", dynamo.ErrInvalidConfiguration)
	}
	if _, dup := r.exercises[ex.ID]; dup {
		return fmt.Errorf("%w: exercise %q already registered", dynamo.ErrInvalidConfiguration, ex.ID)
	}
	r.exercises[ex.ID] = ex
	r.order = append(r.order, ex.ID)
	return nil
}

func (r *Registry) Get(id string) (Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: unknown exercise: %s", dynamo.ErrInvalidConfiguration, id)
	}
	return ex, nil
}

// List returns the exercises in registration order.
func (r *Registry) List() []Exercise {
	out := make([]Exercise, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.exercises[id])
	}
	return out
}

// Categories returns the distinct categories in registration order.
func (r *Registry) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ex := range r.List() {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			out = append(out, ex.Category)
		}
	}
	return out
}

func (r *Registry) ByCategory(category string) []Exercise {
	var out []Exercise
	for _, ex := range r.List() {
		if ex.Category == category {
			out = append(out, ex)
		}
	}
	return out
}

// Run merges in over the exercise defaults, validates, and solves. On
// divergence or numerical instability both the partial result and the
// error are returned; any other error comes with a nil result.
func (r *Registry) Run(ctx context.Context, id string, in Input) (*dynamo.SimulationResult, error) {
	ex, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	merged := ex.Defaults.Merge(in)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	runID := uuid.NewString()
	log := r.log.With("exercise", id, "run", runID)
	log.Info("exercise started", "integrator", merged.Integrator, "dt", merged.Dt, "tmax", merged.TMax)

	start := time.Now()
	env := &Env{Logger: log, Workers: r.workers}
	res, err := ex.Solve(ctx, env, merged)
	if err != nil && !dynamo.Partial(err) {
		log.Error("exercise failed", "err", err)
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if res == nil {
		res = &dynamo.SimulationResult{}
	}
	res.ID = runID
	res.Exercise = id

	if err != nil {
		log.Warn("exercise returned a partial result", "err", err, "elapsed", time.Since(start))
		return res, fmt.Errorf("%s: %w", id, err)
	}
	log.Info("exercise finished", "steps", len(res.Steps), "elapsed", time.Since(start))
	return res, nil
}
