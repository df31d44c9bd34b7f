package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
)

// Scenario defines a scripted sequence of exercise runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Preset values are applied
// first and the explicit fields override them.
type ScenarioStep struct {
	Exercise   string             `yaml:"exercise"`
	Preset     string             `yaml:"preset,omitempty"`
	Integrator string             `yaml:"integrator,omitempty"`
	Dt         float64            `yaml:"dt,omitempty"`
	TMax       float64            `yaml:"tmax,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
}

// Input resolves the step into registry input.
func (s ScenarioStep) Input() (experiment.Input, error) {
	cfg := &config.Config{Exercise: s.Exercise}
	if s.Preset != "" {
		p := config.GetPreset(s.Exercise, s.Preset)
		if p == nil {
			return experiment.Input{}, fmt.Errorf("%w: unknown preset %s for %s", dynamo.ErrInvalidConfiguration, s.Preset, s.Exercise)
		}
		cfg.ApplyPreset(p)
	}
	for k, v := range s.Params {
		cfg.SetParam(k, v)
	}
	in := experiment.Input{Params: dynamo.Params(cfg.Params), Dt: cfg.Dt, TMax: cfg.TMax, Integrator: s.Integrator}
	if s.Dt != 0 {
		in.Dt = s.Dt
	}
	if s.TMax != 0 {
		in.TMax = s.TMax
	}
	return in, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidConfiguration, scenario.Name)
	}

	return &scenario, nil
}

// StepResult is the outcome of one scenario step. Result is set for
// complete and partial runs; Err carries the partial-run error.
type StepResult struct {
	Step   ScenarioStep
	Result *dynamo.SimulationResult
	Err    error
}

// RunScenario executes all steps in order. A partial result is recorded
// and the scenario continues; any other failure stops it.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "exercise", step.Exercise)

		in, err := step.Input()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := reg.Run(ctx, step.Exercise, in)
		if res == nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, StepResult{Step: step, Result: res, Err: err})
	}

	return results, nil
}

// ParameterSweep runs one exercise across a range of a single parameter
type ParameterSweep struct {
	Exercise string
	Param    string
	Range    analysis.Range
	// Base is merged over the exercise defaults before Param is set.
	Base    experiment.Input
	Workers int
}

// SweepPoint holds the outcome at one parameter value
type SweepPoint struct {
	Value float64
	Info  map[string]float64
	// Final is the last recorded state.
	Final dynamo.State
	Err   error
}

// RunSweep executes the sweep concurrently; points keep parameter order.
// Runs that end early still contribute their partial numbers.
func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *experiment.Registry) ([]SweepPoint, error) {
	if sweep.Param == "" {
		return nil, fmt.Errorf("%w: sweep needs a parameter name", dynamo.ErrInvalidConfiguration)
	}
	if err := sweep.Range.Validate(); err != nil {
		return nil, err
	}
	if _, err := reg.Get(sweep.Exercise); err != nil {
		return nil, err
	}

	n := sweep.Range.N + 1
	points := make([]SweepPoint, n)

	err := dynamo.RunOrdered(ctx, n, sweep.Workers, func(ctx context.Context, i int) error {
		v := sweep.Range.At(i)
		in := sweep.Base
		in.Params = sweep.Base.Params.Merge(dynamo.Params{sweep.Param: v})

		res, err := reg.Run(ctx, sweep.Exercise, in)
		points[i] = SweepPoint{Value: v, Err: err}
		if res == nil {
			return nil
		}
		points[i].Info = res.Info
		if res.Trajectory != nil {
			_, points[i].Final = res.Trajectory.Last()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return points, nil
}

// SweepStats counts points that ran to completion, ended early, or failed.
func SweepStats(points []SweepPoint) (complete, partial, failed int) {
	for _, p := range points {
		switch {
		case p.Err == nil:
			complete++
		case dynamo.Partial(p.Err):
			partial++
		default:
			failed++
		}
	}
	return
}
