package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/equilibrium"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/physics"
	"github.com/san-kum/odelab/internal/sim"
)

// escapeLevel stops the sample trajectories of the saddle-node exercise
// once they have clearly left every equilibrium behind.
const escapeLevel = 100

func verhulst() Exercise {
	return Exercise{
		ID:          "verhulst",
		Name:        "Verhulst logistic growth",
		Category:    CategoryOneDim,
		Description: "Population growth with limited resources: dP/dt = r·P·(1 - P/K).",
		Defaults: Input{
			Params:     dynamo.Params{"P0": 10, "r": 0.5, "K": 100},
			Dt:         0.1,
			TMax:       20,
			Integrator: integrators.NameRK4,
		},
		Solve: solveVerhulst,
	}
}

func solveVerhulst(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
	l, err := physics.NewLogistic(in.Params)
	if err != nil {
		return nil, err
	}
	p0, err := in.Params.Get("P0")
	if err != nil {
		return nil, err
	}

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:        "Logistic model",
		Formula:      "dP/dt = r·P·(1 - P/K)",
		Substitution: fmt.Sprintf("dP/dt = %s·P·(1 - P/%s)", num(l.R), num(l.K)),
		Result:       fmt.Sprintf("growth rate r = %s, carrying capacity K = %s", num(l.R), num(l.K)),
		Explanation:  "Growth is nearly exponential while P is small and slows down as P approaches the carrying capacity.",
	})

	eq, err := equilibrium.Solve1D(l.Rate, l.Derivative, equilibrium.Options{
		ClosedForm: func() []float64 { return []float64{0, l.K} },
	})
	if err != nil {
		return nil, err
	}
	res.Equilibria = eq
	res.AddStep(dynamo.Step{
		Title:        "Equilibria",
		Formula:      "r·P·(1 - P/K) = 0  ⟹  P* = 0 or P* = K",
		Substitution: fmt.Sprintf("f'(P) = r·(1 - 2P/K): f'(0) = %s, f'(K) = %s", num(l.Derivative(0)), num(l.Derivative(l.K))),
		Result:       describe(eq[0]) + "; " + describe(eq[1]),
		Explanation:  "An equilibrium is stable when f' is negative there.",
	})

	res.AddStep(dynamo.Step{
		Title:        "Closed-form solution",
		Formula:      "P(t) = K / (1 + (K/P₀ - 1)·e^(-rt))",
		Substitution: fmt.Sprintf("P(t) = %s / (1 + %s·e^(-%s·t))", num(l.K), num(l.K/p0-1), num(l.R)),
		Result:       fmt.Sprintf("P(%s) = %s", num(in.TMax), fixed(l.Solution(p0, in.TMax), 4)),
	})

	traj, err := env.Simulate(ctx, l.System(), dynamo.State{p0}, in)
	fatal, partial := simErr(err)
	if fatal != nil {
		return nil, fatal
	}
	res.Trajectory = traj

	maxErr := 0.0
	for i, x := range traj.States {
		maxErr = math.Max(maxErr, math.Abs(x[0]-l.Solution(p0, traj.Times[i])))
	}
	res.SetInfo("max_abs_error", maxErr)
	res.SetInfo("max_rel_error", maxErr/math.Abs(l.K))
	_, last := traj.Last()
	res.SetInfo("final", last[0])

	inflection := l.InflectionTime(p0)
	inflectionText := "P never crosses K/2 from below"
	if !math.IsNaN(inflection) {
		res.SetInfo("inflection_time", inflection)
		inflectionText = fmt.Sprintf("P = K/2 at t = %s, where dP/dt peaks at r·K/4 = %s", fixed(inflection, 3), num(l.R*l.K/4))
	}
	res.AddStep(dynamo.Step{
		Title:        "Numerical solution",
		Formula:      "P_{n+1} = step(P_n, dt)",
		Substitution: fmt.Sprintf("%s with dt = %s over [0, %s]", in.Integrator, num(in.Dt), num(in.TMax)),
		Result:       fmt.Sprintf("max |P_num - P_exact| = %.3e; %s", maxErr, inflectionText),
		Explanation:  "Shrinking dt or using a higher order method reduces the gap to the closed form.",
	})

	return res, partial
}

func newtonCooling() Exercise {
	return Exercise{
		ID:          "newton-cooling",
		Name:        "Newton's law of cooling",
		Category:    CategoryOneDim,
		Description: "The rate of temperature change is proportional to the gap to ambient: dT/dt = -k·(T - T_amb).",
		Defaults: Input{
			Params:     dynamo.Params{"T0": 100, "Tamb": 20, "k": 0.1},
			Dt:         0.5,
			TMax:       50,
			Integrator: integrators.NameRK4,
		},
		Solve: solveCooling,
	}
}

func solveCooling(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
	c, err := physics.NewCooling(in.Params)
	if err != nil {
		return nil, err
	}
	t0, err := in.Params.Get("T0")
	if err != nil {
		return nil, err
	}

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:        "Cooling law",
		Formula:      "dT/dt = -k·(T - T_amb)",
		Substitution: fmt.Sprintf("dT/dt = -%s·(T - %s)", num(c.K), num(c.Ambient)),
		Result:       fmt.Sprintf("initial gap T₀ - T_amb = %s", num(t0-c.Ambient)),
	})

	res.Equilibria = c.Equilibria()
	res.AddStep(dynamo.Step{
		Title:       "Equilibrium",
		Formula:     "dT/dt = 0  ⟹  T* = T_amb",
		Result:      describe(res.Equilibria[0]),
		Explanation: "For k > 0 every temperature relaxes towards the ambient one.",
	})

	res.SetInfo("half_life", c.HalfLife())
	res.SetInfo("time_constant", c.TimeConstant())
	res.AddStep(dynamo.Step{
		Title:        "Closed-form solution",
		Formula:      "T(t) = T_amb + (T₀ - T_amb)·e^(-kt),  t½ = ln 2 / k",
		Substitution: fmt.Sprintf("T(t) = %s + %s·e^(-%s·t)", num(c.Ambient), num(t0-c.Ambient), num(c.K)),
		Result:       fmt.Sprintf("t½ = %s, τ = 1/k = %s", fixed(c.HalfLife(), 3), fixed(c.TimeConstant(), 3)),
	})

	traj, err := env.Simulate(ctx, c.System(), dynamo.State{t0}, in)
	fatal, partial := simErr(err)
	if fatal != nil {
		return nil, fatal
	}
	res.Trajectory = traj

	maxErr := 0.0
	for i, x := range traj.States {
		maxErr = math.Max(maxErr, math.Abs(x[0]-c.Solution(t0, traj.Times[i])))
	}
	tEnd, last := traj.Last()
	res.SetInfo("max_abs_error", maxErr)
	res.SetInfo("final_temperature", last[0])
	res.AddStep(dynamo.Step{
		Title:        "Numerical solution",
		Formula:      "T_{n+1} = step(T_n, dt)",
		Substitution: fmt.Sprintf("%s with dt = %s", in.Integrator, num(in.Dt)),
		Result:       fmt.Sprintf("T(%s) = %s, max error %.3e", num(tEnd), fixed(last[0], 3), maxErr),
	})

	return res, partial
}

func bifurcation1D() Exercise {
	return Exercise{
		ID:          "bifurcation-1d",
		Name:        "Saddle-node bifurcation",
		Category:    CategoryOneDim,
		Description: "The normal form dx/dt = r + x² loses both equilibria as r crosses 0.",
		Defaults: Input{
			Params:     dynamo.Params{"rMin": -2, "rMax": 2, "rSteps": 50, "x0": 0},
			Dt:         0.01,
			TMax:       10,
			Integrator: integrators.NameEuler,
		},
		Solve: solveBifurcation1D,
	}
}

func solveBifurcation1D(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
	rng := analysis.Range{
		Min: in.Params.GetOr("rMin", -2),
		Max: in.Params.GetOr("rMax", 2),
		N:   int(math.Round(in.Params.GetOr("rSteps", 50))),
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	x0 := in.Params.GetOr("x0", 0)

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:       "Normal form",
		Formula:     "dx/dt = r + x²",
		Result:      fmt.Sprintf("r swept over [%s, %s] in %d steps", num(rng.Min), num(rng.Max), rng.N),
		Explanation: "Every saddle-node bifurcation looks like this near the critical point.",
	})
	res.AddStep(dynamo.Step{
		Title:   "Equilibria and stability",
		Formula: "r + x² = 0  ⟹  x* = ±√(-r) for r < 0;  f'(x) = 2x",
		Result:  "x* = -√(-r) is stable, x* = +√(-r) is unstable; they merge at r = 0 and vanish for r > 0",
	})

	scanner := analysis.Scanner{Workers: env.Workers}
	diagram, err := scanner.ScanClosedForm(ctx, rng, physics.SaddleNodeBranches)
	if err != nil {
		return nil, err
	}

	// Cross-check the closed form with the bracketed solver.
	reach := math.Sqrt(math.Max(-rng.Min, 0)) + 1
	solved, err := scanner.Scan(ctx, rng, physics.SaddleNodeFamily, analysis.Bracket{Lo: -reach, Hi: reach})
	if err != nil {
		return nil, err
	}
	diagram.Equilibria = solved.Equilibria
	res.Bifurcation = diagram

	mismatch := 0.0
	defined := 0
	for i := range diagram.Params {
		if dynamo.IsUndefined(diagram.Stable[i]) {
			continue
		}
		defined++
		if !dynamo.IsUndefined(solved.Stable[i]) {
			mismatch = math.Max(mismatch, math.Abs(solved.Stable[i]-diagram.Stable[i]))
		}
		if !dynamo.IsUndefined(solved.Unstable[i]) {
			mismatch = math.Max(mismatch, math.Abs(solved.Unstable[i]-diagram.Unstable[i]))
		}
	}
	res.SetInfo("samples", float64(diagram.Len()))
	res.SetInfo("defined_samples", float64(defined))
	res.SetInfo("solver_mismatch", mismatch)
	res.AddStep(dynamo.Step{
		Title:        "Bifurcation diagram",
		Formula:      "r_i = r_min + i·(r_max - r_min)/N,  i = 0..N",
		Substitution: fmt.Sprintf("%d samples, %d with real equilibria", diagram.Len(), defined),
		Result:       fmt.Sprintf("closed form and root finder agree to %.1e", mismatch),
	})

	// Sample trajectories before, at and after the bifurcation.
	samples := []float64{-1, 0, 1}
	integ, err := integrators.ByName(in.Integrator)
	if err != nil {
		return nil, err
	}
	jobs := make([]sim.Job, len(samples))
	for i, r := range samples {
		sys := (&physics.SaddleNode{R: r}).System()
		sys.Halt = func(x dynamo.State) bool { return math.Abs(x[0]) >= escapeLevel }
		jobs[i] = sim.Job{
			Label:      fmt.Sprintf("r=%g", r),
			System:     sys,
			Integrator: integ,
			X0:         dynamo.State{x0},
			Config:     in.Config(),
		}
	}
	outcomes, err := env.Ensemble(ctx, jobs)
	if err != nil {
		return nil, err
	}

	var partial error
	summary := ""
	for i, o := range outcomes {
		fatal, p := simErr(o.Err)
		if fatal != nil {
			return nil, fatal
		}
		if p != nil && partial == nil {
			partial = p
		}
		if i == 0 {
			res.Trajectory = o.Trajectory
		}
		tEnd, last := o.Trajectory.Last()
		res.SetInfo("final_x["+o.Label+"]", last[0])
		res.SetInfo("end_time["+o.Label+"]", tEnd)
		state := "settles"
		if o.Trajectory.Halted {
			state = "escapes"
		}
		summary += fmt.Sprintf("%s: x(%s) = %s, %s; ", o.Label, fixed(tEnd, 2), fixed(last[0], 4), state)
	}
	res.AddStep(dynamo.Step{
		Title:        "Sample trajectories",
		Formula:      "x_{n+1} = step(x_n, dt) while |x| < 100",
		Substitution: fmt.Sprintf("x₀ = %s, dt = %s, %s", num(x0), num(in.Dt), in.Integrator),
		Result:       summary,
		Explanation:  "Below the bifurcation the state settles on the stable branch; above it nothing stops x from escaping in finite time.",
	})

	return res, partial
}
