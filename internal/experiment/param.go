package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/metrics"
	"github.com/san-kum/odelab/internal/physics"
)

func combatModel() Exercise {
	return Exercise{
		ID:          "combat-model",
		Name:        "Lanchester combat model",
		Category:    CategoryParametrize,
		Description: "Two armies under the square law: dA/dt = -βB, dB/dt = -αA.",
		Defaults: Input{
			Params:     dynamo.Params{"A0": 100, "B0": 80, "alpha": 0.05, "beta": 0.04},
			Dt:         0.1,
			TMax:       50,
			Integrator: integrators.NameRK4,
		},
		Solve: solveCombat,
	}
}

func solveCombat(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
	l, err := physics.NewLanchester(in.Params)
	if err != nil {
		return nil, err
	}
	x0, err := initialState(in.Params, "A0", "B0")
	if err != nil {
		return nil, err
	}
	if x0[0] <= 0 || x0[1] <= 0 {
		return nil, fmt.Errorf("%w: both armies must start positive, got %v", dynamo.ErrInvalidConfiguration, []float64(x0))
	}

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:        "Square law",
		Formula:      "dA/dt = -βB\ndB/dt = -αA",
		Substitution: fmt.Sprintf("dA/dt = -%s·B\ndB/dt = -%s·A", num(l.Beta), num(l.Alpha)),
		Explanation:  "Each army loses soldiers in proportion to the size of the other one.",
	})

	eq := l.Equilibrium()
	res.Equilibria = []dynamo.EquilibriumPoint{eq}
	res.AddStep(dynamo.Step{
		Title:   "Equilibrium",
		Formula: "J = [[0, -β], [-α, 0]],  Δ = -αβ < 0",
		Result:  describe(eq),
	})

	winner, survivors := l.Outcome(x0[0], x0[1])
	c := l.Invariant(x0)
	res.SetInfo("invariant", c)
	res.SetInfo("predicted_survivors", survivors)
	verdict := fmt.Sprintf("army %s wins with %s soldiers left", winner, fixed(survivors, 2))
	if winner == physics.WinnerNone {
		verdict = "both armies are annihilated together"
	}
	res.AddStep(dynamo.Step{
		Title:        "Conserved quantity",
		Formula:      "C = αA² - βB²;  C > 0: A wins with √(C/α);  C < 0: B wins with √(-C/β)",
		Substitution: fmt.Sprintf("C = %s·%s² - %s·%s² = %s", num(l.Alpha), num(x0[0]), num(l.Beta), num(x0[1]), num(c)),
		Result:       verdict,
	})

	end := l.EndTime(x0[0], x0[1])
	if !math.IsInf(end, 0) {
		res.SetInfo("predicted_end_time", end)
	}

	traj, err := env.Simulate(ctx, l.System(), x0, in)
	fatal, partial := simErr(err)
	if fatal != nil {
		return nil, fatal
	}
	res.Trajectory = traj

	cs, err := metrics.Track(l.Invariant, traj)
	if err != nil {
		return nil, err
	}
	res.Conserved = cs
	res.SetInfo("invariant_max_drift", cs.MaxDrift)

	tEnd, last := traj.Last()
	res.SetInfo("final_A", last[0])
	res.SetInfo("final_B", last[1])
	result := fmt.Sprintf("t = %s: A = %s, B = %s", fixed(tEnd, 2), fixed(last[0], 2), fixed(last[1], 2))
	if traj.Halted {
		res.SetInfo("end_time", tEnd)
		result += fmt.Sprintf("; battle over (exact end time %s)", fixed(end, 2))
	} else {
		result += "; still fighting at the end of the run"
	}
	res.AddStep(dynamo.Step{
		Title:        "Simulation",
		Formula:      "A(t) = A₀cosh(kt) - B₀√(β/α)sinh(kt),  k = √(αβ)",
		Substitution: fmt.Sprintf("%s with dt = %s, max |C(t) - C(0)| = %.2e", in.Integrator, num(in.Dt), cs.MaxDrift),
		Result:       result,
	})

	lossA, lossB := x0[0]-last[0], x0[1]-last[1]
	res.SetInfo("losses_A", lossA)
	res.SetInfo("losses_B", lossB)
	r := l.Ratios(x0[0], x0[1])
	res.SetInfo("force_ratio", r.Force)
	res.SetInfo("effectiveness_ratio", r.Effectiveness)
	res.SetInfo("power_ratio", r.Power)
	favoured := "A"
	power := r.Power
	switch {
	case r.Power < 1:
		favoured, power = "B", 1/r.Power
	case r.Power == 1:
		favoured = "neither side"
	}
	res.AddStep(dynamo.Step{
		Title:   "Losses and combat power",
		Formula: "A₀/B₀,  √(α/β),  √(αA₀² / βB₀²) = (A₀/B₀)·√(α/β)",
		Substitution: fmt.Sprintf("losses: A %s (%s%%), B %s (%s%%)\nforce %s, effectiveness %s",
			fixed(lossA, 1), fixed(100*lossA/x0[0], 1), fixed(lossB, 1), fixed(100*lossB/x0[1], 1),
			fixed(r.Force, 3), fixed(r.Effectiveness, 3)),
		Result:      fmt.Sprintf("combat power %s:1 in favour of %s", fixed(power, 3), favoured),
		Explanation: "Power grows with the square of the head count, so numbers outweigh a proportional edge in effectiveness.",
	})

	return res, partial
}

func parametrizedSolution() Exercise {
	return Exercise{
		ID:          "parametrized-solution",
		Name:        "Lissajous curves",
		Category:    CategoryParametrize,
		Description: "The parametrized curve x = A sin(ω₁t), y = B sin(ω₂t + φ) traced by integrating its velocity.",
		Defaults: Input{
			Params:     dynamo.Params{"A": 1, "B": 1, "omegaX": 2, "omegaY": 3, "phi": 0},
			Dt:         0.01,
			TMax:       10,
			Integrator: integrators.NameRK4,
		},
		Solve: solveLissajous,
	}
}

func solveLissajous(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
	l, err := physics.NewLissajous(in.Params)
	if err != nil {
		return nil, err
	}

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:        "Parametrization",
		Formula:      "x(t) = A sin(ω₁t)\ny(t) = B sin(ω₂t + φ)",
		Substitution: fmt.Sprintf("x(t) = %s sin(%st)\ny(t) = %s sin(%st + %s)", num(l.A), num(l.OmegaX), num(l.B), num(l.OmegaY), num(l.Phi)),
		Explanation:  "The curve is integrated from its velocity dx/dt = Aω₁cos(ω₁t), dy/dt = Bω₂cos(ω₂t + φ).",
	})

	m, n, rational := l.FrequencyRatio()
	period := l.Period()
	shape := "the frequencies are incommensurate: the curve never closes and fills a rectangle"
	if rational {
		res.SetInfo("ratio_m", float64(m))
		res.SetInfo("ratio_n", float64(n))
		res.SetInfo("period", period)
		shape = fmt.Sprintf("ω₁:ω₂ = %d:%d, the curve closes after T = %s with %d lobes along x and %d along y", m, n, fixed(period, 4), n, m)
	}
	res.AddStep(dynamo.Step{
		Title:   "Frequency ratio",
		Formula: "T = 2π / gcd(ω₁, ω₂)",
		Result:  shape,
	})
	res.AddStep(lissajousShape(l))
	if ecc, area, ok := l.Ellipse(); ok {
		res.SetInfo("eccentricity", ecc)
		res.SetInfo("enclosed_area", area)
	}

	traj, err := env.Simulate(ctx, l.System(), l.Initial(), in)
	fatal, partial := simErr(err)
	if fatal != nil {
		return nil, fatal
	}
	res.Trajectory = traj

	maxErr := 0.0
	for i, t := range traj.Times {
		maxErr = math.Max(maxErr, traj.States[i].Sub(l.Position(t)).MaxAbs())
	}
	length := physics.ArcLength(traj)
	res.SetInfo("max_abs_error", maxErr)
	res.SetInfo("arc_length", length)
	res.SetInfo("max_speed", l.MaxSpeed())

	width := 0.0
	if portrait := analysis.NewPhasePortrait(traj); portrait != nil {
		for _, p := range portrait.Points {
			width = math.Max(width, math.Abs(p.X))
		}
	}
	res.AddStep(dynamo.Step{
		Title:        "Integrated curve",
		Formula:      "|v|max = √((Aω₁)² + (Bω₂)²)",
		Substitution: fmt.Sprintf("%s with dt = %s", in.Integrator, num(in.Dt)),
		Result: fmt.Sprintf("arc length %s, max speed %s, max |x| %s, max deviation from the exact curve %.2e",
			fixed(length, 4), fixed(l.MaxSpeed(), 4), fixed(width, 4), maxErr),
	})

	return res, partial
}

func lissajousShape(l *physics.Lissajous) dynamo.Step {
	step := dynamo.Step{
		Title:   "Phase and shape",
		Formula: "ω₁ = ω₂: φ = 0 → y = (B/A)x,  φ = π/2 → x²/A² + y²/B² = 1,  φ = π → y = -(B/A)x",
		Result:  string(l.Shape()),
	}
	ecc, area, ok := l.Ellipse()
	if !ok {
		step.Explanation = "With different frequencies φ moves the lobes and self-intersections instead of tilting an ellipse."
		return step
	}
	sense := "counter-clockwise"
	if l.Clockwise() {
		sense = "clockwise"
	}
	step.Substitution = fmt.Sprintf("φ mod 2π = %s, e = %s, area = π·|AB sin φ| = %s", fixed(physics.WrapAngle(l.Phi), 3), fixed(ecc, 3), fixed(area, 4))
	step.Result = fmt.Sprintf("%s traced %s", l.Shape(), sense)
	step.Explanation = "With equal frequencies the curve is an ellipse whose tilt and width are set by φ; it collapses to a line at φ = 0 or π."
	return step
}
