package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/physics"
	"github.com/san-kum/odelab/internal/stability"
)

// planarNames labels the two coordinates of a linear exercise.
type planarNames struct {
	x, y   string
	x0, y0 string
}

func linear2D() Exercise {
	return Exercise{
		ID:          "linear-2d",
		Name:        "Planar linear system",
		Category:    CategoryLinear,
		Description: "Fixed points, eigenvalues and phase portrait of dx/dt = ax + by, dy/dt = cx + dy.",
		Defaults: Input{
			Params:     dynamo.Params{"a": -1, "b": 1, "c": -1, "d": -1, "x0": 2, "y0": 1},
			Dt:         0.01,
			TMax:       10,
			Integrator: integrators.NameRK4,
		},
		Solve: func(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
			return solvePlanar(ctx, env, in, planarNames{x: "x", y: "y", x0: "x0", y0: "y0"}, nil)
		},
	}
}

func romeoJuliet() Exercise {
	return Exercise{
		ID:          "romeo-juliet",
		Name:        "Romeo and Juliet",
		Category:    CategoryLinear,
		Description: "A linear model of two lovers: dR/dt = aR + bJ, dJ/dt = cR + dJ.",
		Defaults: Input{
			Params:     dynamo.Params{"a": -1, "b": 1, "c": -2, "d": 0.5, "R0": 1, "J0": 0},
			Dt:         0.01,
			TMax:       20,
			Integrator: integrators.NameRK4,
		},
		Solve: func(ctx context.Context, env *Env, in Input) (*dynamo.SimulationResult, error) {
			return solvePlanar(ctx, env, in, planarNames{x: "R", y: "J", x0: "R0", y0: "J0"}, romanticStyles)
		},
	}
}

func solvePlanar(ctx context.Context, env *Env, in Input, names planarNames, extra func(*physics.Linear) dynamo.Step) (*dynamo.SimulationResult, error) {
	l, err := physics.NewLinear(in.Params)
	if err != nil {
		return nil, err
	}
	x0, err := initialState(in.Params, names.x0, names.y0)
	if err != nil {
		return nil, err
	}

	res := &dynamo.SimulationResult{}
	res.AddStep(dynamo.Step{
		Title:   "System",
		Formula: fmt.Sprintf("d%s/dt = a·%s + b·%s\nd%s/dt = c·%s + d·%s", names.x, names.x, names.y, names.y, names.x, names.y),
		Substitution: fmt.Sprintf("d%s/dt = %s·%s + %s·%s\nd%s/dt = %s·%s + %s·%s",
			names.x, num(l.A), names.x, num(l.B), names.y,
			names.y, num(l.C), names.x, num(l.D), names.y),
		Result: fmt.Sprintf("A = [[%s, %s], [%s, %s]]", num(l.A), num(l.B), num(l.C), num(l.D)),
	})
	if extra != nil {
		res.AddStep(extra(l))
	}

	set := l.EquilibriumSet()
	res.Equilibria = l.Equilibria()
	eqText := "the origin is the only equilibrium"
	switch {
	case !set.Isolated && set.Direction != nil:
		eqText = fmt.Sprintf("det A = 0: every point on the line through the origin along (%s, %s) is an equilibrium",
			fixed(set.Direction[0], 4), fixed(set.Direction[1], 4))
	case !set.Isolated:
		eqText = "A = 0: every point of the plane is an equilibrium"
	}
	res.AddStep(dynamo.Step{
		Title:   "Equilibria",
		Formula: "A·x = 0",
		Result:  eqText,
	})

	cls := l.Classify()
	res.SetInfo("trace", cls.Trace)
	res.SetInfo("det", cls.Det)
	res.SetInfo("disc", cls.Disc)
	if cls.Eigen.Complex {
		res.SetInfo("angular_frequency", cls.Eigen.AngularFrequency())
	}
	res.AddStep(dynamo.Step{
		Title:        "Trace, determinant and eigenvalues",
		Formula:      "τ = a + d,  Δ = ad - bc,  D = τ² - 4Δ,  λ = (τ ± √D)/2",
		Substitution: fmt.Sprintf("τ = %s, Δ = %s, D = %s", num(cls.Trace), num(cls.Det), num(cls.Disc)),
		Result:       cls.Eigen.String(),
	})
	res.AddStep(dynamo.Step{
		Title:       "Classification",
		Formula:     "sign of Δ, then τ, then D",
		Result:      string(cls.Class),
		Explanation: classExplanation(cls),
	})

	traj, err := env.Simulate(ctx, l.System(), x0, in)
	fatal, partial := simErr(err)
	if fatal != nil {
		return nil, fatal
	}
	res.Trajectory = traj

	maxErr := 0.0
	for i, x := range traj.States {
		if d := x.Sub(l.Solution(x0, traj.Times[i])).MaxAbs(); d > maxErr {
			maxErr = d
		}
	}
	tEnd, last := traj.Last()
	res.SetInfo("max_abs_error", maxErr)
	res.AddStep(dynamo.Step{
		Title:        "Trajectory",
		Formula:      "x(t) = e^(At)·x₀",
		Substitution: fmt.Sprintf("x₀ = (%s, %s), %s with dt = %s", num(x0[0]), num(x0[1]), in.Integrator, num(in.Dt)),
		Result:       fmt.Sprintf("x(%s) = (%s, %s), max deviation from e^(At)·x₀ %.2e", num(tEnd), fixed(last[0], 4), fixed(last[1], 4), maxErr),
	})

	return res, partial
}

func classExplanation(r stability.Result) string {
	switch r.Class {
	case dynamo.Saddle:
		return "Eigenvalues of opposite sign: trajectories approach along one direction and leave along the other."
	case dynamo.StableNode, dynamo.UnstableNode:
		return "Two real eigenvalues of the same sign: trajectories " + signWord(r.Trace, "converge to", "", "leave") + " the origin without rotating."
	case dynamo.StableSpiral, dynamo.UnstableSpiral:
		return fmt.Sprintf("Complex eigenvalues: trajectories rotate with angular frequency %s while they %s.",
			num(r.Eigen.AngularFrequency()), signWord(r.Trace, "shrink", "", "grow"))
	case dynamo.Center:
		return "Purely imaginary eigenvalues: closed orbits. The linearization does not decide nonlinear stability here."
	case dynamo.DegenerateNode:
		if stability.DegenerateStable(r) {
			return "Repeated negative eigenvalue: a borderline stable node."
		}
		return "Repeated eigenvalue: a borderline node."
	case dynamo.NonIsolated:
		return "A zero eigenvalue: equilibria are not isolated."
	default:
		return ""
	}
}

func romanticStyles(l *physics.Linear) dynamo.Step {
	style := func(v float64, pos, neg string) string {
		return signWord(v, neg, "indifferent", pos)
	}
	return dynamo.Step{
		Title:   "Romantic styles",
		Formula: "a, d: response to one's own feelings;  b, c: response to the partner",
		Result: fmt.Sprintf("Romeo is %s to himself and %s to Juliet; Juliet is %s to Romeo and %s to herself",
			style(l.A, "self-reinforcing", "cautious"),
			style(l.B, "responsive", "contrary"),
			style(l.C, "responsive", "contrary"),
			style(l.D, "self-reinforcing", "cautious")),
		Explanation: "Positive self-terms amplify existing feelings; negative ones damp them. The cross terms decide whether love is returned or rejected.",
	}
}
