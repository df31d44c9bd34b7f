package experiment_test

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/integrators"
)

var _ = Describe("Registry", func() {
	var (
		reg *experiment.Registry
		ctx context.Context
	)

	BeforeEach(func() {
		reg = experiment.NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	Describe("listing", func() {
		It("registers the ten exercises in order", func() {
			var ids []string
			for _, ex := range reg.List() {
				ids = append(ids, ex.ID)
			}
			Expect(ids).To(Equal([]string{
				"verhulst", "newton-cooling", "bifurcation-1d",
				"linear-2d", "romeo-juliet",
				"lotka-volterra", "energy-conservation", "hopf-bifurcation",
				"combat-model", "parametrized-solution",
			}))
		})

		It("groups exercises by category", func() {
			Expect(reg.Categories()).To(HaveLen(4))
			Expect(reg.ByCategory(experiment.CategoryLinear)).To(HaveLen(2))
			Expect(reg.ByCategory("nope")).To(BeEmpty())
		})

		It("rejects unknown and duplicate exercises", func() {
			_, err := reg.Get("missing")
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

			ex, err := reg.Get("verhulst")
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Register(ex)).To(MatchError(dynamo.ErrInvalidConfiguration))
		})
	})

	Describe("running with defaults", func() {
		for _, id := range []string{
			"verhulst", "newton-cooling", "bifurcation-1d",
			"linear-2d", "romeo-juliet",
			"lotka-volterra", "energy-conservation", "hopf-bifurcation",
			"combat-model", "parametrized-solution",
		} {
			It("solves "+id, func() {
				res, err := reg.Run(ctx, id, experiment.Input{})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Exercise).To(Equal(id))
				Expect(uuid.Validate(res.ID)).To(Succeed())
				Expect(res.Steps).NotTo(BeEmpty())
				Expect(res.Trajectory).NotTo(BeNil())
				Expect(res.Trajectory.Len()).To(BeNumerically(">", 1))
			})
		}

		It("gives every run its own id", func() {
			a, err := reg.Run(ctx, "verhulst", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			b, err := reg.Run(ctx, "verhulst", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).NotTo(Equal(b.ID))
		})
	})

	Describe("overrides", func() {
		It("applies timing and integrator on top of the defaults", func() {
			res, err := reg.Run(ctx, "linear-2d", experiment.Input{TMax: 2, Dt: 0.05, Integrator: integrators.NameEuler})
			Expect(err).NotTo(HaveOccurred())
			tEnd, _ := res.Trajectory.Last()
			Expect(tEnd).To(BeNumerically("~", 2, 1e-9))
			Expect(res.Trajectory.Times[1]).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("merges parameters key by key", func() {
			res, err := reg.Run(ctx, "hopf-bifurcation", experiment.Input{Params: dynamo.Params{"mu": 1}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Info["limit_cycle_radius"]).To(Equal(1.0))
			Expect(res.Info["final_radius"]).To(BeNumerically("~", 1, 1e-3))
		})

		It("keeps a fast rotation on its limit cycle", func() {
			res, err := reg.Run(ctx, "hopf-bifurcation", experiment.Input{Params: dynamo.Params{"mu": 1, "omega": 50000}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Info["final_radius"]).To(BeNumerically("~", 1, 1e-3))
		})

		It("rejects invalid input before solving", func() {
			res, err := reg.Run(ctx, "linear-2d", experiment.Input{Dt: -1})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
			Expect(res).To(BeNil())

			_, err = reg.Run(ctx, "linear-2d", experiment.Input{Integrator: "leapfrog"})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

			_, err = reg.Run(ctx, "hopf-bifurcation", experiment.Input{Params: dynamo.Params{"r0": -1}})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

			_, err = reg.Run(ctx, "verhulst", experiment.Input{Params: dynamo.Params{"K": 0}})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		})
	})

	Describe("partial results", func() {
		It("returns the trajectory up to divergence with the error", func() {
			res, err := reg.Run(ctx, "linear-2d", experiment.Input{
				Params: dynamo.Params{"a": 5, "b": 0, "c": 0, "d": 5},
			})
			Expect(err).To(MatchError(dynamo.ErrDivergence))
			Expect(res).NotTo(BeNil())
			Expect(uuid.Validate(res.ID)).To(Succeed())
			Expect(res.Trajectory.Len()).To(BeNumerically(">", 1))
			_, last := res.Trajectory.Last()
			Expect(last.MaxAbs()).To(BeNumerically("<=", dynamo.DivergenceBound))
		})

		It("stops on cancellation without a result", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			res, err := reg.Run(cancelled, "verhulst", experiment.Input{})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res).To(BeNil())
		})
	})

	Describe("exercise results", func() {
		It("scans the saddle-node family over 51 samples", func() {
			res, err := reg.Run(ctx, "bifurcation-1d", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Bifurcation.Len()).To(Equal(51))
			Expect(dynamo.IsUndefined(res.Bifurcation.Stable[50])).To(BeTrue())
			Expect(res.Bifurcation.Stable[0]).To(BeNumerically("~", -math.Sqrt2, 1e-12))
		})

		It("keeps the Lotka-Volterra invariant and measures cycles", func() {
			res, err := reg.Run(ctx, "lotka-volterra", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Info["invariant_max_drift"]).To(BeNumerically("<", 1e-4))
			Expect(res.Info).To(HaveKey("measured_period"))
			Expect(res.Info["coexistence_x_solver"]).To(BeNumerically("~", res.Info["coexistence_x"], 1e-7))
			Expect(res.Equilibria).To(HaveLen(2))
			Expect(res.Equilibria[1].Class).To(Equal(dynamo.Center))
		})

		It("contrasts symplectic and Euler energy drift", func() {
			res, err := reg.Run(ctx, "energy-conservation", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Conserved).NotTo(BeNil())
			Expect(res.Info["max_drift"]).To(BeNumerically("<", 0.01))
			Expect(res.Info["euler_max_relative_drift"]).To(BeNumerically(">", 0.05))
		})

		It("predicts the combat winner", func() {
			res, err := reg.Run(ctx, "combat-model", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trajectory.Halted).To(BeTrue())
			Expect(res.Info["final_A"]).To(BeNumerically("~", res.Info["predicted_survivors"], 0.5))
			Expect(res.Info["invariant_max_drift"]).To(BeNumerically("<", 1e-2))
			Expect(res.Equilibria[0].Class).To(Equal(dynamo.Saddle))

			Expect(res.Info["losses_A"]).To(BeNumerically("~", 100-res.Info["final_A"], 1e-12))
			Expect(res.Info["losses_B"]).To(BeNumerically(">", 79))
			Expect(res.Info["force_ratio"]).To(BeNumerically("~", 1.25, 1e-12))
			Expect(res.Info["effectiveness_ratio"]).To(BeNumerically("~", math.Sqrt(1.25), 1e-12))
			Expect(res.Info["power_ratio"]).To(BeNumerically("~", 1.25*math.Sqrt(1.25), 1e-12))
		})

		It("traces the closed Lissajous curve", func() {
			res, err := reg.Run(ctx, "parametrized-solution", experiment.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Info["period"]).To(BeNumerically("~", 2*math.Pi, 1e-12))
			Expect(res.Info["max_abs_error"]).To(BeNumerically("<", 1e-6))
			Expect(res.Info).NotTo(HaveKey("eccentricity"))
		})

		It("measures the ellipse traced at equal frequencies", func() {
			res, err := reg.Run(ctx, "parametrized-solution", experiment.Input{
				Params: dynamo.Params{"A": 2, "B": 1, "omegaX": 1, "omegaY": 1, "phi": math.Pi / 2},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Info["eccentricity"]).To(BeNumerically("~", math.Sqrt(3)/2, 1e-12))
			Expect(res.Info["enclosed_area"]).To(BeNumerically("~", 2*math.Pi, 1e-12))
			Expect(res.Steps).To(ContainElement(HaveField("Result", ContainSubstring("aligned-ellipse"))))
		})
	})
})
