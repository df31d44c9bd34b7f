package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/equilibrium"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/metrics"
	"github.com/san-kum/odelab/internal/physics"
	"github.com/san-kum/odelab/internal/stability"
	"github.com/san-kum/odelab/internal/store"
	"github.com/san-kum/odelab/internal/viz"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, cat := range reg.Categories() {
				fmt.Fprintln(w, viz.Title.Render(cat))
				for _, ex := range reg.ByCategory(cat) {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", ex.ID, ex.Name, viz.Subtle.Render(ex.Defaults.Integrator))
				}
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [states.csv]",
		Short: "plot a trajectory written with run --csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tr, err := store.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if tr.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			t, last := tr.Last()
			fmt.Fprintf(out, "samples: %d\n", tr.Len())
			fmt.Fprintf(out, "final: t=%g x=%v\n\n", t, last)

			for i := range tr.States[0] {
				fmt.Fprintln(out, asciigraph.Plot(tr.Component(i),
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(fmt.Sprintf("x%d vs time", i)),
				))
				fmt.Fprintln(out)
			}
			if p := analysis.NewPhasePortrait(tr); p != nil {
				fmt.Fprint(out, viz.PhaseCanvas(p, 40, 12).String())
			}
			return nil
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [exercise]",
		Short: "list available presets for an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.Presets[args[0]]
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for exercise: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, p := range presets {
				fmt.Fprintf(w, "  %s\t%s\n", p.Name, viz.Subtle.Render(p.Description))
			}
			return w.Flush()
		},
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify a b c d",
		Short: "classify the origin of x' = [[a, b], [c, d]] x",
		// Negative entries would otherwise be read as flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if a == "-h" || a == "--help" {
					return cmd.Help()
				}
			}
			if len(args) != 4 {
				return fmt.Errorf("%w: classify needs 4 matrix entries, got %d", dynamo.ErrInvalidConfiguration, len(args))
			}
			var v [4]float64
			for i, a := range args {
				f, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("%w: entry %q: %v", dynamo.ErrInvalidConfiguration, a, err)
				}
				v[i] = f
			}
			m := dynamo.Matrix2{A: v[0], B: v[1], C: v[2], D: v[3]}
			r := stability.Classify(m)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  τ = %g  Δ = %g  D = %g\n", viz.MetricLabel.Render("invariants"), r.Trace, r.Det, r.Disc)
			fmt.Fprintf(out, "%s  %s\n", viz.MetricLabel.Render("eigenvalues"), r.Eigen)
			fmt.Fprintf(out, "%s  %s\n", viz.MetricLabel.Render("class"), viz.ResultText.Render(string(r.Class)))
			if r.Class == dynamo.DegenerateNode {
				fmt.Fprintf(out, "%s  stable = %t\n", viz.MetricLabel.Render("degenerate"), stability.DegenerateStable(r))
			}

			set := equilibrium.Linear(m)
			switch {
			case set.Isolated:
				fmt.Fprintf(out, "%s  isolated at the origin\n", viz.MetricLabel.Render("equilibria"))
			case set.Direction != nil:
				fmt.Fprintf(out, "%s  line through the origin along (%.4f, %.4f)\n", viz.MetricLabel.Render("equilibria"), set.Direction[0], set.Direction[1])
			default:
				fmt.Fprintf(out, "%s  every point of the plane\n", viz.MetricLabel.Render("equilibria"))
			}
			return nil
		},
	}
}

func bifurcateCmd() *cobra.Command {
	var (
		family string
		rng    analysis.Range
		solver bool
	)
	cmd := &cobra.Command{
		Use:   "bifurcate",
		Short: "scan the equilibria of a one-parameter family",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := analysis.Scanner{Workers: workers}
			var (
				d   *dynamo.Diagram
				err error
			)
			switch {
			case family == "saddle-node" && solver:
				reach := math.Sqrt(math.Max(-rng.Min, 0)) + 1
				d, err = scanner.Scan(cmd.Context(), rng, physics.SaddleNodeFamily, analysis.Bracket{Lo: -reach, Hi: reach})
			case family == "saddle-node":
				d, err = scanner.ScanClosedForm(cmd.Context(), rng, physics.SaddleNodeBranches)
			case family == "hopf":
				d, err = scanner.ScanClosedForm(cmd.Context(), rng, physics.HopfBranches)
			default:
				return fmt.Errorf("%w: unknown family %q (saddle-node, hopf)", dynamo.ErrInvalidConfiguration, family)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, viz.Title.Render(family)+"  "+viz.Subtle.Render("• stable  ○ unstable"))
			fmt.Fprintln(out, analysis.DiagramToASCII(d, 72, 20))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "PARAM\tSTABLE\tUNSTABLE\t")
			for i := range d.Params {
				fmt.Fprintf(w, "%.4f\t%s\t%s\t\n", d.Params[i], branch(d.Stable[i]), branch(d.Unstable[i]))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&family, "family", "saddle-node", "saddle-node or hopf")
	cmd.Flags().Float64Var(&rng.Min, "min", -2, "first parameter value")
	cmd.Flags().Float64Var(&rng.Max, "max", 2, "last parameter value")
	cmd.Flags().IntVar(&rng.N, "n", 50, "number of intervals (n+1 samples)")
	cmd.Flags().BoolVar(&solver, "solver", false, "locate saddle-node equilibria with the root finder")
	return cmd
}

func branch(v float64) string {
	if dynamo.IsUndefined(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func driftCmd() *cobra.Command {
	var (
		x0, y0, dt, tmax float64
		windows          int
	)
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "compare pendulum energy drift across integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry()
			names := integrators.Names()
			series := make([][]float64, 0, len(names))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEG\tMAX DRIFT\tFINAL REL\tVERDICT\tTREND")
			for _, name := range names {
				res, err := reg.Run(cmd.Context(), "energy-conservation", experiment.Input{
					Params:     dynamo.Params{"x0": x0, "y0": y0},
					Dt:         dt,
					TMax:       tmax,
					Integrator: name,
				})
				if res == nil || res.Conserved == nil {
					return err
				}
				if err != nil {
					logger.Warn("run ended early", "integrator", name, "err", err)
				}

				c := res.Conserved
				maxima := metrics.WindowMaxima(c.Drift, windows)
				verdict := "bounded"
				switch {
				case metrics.Growing(maxima):
					verdict = "growing"
				case !metrics.BoundedDrift(maxima, 1.5):
					verdict = "irregular"
				}
				fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%s\t%s\n", name, c.MaxDrift, c.FinalRelativeDrift, verdict, viz.SparklineChart(maxima, windows))
				series = append(series, c.Drift)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), asciigraph.PlotMany(series,
				asciigraph.Height(12),
				asciigraph.Width(72),
				asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
				asciigraph.Caption(fmt.Sprintf("|H(t) - H(0)| for %v", names)),
			))
			return nil
		},
	}
	cmd.Flags().Float64Var(&x0, "x0", 0.5, "initial angle")
	cmd.Flags().Float64Var(&y0, "y0", 0, "initial angular velocity")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	cmd.Flags().Float64Var(&tmax, "time", 50, "final time")
	cmd.Flags().IntVar(&windows, "windows", 5, "number of windows for the drift trend")
	return cmd
}
