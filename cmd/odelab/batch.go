package main

import (
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/automation"
	"github.com/san-kum/odelab/internal/experiment"
	"github.com/san-kum/odelab/internal/viz"
)

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			results, runErr := automation.RunScenario(cmd.Context(), sc, registry(), logger)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tEXERCISE\tRUN\tSTATUS")
			for i, r := range results {
				status := "ok"
				if r.Err != nil {
					status = viz.Warning.Render("partial")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, r.Step.Exercise, r.Result.ID, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return runErr
		},
	}
}

func sweepCmd() *cobra.Command {
	var (
		param, metric string
		rng           analysis.Range
	)
	cmd := &cobra.Command{
		Use:   "sweep [exercise]",
		Short: "run an exercise across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep := &automation.ParameterSweep{
				Exercise: args[0],
				Param:    param,
				Range:    rng,
				Base:     experiment.Input{},
				Workers:  workers,
			}
			points, err := automation.RunSweep(cmd.Context(), sweep, registry())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if metric == "" {
				fmt.Fprintln(out, "available metrics:", metricNames(points))
				return nil
			}

			values := make([]float64, 0, len(points))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t\n", param, metric)
			for _, p := range points {
				cell := "-"
				if v, ok := p.Info[metric]; ok {
					cell = strconv.FormatFloat(v, 'g', 8, 64)
					values = append(values, v)
				} else if p.Err != nil {
					cell = "error"
				}
				fmt.Fprintf(w, "%.4f\t%s\t\n", p.Value, cell)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			complete, partial, failed := automation.SweepStats(points)
			fmt.Fprintln(out, viz.Subtle.Render(fmt.Sprintf("%d complete, %d partial, %d failed", complete, partial, failed)))
			if len(values) > 1 {
				fmt.Fprintln(out, asciigraph.Plot(values,
					asciigraph.Height(10),
					asciigraph.Width(72),
					asciigraph.Caption(fmt.Sprintf("%s vs %s in [%g, %g]", metric, param, rng.Min, rng.Max)),
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&param, "param", "", "parameter to vary")
	cmd.Flags().StringVar(&metric, "metric", "", "info value to report (empty lists them)")
	cmd.Flags().Float64Var(&rng.Min, "min", 0, "first parameter value")
	cmd.Flags().Float64Var(&rng.Max, "max", 1, "last parameter value")
	cmd.Flags().IntVar(&rng.N, "n", 10, "number of intervals (n+1 runs)")
	return cmd
}

func metricNames(points []automation.SweepPoint) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range points {
		for k := range p.Info {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}
