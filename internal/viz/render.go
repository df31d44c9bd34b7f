package viz

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
)

type Options struct {
	Width  int
	Height int
	// Plain skips every plot and prints only steps and numbers.
	Plain bool
	// ASCII draws phase portraits on a character grid with axes instead
	// of braille dots.
	ASCII bool
}

func DefaultOptions() Options {
	return Options{Width: 72, Height: 12}
}

// Render writes res in reading order: steps, info, then plots.
func Render(w io.Writer, res *dynamo.SimulationResult, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	var b strings.Builder
	b.WriteString(Title.Render(res.Exercise))
	if res.ID != "" {
		b.WriteString("  " + Subtle.Render(res.ID))
	}
	b.WriteString("\n\n")

	for i, s := range res.Steps {
		writeStep(&b, i+1, s)
	}

	if len(res.Info) > 0 {
		b.WriteString(Separator(opts.Width) + "\n")
		b.WriteString(InfoTable(res.Info))
	}

	if !opts.Plain {
		b.WriteString(Plots(res, opts))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStep(b *strings.Builder, n int, s dynamo.Step) {
	b.WriteString(StepTitle.Render(fmt.Sprintf("%d. %s", n, s.Title)) + "\n")
	for _, part := range []struct {
		text  string
		style func(...string) string
	}{
		{s.Formula, Formula.Render},
		{s.Substitution, Substitution.Render},
		{s.Result, ResultText.Render},
		{s.Explanation, Explanation.Render},
	} {
		if part.text != "" {
			b.WriteString(part.style(part.text) + "\n")
		}
	}
	b.WriteString("\n")
}

// InfoTable lists info values sorted by name.
func InfoTable(info map[string]float64) string {
	names := make([]string, 0, len(info))
	width := 0
	for name := range info {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		label := name + strings.Repeat(" ", width-len(name))
		b.WriteString(MetricLabel.Render(label) + "  " + MetricValue.Render(strconv.FormatFloat(info[name], 'g', 8, 64)) + "\n")
	}
	return b.String()
}

// Plots draws every plottable part of res.
func Plots(res *dynamo.SimulationResult, opts Options) string {
	var b strings.Builder

	if tr := res.Trajectory; tr != nil && tr.Len() > 1 {
		b.WriteString("\n" + SeriesPlot(tr, opts) + "\n")
		if p := analysis.NewPhasePortrait(tr); p != nil {
			b.WriteString("\n" + Title.Render("phase portrait") + "\n")
			grid := PhaseCanvas(p, opts.Width/2, opts.Height).String()
			if opts.ASCII {
				grid = analysis.PhasePortraitToASCII(p, opts.Width, opts.Height)
			}
			b.WriteString(Panel.Render(strings.TrimRight(grid, "\n")) + "\n")
		}
		if tr.Halted {
			b.WriteString(Subtle.Render(fmt.Sprintf("run halted at t = %g", tr.Times[tr.Len()-1])) + "\n")
		}
	}

	if d := res.Bifurcation; d != nil && d.Len() > 0 {
		b.WriteString("\n" + Title.Render("bifurcation diagram") + "  " + Subtle.Render("• stable  ○ unstable") + "\n")
		b.WriteString(analysis.DiagramToASCII(d, opts.Width, opts.Height*2))
	}

	if c := res.Conserved; c != nil && len(c.Drift) > 1 {
		b.WriteString("\n" + Title.Render("conserved quantity drift") + "\n")
		b.WriteString(SparklineChart(c.Drift, opts.Width) + "\n")
		b.WriteString(asciigraph.Plot(c.Drift,
			asciigraph.Height(opts.Height/2+1),
			asciigraph.Width(opts.Width),
			asciigraph.Caption("|H(t) - H(0)|"),
		) + "\n")
	}

	return b.String()
}

// SeriesPlot draws every coordinate of tr against its sample index.
func SeriesPlot(tr *dynamo.Trajectory, opts Options) string {
	dim := len(tr.States[0])
	series := make([][]float64, dim)
	caption := "x(t)"
	for i := range series {
		series[i] = tr.Component(i)
	}
	if dim == 2 {
		caption = fmt.Sprintf("x(t) and y(t), t in [0, %g]", tr.Times[tr.Len()-1])
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption(caption),
	)
}
