package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

const (
	background  = "#0a0a0a"
	strokeColor = "#00ccff"
	stableColor = "#00ff88"
	unstableCol = "#ff4444"
)

// bounds maps data coordinates onto an SVG viewport with 10% padding.
type bounds struct {
	minX, minY, rangeX, rangeY float64
	width, height              int
}

func newBounds(xs, ys []float64, width, height int) bounds {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
	}
	for _, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if math.IsInf(minY, 1) {
		minY, maxY = -1, 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	return bounds{minX: minX, minY: minY, rangeX: rangeX * 1.2, rangeY: rangeY * 1.2, width: width, height: height}
}

func (b bounds) project(x, y float64) (float64, float64) {
	return (x - b.minX) / b.rangeX * float64(b.width),
		float64(b.height) - (y-b.minY)/b.rangeY*float64(b.height)
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func marker(sb *strings.Builder, x, y float64, stable bool) {
	if stable {
		fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, stableColor)
		return
	}
	fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"none\" stroke=\"%s\"/>\n", x, y, unstableCol)
}

// PhaseSVG draws the portrait as a polyline and marks the 2D equilibria,
// filled when stable and hollow otherwise.
func PhaseSVG(p *analysis.PhasePortrait, eq []dynamo.EquilibriumPoint, width, height int) string {
	if p == nil || len(p.Points) < 2 {
		return ""
	}

	xs := make([]float64, 0, len(p.Points)+len(eq))
	ys := make([]float64, 0, len(p.Points)+len(eq))
	for _, pt := range p.Points {
		xs, ys = append(xs, pt.X), append(ys, pt.Y)
	}
	b := newBounds(xs, ys, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, pt := range p.Points {
		x, y := b.project(pt.X, pt.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	for _, e := range eq {
		if len(e.State) != 2 {
			continue
		}
		x, y := b.project(e.State[0], e.State[1])
		if x < 0 || y < 0 || x > float64(width) || y > float64(height) {
			continue
		}
		marker(&sb, x, y, stability.Stable(e.Class))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// DiagramSVG draws a bifurcation diagram. Undefined samples are skipped.
func DiagramSVG(d *dynamo.Diagram, width, height int) string {
	if d == nil || d.Len() == 0 {
		return ""
	}

	ys := append(append([]float64{}, d.Stable...), d.Unstable...)
	b := newBounds(d.Params, ys, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	if zx, zy := b.project(d.Params[0], 0); zy >= 0 && zy <= float64(height) {
		ex, _ := b.project(d.Params[d.Len()-1], 0)
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#444466\"/>\n", zx, zy, ex, zy)
	}
	for i, r := range d.Params {
		if !dynamo.IsUndefined(d.Unstable[i]) {
			x, y := b.project(r, d.Unstable[i])
			marker(&sb, x, y, false)
		}
		if !dynamo.IsUndefined(d.Stable[i]) {
			x, y := b.project(r, d.Stable[i])
			marker(&sb, x, y, true)
		}
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// ResultSVG picks the bifurcation diagram when res has one and the phase
// portrait otherwise. It returns "" when nothing is drawable.
func ResultSVG(res *dynamo.SimulationResult, width, height int) string {
	if res.Bifurcation != nil && res.Bifurcation.Len() > 0 {
		return DiagramSVG(res.Bifurcation, width, height)
	}
	if res.Trajectory == nil {
		return ""
	}
	return PhaseSVG(analysis.NewPhasePortrait(res.Trajectory), res.Equilibria, width, height)
}

func WriteSVG(path string, res *dynamo.SimulationResult, width, height int) error {
	svg := ResultSVG(res, width, height)
	if svg == "" {
		return fmt.Errorf("%w: %s has nothing to draw", dynamo.ErrInvalidConfiguration, res.Exercise)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
