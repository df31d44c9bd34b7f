package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/equilibrium"
	"github.com/san-kum/odelab/internal/stability"
)

// Range is the swept parameter interval, sampled at N+1 evenly spaced
// points including both ends.
type Range struct {
	Min, Max float64
	N        int
}

func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsInf(r.Min, 0) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("%w: range bounds must be finite, got [%v, %v]", dynamo.ErrInvalidConfiguration, r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("%w: range min %v must be below max %v", dynamo.ErrInvalidConfiguration, r.Min, r.Max)
	}
	if r.N < 1 {
		return fmt.Errorf("%w: range needs at least one step, got %d", dynamo.ErrInvalidConfiguration, r.N)
	}
	return nil
}

// At returns the i-th sample r_i = Min + i·(Max-Min)/N.
func (r Range) At(i int) float64 {
	if i == r.N {
		return r.Max
	}
	return r.Min + float64(i)*(r.Max-r.Min)/float64(r.N)
}

// Branches evaluates the closed-form equilibria at parameter r. Either value
// may be dynamo.Undefined().
type Branches func(r float64) (stable, unstable float64)

// Family1D builds the field x' = f(x) and its derivative for parameter r.
// df may be nil.
type Family1D func(r float64) (f, df func(x float64) float64)

// Bracket is the x interval searched at every sample.
type Bracket struct {
	Lo, Hi float64
	Cells  int
}

// Scanner sweeps a bifurcation parameter. Samples are computed on up to
// Workers goroutines; output order always follows the parameter order.
type Scanner struct {
	Workers int
}

var defaultScanner = Scanner{}

func ScanClosedForm(ctx context.Context, rng Range, branches Branches) (*dynamo.Diagram, error) {
	return defaultScanner.ScanClosedForm(ctx, rng, branches)
}

func Scan(ctx context.Context, rng Range, family Family1D, bracket Bracket) (*dynamo.Diagram, error) {
	return defaultScanner.Scan(ctx, rng, family, bracket)
}

func (s Scanner) ScanClosedForm(ctx context.Context, rng Range, branches Branches) (*dynamo.Diagram, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if branches == nil {
		return nil, fmt.Errorf("%w: no branch function", dynamo.ErrInvalidConfiguration)
	}

	d := newDiagram(rng)
	err := dynamo.RunOrdered(ctx, rng.N+1, s.Workers, func(_ context.Context, i int) error {
		d.Stable[i], d.Unstable[i] = branches(d.Params[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Scan solves for the equilibria at every sample and routes them to the
// stable or unstable branch by their 1D classification. Samples without a
// root keep the undefined sentinel. When several roots share a stability
// the one closest to the bracket's low end is plotted; all of them are
// kept in Diagram.Equilibria.
func (s Scanner) Scan(ctx context.Context, rng Range, family Family1D, bracket Bracket) (*dynamo.Diagram, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("%w: no family", dynamo.ErrInvalidConfiguration)
	}

	d := newDiagram(rng)
	d.Equilibria = make([][]dynamo.EquilibriumPoint, rng.N+1)

	err := dynamo.RunOrdered(ctx, rng.N+1, s.Workers, func(_ context.Context, i int) error {
		f, df := family(d.Params[i])
		points, err := equilibrium.Solve1D(f, df, equilibrium.Options{Lo: bracket.Lo, Hi: bracket.Hi, Cells: bracket.Cells})
		if err != nil {
			if errors.Is(err, dynamo.ErrNoRootFound) {
				return nil
			}
			return fmt.Errorf("sample %d (r=%v): %w", i, d.Params[i], err)
		}

		d.Equilibria[i] = points
		for _, p := range points {
			switch {
			case stability.Stable(p.Class) && dynamo.IsUndefined(d.Stable[i]):
				d.Stable[i] = p.State[0]
			case p.Class == dynamo.UnstableNode && dynamo.IsUndefined(d.Unstable[i]):
				d.Unstable[i] = p.State[0]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func newDiagram(rng Range) *dynamo.Diagram {
	n := rng.N + 1
	d := &dynamo.Diagram{
		Params:   make([]float64, n),
		Stable:   make([]float64, n),
		Unstable: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.Params[i] = rng.At(i)
		d.Stable[i] = dynamo.Undefined()
		d.Unstable[i] = dynamo.Undefined()
	}
	return d
}

// DiagramToASCII plots a diagram with stable samples as '•' and unstable
// ones as '○'. Undefined samples are left blank.
func DiagramToASCII(d *dynamo.Diagram, width, height int) string {
	if d == nil || d.Len() == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for i := 0; i < d.Len(); i++ {
		for _, v := range [2]float64{d.Stable[i], d.Unstable[i]} {
			if dynamo.IsUndefined(v) {
				continue
			}
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(col int, v float64, mark rune) {
		if dynamo.IsUndefined(v) {
			return
		}
		row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = mark
		}
	}

	for i := 0; i < d.Len(); i++ {
		col := i * width / d.Len()
		if col >= width {
			col = width - 1
		}
		plot(col, d.Unstable[i], '○')
		plot(col, d.Stable[i], '•')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
