package equilibrium

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/stability"
)

// Options controls Solve1D. A non-nil ClosedForm takes precedence over the
// bracketed search on [Lo, Hi].
type Options struct {
	ClosedForm func() []float64
	Lo, Hi     float64
	Cells      int
}

// Solve1D returns the classified equilibria of x' = f(x). df may be nil,
// in which case f'(x*) is estimated with central differences. A closed
// form that yields no roots is a valid empty answer; a bracketed search
// without roots reports ErrNoRootFound.
func Solve1D(f, df func(float64) float64, opts Options) ([]dynamo.EquilibriumPoint, error) {
	var roots []float64
	if opts.ClosedForm != nil {
		roots = opts.ClosedForm()
	} else {
		var err error
		roots, err = FindRoots(f, opts.Lo, opts.Hi, opts.Cells)
		if err != nil {
			return nil, err
		}
		if df != nil {
			roots = polish(f, df, roots, cellWidth(opts))
		}
	}

	points := make([]dynamo.EquilibriumPoint, 0, len(roots))
	for _, r := range roots {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		var fp float64
		if df != nil {
			fp = df(r)
		} else {
			fp = stability.NumericDerivative(f, r)
		}
		points = append(points, stability.Point1D(r, fp))
	}
	return points, nil
}

func cellWidth(opts Options) float64 {
	cells := opts.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	return (opts.Hi - opts.Lo) / float64(cells)
}

// polish refines bisected roots with Newton steps. A refinement that fails
// or wanders further than one cell keeps the bisected value.
func polish(f, df func(float64) float64, roots []float64, width float64) []float64 {
	out := make([]float64, len(roots))
	for i, r := range roots {
		out[i] = r
		if p, err := Newton(f, df, r); err == nil && math.Abs(p-r) <= width {
			out[i] = p
		}
	}
	return dedupe(out)
}

// Linear returns the equilibrium set of x' = Ax. A nonsingular matrix has
// only the origin; a singular one has a line (or the whole plane) of
// equilibria.
func Linear(m dynamo.Matrix2) dynamo.EquilibriumSet {
	origin := dynamo.State{0, 0}
	if m.Det() != 0 {
		return dynamo.EquilibriumSet{Isolated: true, Point: origin}
	}

	// Null direction of a rank-one matrix: orthogonal to a non-zero row.
	switch {
	case m.A != 0 || m.B != 0:
		return dynamo.EquilibriumSet{Point: origin, Direction: normalize(dynamo.State{-m.B, m.A})}
	case m.C != 0 || m.D != 0:
		return dynamo.EquilibriumSet{Point: origin, Direction: normalize(dynamo.State{-m.D, m.C})}
	default:
		return dynamo.EquilibriumSet{Point: origin}
	}
}

// LinearPoints classifies the equilibria of x' = Ax. Singular matrices
// yield one non-isolated entry standing for the whole set.
func LinearPoints(m dynamo.Matrix2) []dynamo.EquilibriumPoint {
	set := Linear(m)
	p := stability.Point(set.Point, m)
	if !set.Isolated {
		p.Class = dynamo.NonIsolated
	}
	return []dynamo.EquilibriumPoint{p}
}

func normalize(v dynamo.State) dynamo.State {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// NullclineIntersections finds the points where the nullcline y = curve(x)
// of one coordinate equation meets the zero set of other(x, y), searching
// x in [lo, hi].
func NullclineIntersections(curve func(x float64) float64, other func(x, y float64) float64, lo, hi float64) ([]dynamo.State, error) {
	g := func(x float64) float64 { return other(x, curve(x)) }
	xs, err := FindRoots(g, lo, hi, DefaultCells)
	if err != nil {
		return nil, err
	}
	pts := make([]dynamo.State, 0, len(xs))
	for _, x := range xs {
		pts = append(pts, dynamo.State{x, curve(x)})
	}
	return pts, nil
}

// Classify2D attaches stability information to candidate equilibria of a
// 2D system, using the analytic Jacobian when the system has one. Points
// where the field does not vanish are rejected.
func Classify2D(sys dynamo.System, candidates []dynamo.State) ([]dynamo.EquilibriumPoint, error) {
	if sys.Dim != 2 {
		return nil, fmt.Errorf("%w: %q is not a 2D system", dynamo.ErrInvalidConfiguration, sys.Name)
	}
	points := make([]dynamo.EquilibriumPoint, 0, len(candidates))
	var errs []error
	for _, c := range candidates {
		if v := sys.Field(c, 0); v.MaxAbs() > 1e-6 {
			errs = append(errs, fmt.Errorf("%w: field does not vanish at %v (|f|=%g)", dynamo.ErrNoRootFound, c, v.MaxAbs()))
			continue
		}
		points = append(points, stability.Point(c, stability.JacobianOf(sys, c)))
	}
	return points, errors.Join(errs...)
}
