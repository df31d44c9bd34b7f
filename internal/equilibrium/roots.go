package equilibrium

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/odelab/internal/dynamo"
)

const (
	// Tolerance is the convergence threshold for every root search.
	Tolerance = 1e-8

	maxBisectIter = 200
	maxNewtonIter = 100

	// DefaultCells is the bracket subdivision used by FindRoots.
	DefaultCells = 400
)

// Bisect finds a root of f in [lo, hi]. The bracket must contain a sign
// change.
func Bisect(f func(float64) float64, lo, hi float64) (float64, error) {
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("%w: invalid bracket [%v, %v]", dynamo.ErrInvalidConfiguration, lo, hi)
	}

	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if math.Signbit(flo) == math.Signbit(fhi) || math.IsNaN(flo) || math.IsNaN(fhi) {
		return 0, fmt.Errorf("%w: no sign change on [%v, %v]", dynamo.ErrNoRootFound, lo, hi)
	}

	for i := 0; i < maxBisectIter; i++ {
		mid := lo + (hi-lo)/2
		fm := f(mid)
		if fm == 0 || (hi-lo)/2 < Tolerance {
			return mid, nil
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}

	return 0, fmt.Errorf("%w: bisection did not converge on [%v, %v]", dynamo.ErrNoRootFound, lo, hi)
}

// Newton refines x0 with Newton's method.
func Newton(f, df func(float64) float64, x0 float64) (float64, error) {
	x := x0
	for i := 0; i < maxNewtonIter; i++ {
		fx := f(x)
		if math.Abs(fx) < Tolerance*Tolerance {
			return x, nil
		}
		d := df(x)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, fmt.Errorf("%w: newton derivative vanished at x=%v", dynamo.ErrNoRootFound, x)
		}
		next := x - fx/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, fmt.Errorf("%w: newton iterate left the reals at x=%v", dynamo.ErrNoRootFound, x)
		}
		if math.Abs(next-x) < Tolerance {
			return next, nil
		}
		x = next
	}
	return 0, fmt.Errorf("%w: newton did not converge from x0=%v", dynamo.ErrNoRootFound, x0)
}

// FindRoots scans [lo, hi] in cells subintervals and bisects every sign
// change. Grid points where f is exactly zero are kept. Roots are returned
// sorted and de-duplicated.
func FindRoots(f func(float64) float64, lo, hi float64, cells int) ([]float64, error) {
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, fmt.Errorf("%w: invalid bracket [%v, %v]", dynamo.ErrInvalidConfiguration, lo, hi)
	}
	if cells <= 0 {
		cells = DefaultCells
	}

	width := (hi - lo) / float64(cells)
	var roots []float64

	a := lo
	fa := f(a)
	if fa == 0 {
		roots = append(roots, a)
	}
	for i := 1; i <= cells; i++ {
		b := lo + float64(i)*width
		if i == cells {
			b = hi
		}
		fb := f(b)

		switch {
		case fb == 0:
			roots = append(roots, b)
		case fa != 0 && !math.IsNaN(fa) && !math.IsNaN(fb) && math.Signbit(fa) != math.Signbit(fb):
			if r, err := Bisect(f, a, b); err == nil {
				roots = append(roots, r)
			}
		}

		a, fa = b, fb
	}

	roots = dedupe(roots)
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no sign change on [%v, %v]", dynamo.ErrNoRootFound, lo, hi)
	}
	return roots, nil
}

func dedupe(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}
	sort.Float64s(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if math.Abs(x-out[len(out)-1]) > 10*Tolerance {
			out = append(out, x)
		}
	}
	return out
}
