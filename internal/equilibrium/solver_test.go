package equilibrium

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func TestBisect(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	root, err := Bisect(f, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-7 {
		t.Errorf("root = %v, want %v", root, math.Sqrt2)
	}
}

func TestBisectNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := Bisect(f, -1, 1)
	if !errors.Is(err, dynamo.ErrNoRootFound) {
		t.Errorf("expected ErrNoRootFound, got %v", err)
	}
}

func TestBisectInvalidBracket(t *testing.T) {
	f := func(x float64) float64 { return x }
	_, err := Bisect(f, 1, -1)
	if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestNewton(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }
	df := func(x float64) float64 { return -math.Sin(x) - 1 }
	root, err := Newton(f, df, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f(root)) > 1e-8 {
		t.Errorf("f(root) = %v", f(root))
	}
}

func TestNewtonVanishingDerivative(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }
	_, err := Newton(f, df, 0)
	if !errors.Is(err, dynamo.ErrNoRootFound) {
		t.Errorf("expected ErrNoRootFound, got %v", err)
	}
}

func TestFindRoots(t *testing.T) {
	// Roots at -1, 0 and 2; -1 and 2 land exactly on grid points.
	f := func(x float64) float64 { return x * (x + 1) * (x - 2) }
	roots, err := FindRoots(f, -3, 3, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{-1, 0, 2}
	if len(roots) != len(want) {
		t.Fatalf("got %d roots %v, want %v", len(roots), roots, want)
	}
	for i := range want {
		if math.Abs(roots[i]-want[i]) > 1e-7 {
			t.Errorf("root[%d] = %v, want %v", i, roots[i], want[i])
		}
	}
}

func TestFindRootsNone(t *testing.T) {
	f := func(x float64) float64 { return 1 + x*x }
	_, err := FindRoots(f, -2, 2, 0)
	if !errors.Is(err, dynamo.ErrNoRootFound) {
		t.Errorf("expected ErrNoRootFound, got %v", err)
	}
}

func TestSolve1DLogistic(t *testing.T) {
	r, k := 0.5, 100.0
	f := func(p float64) float64 { return r * p * (1 - p/k) }
	df := func(p float64) float64 { return r * (1 - 2*p/k) }

	points, err := Solve1D(f, df, Options{Lo: -10, Hi: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d equilibria, want 2", len(points))
	}
	if math.Abs(points[0].State[0]) > 1e-7 || points[0].Class != dynamo.UnstableNode {
		t.Errorf("first equilibrium = %+v, want unstable 0", points[0])
	}
	if math.Abs(points[1].State[0]-k) > 1e-6 || points[1].Class != dynamo.StableNode {
		t.Errorf("second equilibrium = %+v, want stable K", points[1])
	}
}

func TestSolve1DRefinesBracketedRoots(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2 }
	df := func(x float64) float64 { return 3 * x * x }
	want := math.Cbrt(2)

	refined, err := Solve1D(f, df, Options{Lo: 0, Hi: 3, Cells: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refined) != 1 || math.Abs(refined[0].State[0]-want) > 1e-14 {
		t.Errorf("refined roots = %+v, want %v", refined, want)
	}
	if refined[0].Class != dynamo.UnstableNode {
		t.Errorf("class = %s, want unstable-node", refined[0].Class)
	}

	bisected, err := Solve1D(f, nil, Options{Lo: 0, Hi: 3, Cells: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(bisected[0].State[0]-want) > Tolerance {
		t.Errorf("bisected root %v not within tolerance of %v", bisected[0].State[0], want)
	}
}

func TestSolve1DClosedFormEmpty(t *testing.T) {
	f := func(x float64) float64 { return 1 + x*x }
	points, err := Solve1D(f, nil, Options{ClosedForm: func() []float64 { return nil }})
	if err != nil {
		t.Fatalf("closed form without roots should not fail: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("got %d points, want none", len(points))
	}
}

func TestSolve1DNumericDerivative(t *testing.T) {
	f := func(x float64) float64 { return -1 + x*x }
	points, err := Solve1D(f, nil, Options{ClosedForm: func() []float64 { return []float64{-1, 1} }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].Class != dynamo.StableNode || points[1].Class != dynamo.UnstableNode {
		t.Errorf("classes = %s, %s", points[0].Class, points[1].Class)
	}
}

func TestLinear(t *testing.T) {
	tests := []struct {
		name     string
		m        dynamo.Matrix2
		isolated bool
		dir      dynamo.State
	}{
		{"nonsingular", dynamo.Matrix2{A: 1, B: 2, C: 3, D: 4}, true, nil},
		{"rank one", dynamo.Matrix2{A: 1, B: 1, C: 2, D: 2}, false, dynamo.State{-1 / math.Sqrt2, 1 / math.Sqrt2}},
		{"zero first row", dynamo.Matrix2{C: 0, D: 3}, false, dynamo.State{-1, 0}},
		{"zero", dynamo.Matrix2{}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Linear(tt.m)
			if set.Isolated != tt.isolated {
				t.Fatalf("Isolated = %v, want %v", set.Isolated, tt.isolated)
			}
			if len(set.Direction) != len(tt.dir) {
				t.Fatalf("Direction = %v, want %v", set.Direction, tt.dir)
			}
			for i := range tt.dir {
				if math.Abs(set.Direction[i]-tt.dir[i]) > 1e-12 {
					t.Errorf("Direction = %v, want %v", set.Direction, tt.dir)
				}
			}
			if len(set.Direction) == 2 {
				if v := tt.m.Apply(set.Direction); v.MaxAbs() > 1e-12 {
					t.Errorf("A·dir = %v, want 0", v)
				}
			}
		})
	}
}

func TestLinearPoints(t *testing.T) {
	pts := LinearPoints(dynamo.Matrix2{A: 1, B: 1, C: 2, D: 2})
	if len(pts) != 1 || pts[0].Class != dynamo.NonIsolated {
		t.Errorf("LinearPoints = %+v, want one non-isolated entry", pts)
	}

	pts = LinearPoints(dynamo.Matrix2{A: 0, B: 1, C: -1, D: 0})
	if pts[0].Class != dynamo.Center {
		t.Errorf("class = %s, want center", pts[0].Class)
	}
}

func TestNullclineIntersections(t *testing.T) {
	// Lotka-Volterra: x' = x(1.5 - y) vanishes on y = 1.5; y' = y(0.75x - 1).
	curve := func(x float64) float64 { return 1.5 }
	other := func(x, y float64) float64 { return y * (0.75*x - 1) }

	pts, err := NullclineIntersections(curve, other, 0.1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("got %v, want one intersection", pts)
	}
	if math.Abs(pts[0][0]-4.0/3) > 1e-7 || pts[0][1] != 1.5 {
		t.Errorf("intersection = %v, want (4/3, 1.5)", pts[0])
	}
}

func TestClassify2D(t *testing.T) {
	sys := dynamo.System{
		Name: "pendulum",
		Dim:  2,
		Field: func(x dynamo.State, _ float64) dynamo.State {
			return dynamo.State{x[1], -math.Sin(x[0])}
		},
	}

	pts, err := Classify2D(sys, []dynamo.State{{0, 0}, {math.Pi, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pts[0].Class != dynamo.Center {
		t.Errorf("origin class = %s, want center", pts[0].Class)
	}
	if pts[1].Class != dynamo.Saddle {
		t.Errorf("(π,0) class = %s, want saddle", pts[1].Class)
	}

	_, err = Classify2D(sys, []dynamo.State{{1, 1}})
	if !errors.Is(err, dynamo.ErrNoRootFound) {
		t.Errorf("expected ErrNoRootFound for a non-equilibrium, got %v", err)
	}
}
