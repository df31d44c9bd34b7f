package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/dynamo"
)

func saddleNodeBranches(r float64) (float64, float64) {
	if r >= 0 {
		return dynamo.Undefined(), dynamo.Undefined()
	}
	s := math.Sqrt(-r)
	return -s, s
}

func saddleNodeFamily(r float64) (func(float64) float64, func(float64) float64) {
	return func(x float64) float64 { return r + x*x },
		func(x float64) float64 { return 2 * x }
}

func TestScanClosedFormSaddleNode(t *testing.T) {
	g := NewWithT(t)

	d, err := ScanClosedForm(context.Background(), Range{Min: -2, Max: 2, N: 50}, saddleNodeBranches)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Params).To(HaveLen(51))
	g.Expect(d.Stable).To(HaveLen(51))
	g.Expect(d.Unstable).To(HaveLen(51))
	g.Expect(d.Params[0]).To(Equal(-2.0))
	g.Expect(d.Params[50]).To(Equal(2.0))
	g.Expect(d.Params[25]).To(Equal(0.0))

	for i, r := range d.Params {
		if r >= 0 {
			g.Expect(dynamo.IsUndefined(d.Stable[i])).To(BeTrue(), "stable branch at r=%v", r)
			g.Expect(dynamo.IsUndefined(d.Unstable[i])).To(BeTrue(), "unstable branch at r=%v", r)
			continue
		}
		g.Expect(d.Stable[i]).To(BeNumerically("~", -math.Sqrt(-r), 1e-12))
		g.Expect(d.Unstable[i]).To(BeNumerically("~", math.Sqrt(-r), 1e-12))
	}
}

func TestScanPreservesOrder(t *testing.T) {
	g := NewWithT(t)

	s := Scanner{Workers: 8}
	d, err := s.ScanClosedForm(context.Background(), Range{Min: 0, Max: 1, N: 200}, func(r float64) (float64, float64) {
		return r, -r
	})
	g.Expect(err).NotTo(HaveOccurred())
	for i := range d.Params {
		g.Expect(d.Stable[i]).To(Equal(d.Params[i]))
		g.Expect(d.Unstable[i]).To(Equal(-d.Params[i]))
	}
}

func TestScanSolver(t *testing.T) {
	g := NewWithT(t)

	rng := Range{Min: -2, Max: 1, N: 3}
	d, err := Scan(context.Background(), rng, saddleNodeFamily, Bracket{Lo: -3, Hi: 3})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Params).To(Equal([]float64{-2, -1, 0, 1}))

	g.Expect(d.Stable[0]).To(BeNumerically("~", -math.Sqrt2, 1e-7))
	g.Expect(d.Unstable[0]).To(BeNumerically("~", math.Sqrt2, 1e-7))
	g.Expect(d.Stable[1]).To(BeNumerically("~", -1, 1e-7))
	g.Expect(d.Unstable[1]).To(BeNumerically("~", 1, 1e-7))
	g.Expect(d.Equilibria[1]).To(HaveLen(2))

	// r = 1 has no real equilibrium.
	g.Expect(dynamo.IsUndefined(d.Stable[3])).To(BeTrue())
	g.Expect(dynamo.IsUndefined(d.Unstable[3])).To(BeTrue())
	g.Expect(d.Equilibria[3]).To(BeEmpty())
}

func TestScanMatchesClosedForm(t *testing.T) {
	g := NewWithT(t)

	rng := Range{Min: -2, Max: -0.1, N: 19}
	closed, err := ScanClosedForm(context.Background(), rng, saddleNodeBranches)
	g.Expect(err).NotTo(HaveOccurred())
	solved, err := Scan(context.Background(), rng, saddleNodeFamily, Bracket{Lo: -3, Hi: 3})
	g.Expect(err).NotTo(HaveOccurred())

	for i := range closed.Params {
		g.Expect(solved.Stable[i]).To(BeNumerically("~", closed.Stable[i], 1e-7))
		g.Expect(solved.Unstable[i]).To(BeNumerically("~", closed.Unstable[i], 1e-7))
	}
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name string
		rng  Range
	}{
		{"reversed", Range{Min: 1, Max: -1, N: 10}},
		{"empty", Range{Min: 1, Max: 1, N: 10}},
		{"no steps", Range{Min: -1, Max: 1, N: 0}},
		{"nan", Range{Min: math.NaN(), Max: 1, N: 10}},
		{"inf", Range{Min: -1, Max: math.Inf(1), N: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := ScanClosedForm(context.Background(), tt.rng, saddleNodeBranches)
			g.Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})
	}
}

func TestScanCanceled(t *testing.T) {
	g := NewWithT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanClosedForm(ctx, Range{Min: -1, Max: 1, N: 10}, saddleNodeBranches)
	g.Expect(errors.Is(err, context.Canceled)).To(BeTrue())
}

func TestDiagramToASCII(t *testing.T) {
	g := NewWithT(t)

	d, err := ScanClosedForm(context.Background(), Range{Min: -2, Max: 2, N: 50}, saddleNodeBranches)
	g.Expect(err).NotTo(HaveOccurred())

	out := DiagramToASCII(d, 51, 10)
	g.Expect(out).To(ContainSubstring("•"))
	g.Expect(out).To(ContainSubstring("○"))
	g.Expect(strings.Count(out, "\n")).To(Equal(10))

	empty, err := ScanClosedForm(context.Background(), Range{Min: 0, Max: 1, N: 4}, saddleNodeBranches)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(DiagramToASCII(empty, 20, 5)).To(BeEmpty())
}
