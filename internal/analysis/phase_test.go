package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func sineTrajectory(dt, tMax float64) *dynamo.Trajectory {
	tr := &dynamo.Trajectory{}
	n := int(tMax / dt)
	for i := 0; i <= n; i++ {
		t := float64(i) * dt
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, dynamo.State{math.Sin(t), math.Cos(t)})
	}
	return tr
}

func TestCrossings(t *testing.T) {
	tr := sineTrajectory(0.01, 20)
	c := Crossings(tr, 0, 0)
	if len(c) != 3 {
		t.Fatalf("got %d crossings %v, want 3", len(c), c)
	}
	for k, ct := range c {
		want := float64(k+1) * 2 * math.Pi
		if math.Abs(ct-want) > 1e-4 {
			t.Errorf("crossing %d at %v, want %v", k, ct, want)
		}
	}
}

func TestMeasuredPeriod(t *testing.T) {
	tr := sineTrajectory(0.01, 30)
	if p := MeasuredPeriod(tr, 0, 0); math.Abs(p-2*math.Pi) > 1e-4 {
		t.Errorf("period = %v, want 2π", p)
	}

	short := sineTrajectory(0.01, 3)
	if p := MeasuredPeriod(short, 0, 0); p != 0 {
		t.Errorf("period of a partial orbit = %v, want 0", p)
	}
}

func TestPhasePortrait(t *testing.T) {
	tr := sineTrajectory(0.05, 7)
	p := NewPhasePortrait(tr)
	if p == nil || len(p.Points) != tr.Len() {
		t.Fatalf("portrait has wrong size")
	}

	out := PhasePortraitToASCII(p, 40, 20)
	if strings.Count(out, "\n") != 20 {
		t.Errorf("expected 20 rows, got %d", strings.Count(out, "\n"))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") {
		t.Errorf("portrait is missing the orbit or the axis:\n%s", out)
	}

	oneD := &dynamo.Trajectory{Times: []float64{0}, States: []dynamo.State{{1}}}
	if NewPhasePortrait(oneD) != nil {
		t.Error("1D trajectory should not produce a portrait")
	}
}
