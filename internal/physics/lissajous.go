package physics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// frequencyScale fixes the resolution at which frequencies are compared
// for commensurability.
const frequencyScale = 100

// Lissajous drives x(t) = A sin(ω₁t), y(t) = B sin(ω₂t + φ) through the
// time-dependent field ẋ = Aω₁cos(ω₁t), ẏ = Bω₂cos(ω₂t + φ).
type Lissajous struct {
	A, B           float64
	OmegaX, OmegaY float64
	Phi            float64
}

func NewLissajous(p dynamo.Params) (*Lissajous, error) {
	rd := newReader(p)
	l := &Lissajous{
		A:      rd.get("A"),
		B:      rd.get("B"),
		OmegaX: rd.get("omegaX"),
		OmegaY: rd.get("omegaY"),
		Phi:    rd.getOr("phi", 0),
	}
	if rd.err != nil {
		return nil, rd.err
	}
	return l, l.Validate()
}

func (l *Lissajous) Validate() error {
	if err := finite("lissajous", l.A, l.B, l.OmegaX, l.OmegaY, l.Phi); err != nil {
		return err
	}
	if err := positive("lissajous", "omegaX", l.OmegaX); err != nil {
		return err
	}
	return positive("lissajous", "omegaY", l.OmegaY)
}

func (l *Lissajous) System() dynamo.System {
	return dynamo.System{
		Name: "lissajous",
		Dim:  2,
		Field: func(_ dynamo.State, t float64) dynamo.State {
			return dynamo.State{
				l.A * l.OmegaX * math.Cos(l.OmegaX*t),
				l.B * l.OmegaY * math.Cos(l.OmegaY*t+l.Phi),
			}
		},
	}
}

func (l *Lissajous) Initial() dynamo.State {
	return l.Position(0)
}

func (l *Lissajous) Position(t float64) dynamo.State {
	return dynamo.State{l.A * math.Sin(l.OmegaX*t), l.B * math.Sin(l.OmegaY*t+l.Phi)}
}

// FrequencyRatio reduces ω₁:ω₂ to m:n at a resolution of 0.01. rational is
// false when the reduced ratio misses the true one by more than 0.01, or
// when a frequency rounds to zero at that resolution.
func (l *Lissajous) FrequencyRatio() (m, n int, rational bool) {
	wx := int(math.Round(l.OmegaX * frequencyScale))
	wy := int(math.Round(l.OmegaY * frequencyScale))
	if wx == 0 || wy == 0 {
		return 0, 0, false
	}
	g := gcd(wx, wy)
	m, n = wx/g, wy/g
	return m, n, math.Abs(l.OmegaX/l.OmegaY-float64(m)/float64(n)) < 0.01
}

// Period is the closing time 2π/gcd(ω₁, ω₂), equal to m·T₁ = n·T₂. It is
// +Inf for incommensurate frequencies.
func (l *Lissajous) Period() float64 {
	m, _, rational := l.FrequencyRatio()
	if !rational {
		return math.Inf(1)
	}
	return float64(m) * 2 * math.Pi / l.OmegaX
}

func (l *Lissajous) MaxSpeed() float64 {
	return math.Hypot(l.A*l.OmegaX, l.B*l.OmegaY)
}

// ArcLength sums the chord lengths of a sampled curve.
func ArcLength(tr *dynamo.Trajectory) float64 {
	total := 0.0
	for i := 1; i < tr.Len(); i++ {
		total += tr.States[i].Sub(tr.States[i-1]).Norm()
	}
	return total
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

type Shape string

const (
	ShapeDiagonal       Shape = "diagonal-line"
	ShapeAntiDiagonal   Shape = "anti-diagonal-line"
	ShapeAlignedEllipse Shape = "aligned-ellipse"
	ShapeTiltedEllipse  Shape = "tilted-ellipse"
	ShapeFigure         Shape = "lissajous-figure"
)

const (
	sameFrequencyTol = 0.01
	phaseTol         = 0.1
)

func (l *Lissajous) SameFrequency() bool {
	return math.Abs(l.OmegaX-l.OmegaY) < sameFrequencyTol
}

// Shape names the curve for equal frequencies from the phase φ folded into
// [0, 2π). Any other ratio gives ShapeFigure.
func (l *Lissajous) Shape() Shape {
	if !l.SameFrequency() {
		return ShapeFigure
	}
	phi := WrapAngle(l.Phi)
	near := func(target float64) bool { return math.Abs(phi-target) < phaseTol }
	switch {
	case near(0) || near(2*math.Pi):
		return ShapeDiagonal
	case near(math.Pi):
		return ShapeAntiDiagonal
	case near(math.Pi/2) || near(3*math.Pi/2):
		return ShapeAlignedEllipse
	default:
		return ShapeTiltedEllipse
	}
}

// Ellipse returns the eccentricity and enclosed area of the equal-frequency
// curve. Its semi-axes are the singular values of [[A, 0], [B cos φ, B sin φ]],
// so the area is πAB|sin φ| and a line has eccentricity 1. ok is false for
// unequal frequencies or a curve collapsed to a point.
func (l *Lissajous) Ellipse() (eccentricity, area float64, ok bool) {
	if !l.SameFrequency() {
		return 0, 0, false
	}
	tr := l.A*l.A + l.B*l.B
	if tr == 0 {
		return 0, 0, false
	}
	cross := l.A * l.B * math.Sin(l.Phi)
	disc := math.Sqrt(math.Max(tr*tr/4-cross*cross, 0))
	major, minor := tr/2+disc, tr/2-disc
	return math.Sqrt(math.Max(1-minor/major, 0)), math.Pi * math.Abs(cross), true
}

// Clockwise reports the sense of rotation of an equal-frequency ellipse.
func (l *Lissajous) Clockwise() bool {
	return l.A*l.B*math.Sin(l.Phi) > 0
}
