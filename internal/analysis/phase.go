package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/odelab/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds the (x, y) projection of a recorded 2D trajectory.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait projects a 2D trajectory onto the plane. It returns nil
// for 1D trajectories.
func NewPhasePortrait(traj *dynamo.Trajectory) *PhasePortrait {
	if traj == nil || traj.Len() == 0 || len(traj.States[0]) < 2 {
		return nil
	}
	p := &PhasePortrait{Points: make([]Point, 0, traj.Len())}
	for _, s := range traj.States {
		p.Points = append(p.Points, Point{X: s[0], Y: s[1]})
	}
	return p
}

// Add overlays equilibrium markers or extra samples on the portrait.
func (p *PhasePortrait) Add(pts ...Point) {
	p.Points = append(p.Points, pts...)
}

// PhasePortraitToASCII renders the portrait with axes drawn where they
// cross the visible area.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which coordinate idx crosses
// threshold upwards.
func Crossings(traj *dynamo.Trajectory, idx int, threshold float64) []float64 {
	if traj == nil || traj.Len() < 2 {
		return nil
	}
	var out []float64
	prev := traj.States[0][idx]
	for i := 1; i < traj.Len(); i++ {
		curr := traj.States[i][idx]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			t0, t1 := traj.Times[i-1], traj.Times[i]
			out = append(out, t0+frac*(t1-t0))
		}
		prev = curr
	}
	return out
}

// MeasuredPeriod is the mean spacing between upward crossings, or zero
// when fewer than two crossings were recorded.
func MeasuredPeriod(traj *dynamo.Trajectory, idx int, threshold float64) float64 {
	c := Crossings(traj, idx, threshold)
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}
