package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Track evaluates h along traj and records the drift from H(x_0).
func Track(h func(dynamo.State) float64, traj *dynamo.Trajectory) (*dynamo.ConservedSeries, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: no conserved quantity", dynamo.ErrInvalidConfiguration)
	}
	if traj == nil || traj.Len() == 0 {
		return nil, fmt.Errorf("%w: empty trajectory", dynamo.ErrInvalidConfiguration)
	}

	n := traj.Len()
	cs := &dynamo.ConservedSeries{
		Initial: h(traj.States[0]),
		Values:  make([]float64, n),
		Drift:   make([]float64, n),
	}
	for i, x := range traj.States {
		v := h(x)
		cs.Values[i] = v
		cs.Drift[i] = math.Abs(v - cs.Initial)
		cs.MaxDrift = math.Max(cs.MaxDrift, cs.Drift[i])
	}
	cs.FinalRelativeDrift = relative(cs.Values[n-1], cs.Initial)
	return cs, nil
}

// WindowMaxima splits series into k consecutive windows of equal length
// and returns the maximum of each. Leftover samples join the last window.
func WindowMaxima(series []float64, k int) []float64 {
	if k <= 0 || len(series) < k {
		return nil
	}
	w := len(series) / k
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		end := (i + 1) * w
		if i == k-1 {
			end = len(series)
		}
		m := series[i*w]
		for _, v := range series[i*w : end] {
			m = math.Max(m, v)
		}
		out[i] = m
	}
	return out
}

// Growing reports strictly increasing window maxima, the drift signature
// of a non-symplectic integrator on a conservative system.
func Growing(maxima []float64) bool {
	if len(maxima) < 2 {
		return false
	}
	for i := 1; i < len(maxima); i++ {
		if !(maxima[i] > maxima[i-1]) {
			return false
		}
	}
	return true
}

// BoundedDrift reports whether the last window's maximum stays within
// factor times the first one.
func BoundedDrift(maxima []float64, factor float64) bool {
	if len(maxima) == 0 {
		return false
	}
	return maxima[len(maxima)-1] <= factor*maxima[0]
}
