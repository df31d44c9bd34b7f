package metrics

import "github.com/san-kum/odelab/internal/dynamo"

// Metric is a streaming summary of a run.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// ObserveAll feeds every sample of traj to each metric.
func ObserveAll(traj *dynamo.Trajectory, ms ...Metric) {
	if traj == nil {
		return
	}
	for i, x := range traj.States {
		for _, m := range ms {
			m.Observe(x, traj.Times[i])
		}
	}
}
