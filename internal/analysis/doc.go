// Package analysis sweeps parameters and summarizes recorded trajectories.
//
//   - [ScanClosedForm] and [Scan]: bifurcation diagrams over a [Range]
//   - [NewPhasePortrait]: 2D projection of a trajectory, rendered as text
//   - [Crossings] and [MeasuredPeriod]: section crossings of a periodic orbit
//
// # Bifurcation diagrams
//
// Samples are independent, so both scans fan out over a bounded worker
// group and write each sample into its own slot:
//
//	d, err := analysis.ScanClosedForm(ctx, analysis.Range{Min: -2, Max: 2, N: 50}, branches)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(analysis.DiagramToASCII(d, 60, 15))
//
// Missing equilibria are recorded as [dynamo.Undefined].
package analysis
