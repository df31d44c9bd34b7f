// Package metrics measures how well a run preserves a conserved quantity.
//
// [Track] turns a recorded trajectory into a drift series. [WindowMaxima],
// [Growing] and [BoundedDrift] compare early and late drift to tell a
// symplectic integrator apart from one that leaks energy. The streaming
// [Metric] implementations summarize a run sample by sample.
package metrics
