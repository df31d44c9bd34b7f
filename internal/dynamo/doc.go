// Package dynamo provides the core data model for low-dimensional ODE
// analysis.
//
// The package defines the types every other engine package consumes:
//
//   - [State]: a 1D or 2D point in phase space
//   - [Params]: the validated parameter mapping received from callers
//   - [System]: one topic as data (vector field, Jacobian, invariant)
//   - [Trajectory]: time-indexed samples produced by one run
//   - [EquilibriumPoint] and [StabilityClass]: classified fixed points
//   - [Diagram]: index-aligned bifurcation branches
//   - [SimulationResult]: everything one exercise hands to presentation code
//
// # Errors
//
// Failures are reported with the sentinels in errors.go and inspected with
// errors.Is. [ErrDivergence] and [ErrNumericalInstability] come with a
// partial trajectory; [ErrInvalidConfiguration] never does.
//
// # Concurrency
//
// A run owns its State, Params and Trajectory. Independent runs can be
// fanned out with [RunOrdered], which preserves input ordering.
package dynamo
