// Package physics describes each studied system as data.
//
// Every family is a typed parameter record decoded from [dynamo.Params]
// with its own Validate method, and builds a [dynamo.System] through
// System(). Families also carry whatever closed forms exist for them:
// equilibria, invariants and analytic solutions.
//
//   - [Logistic]: Verhulst growth
//   - [Cooling]: Newton's law of cooling
//   - [SaddleNode]: the normal form r + x²
//   - [Linear]: planar linear systems
//   - [Pendulum]: the frictionless pendulum in Hamiltonian form
//   - [LotkaVolterra]: predator and prey
//   - [Hopf]: the radial Hopf normal form
//   - [Lanchester]: the square law of combat
//   - [Lissajous]: a driven parametrized curve
//
// # Conserved quantities
//
// Families with a first integral expose it as System().Invariant:
//
//	sys := physics.NewPendulum().System()
//	series, err := metrics.Track(sys.Invariant, traj)
package physics
