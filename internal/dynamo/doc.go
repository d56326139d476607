// Package dynamo provides the core types of the orbital particle simulation.
//
// The package defines the values every other core package agrees on:
//
//   - [Particle]: point mass with position, velocity, radius and cell key
//   - [Body]: the fixed central attractor at the origin
//   - [Params]: the configuration bundle, validated with [Params.Validate]
//   - [Integrator]: advances one particle under the central body's gravity
//   - [Snapshot]: read-only per-tick view handed to renderers
//
// # Example
//
//	params := dynamo.DefaultParams()
//	s, _ := sim.New(params, integrators.NewSemiImplicitEuler())
//	s.Populate(params.TargetCount)
//	snap, _ := s.Tick()
//
// # Thread Safety
//
// Particle collections are owned by a single simulator and are NOT safe for
// concurrent use. Snapshots are copies and may be read from any goroutine.
package dynamo
