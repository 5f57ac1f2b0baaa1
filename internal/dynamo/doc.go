// Package dynamo provides the core state primitives for the n-body simulation.
//
// The package defines the mutable data store and its error taxonomy:
//
//   - [BodySet]: parallel arrays of position, velocity, mass and radius
//   - [Body]: a read-only row of a [BodySet]
//   - [TickStats]: per-tick bookkeeping handed to observers
//
// Index 0 of every [BodySet] is the primary body. Only its mass may change
// after generation; positions and velocities are written by integrators.
//
// # Example
//
//	bs := dynamo.NewBodySet(2)
//	bs.SetPosition(1, r3.Vec{X: 384400})
//	p := bs.Position(1)
//
// # Thread Safety
//
// BodySet is NOT thread-safe. Concurrent readers are fine as long as no
// goroutine writes during the read.
package dynamo
