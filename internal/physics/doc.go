// Package physics provides the gravitational force field and conservation
// diagnostics for a [dynamo.BodySet].
//
// [ForceField.ComputeForces] evaluates every body against one snapshot of
// positions; [ForceField.ForceOn] evaluates a single body against whatever
// the set holds right now, which is what the sequential integration
// discipline relies on.
//
// # Energy Conservation
//
// The integrator is not symplectic, so total energy drifts:
//
//	field := physics.NewForceField()
//	e0 := field.Energy(bs)
//	// ... ticks ...
//	drift := math.Abs(field.Energy(bs)-e0) / math.Abs(e0)
package physics
