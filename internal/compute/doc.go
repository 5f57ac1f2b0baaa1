// Package compute provides the gravitational force kernels.
//
// The pair law is Newtonian with collision exclusion: two bodies whose
// separation does not exceed the sum of their radii contribute no force to
// each other. There is no softening term.
//
//	backend := compute.GetBackend()
//	backend.NBodyForces(positions, masses, radii, g, out)
//
// [CPUBackend] evaluates the O(n²) sum serially for small sets and splits
// the outer body index across workers above [ParallelThreshold] bodies.
// Each worker writes only its own output slots, so no locking is needed.
package compute
