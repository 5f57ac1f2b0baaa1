package physics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in km³·kg⁻¹·s⁻².
const G = 6.6743e-20

// ForceField computes Newtonian gravity over a BodySet snapshot.
type ForceField struct {
	G       float64
	Backend compute.Backend
}

// NewForceField returns a field using G and the active compute backend.
func NewForceField() *ForceField {
	return &ForceField{
		G:       G,
		Backend: compute.GetBackend(),
	}
}

func (f *ForceField) backend() compute.Backend {
	if f.Backend == nil {
		return compute.GetBackend()
	}
	return f.Backend
}

func (f *ForceField) BackendName() string { return f.backend().Name() }

// ComputeForces returns the net force on every body, in index order.
func (f *ForceField) ComputeForces(bs *dynamo.BodySet) []r3.Vec {
	out := make([]r3.Vec, bs.Len())
	f.ComputeForcesInto(bs, out)
	return out
}

// ComputeForcesInto is ComputeForces writing into a caller-owned buffer of
// length bs.Len().
func (f *ForceField) ComputeForcesInto(bs *dynamo.BodySet, out []r3.Vec) {
	f.backend().NBodyForces(bs.PositionsView(), bs.Masses(), bs.Radii(), f.G, out)
}

// ForceOn returns the net force on body i against the current positions.
func (f *ForceField) ForceOn(bs *dynamo.BodySet, i int) r3.Vec {
	bs.Position(i) // bounds check
	return compute.ForceOn(i, bs.PositionsView(), bs.Masses(), bs.Radii(), f.G)
}

// Energy returns kinetic plus potential energy. Excluded (overlapping) pairs
// carry no potential, matching the force law.
func (f *ForceField) Energy(bs *dynamo.BodySet) float64 {
	n := bs.Len()
	pos, masses, radii := bs.PositionsView(), bs.Masses(), bs.Radii()
	ke, pe := 0.0, 0.0

	for i := 0; i < n; i++ {
		v := bs.Velocity(i)
		ke += 0.5 * masses[i] * r3.Norm2(v)

		for j := i + 1; j < n; j++ {
			r := r3.Norm(r3.Sub(pos[j], pos[i]))
			if r <= radii[i]+radii[j] {
				continue
			}
			pe -= f.G * masses[i] * masses[j] / r
		}
	}

	return ke + pe
}

func (f *ForceField) Momentum(bs *dynamo.BodySet) r3.Vec {
	var p r3.Vec
	for i := 0; i < bs.Len(); i++ {
		p = r3.Add(p, r3.Scale(bs.Mass(i), bs.Velocity(i)))
	}
	return p
}

func (f *ForceField) AngularMomentum(bs *dynamo.BodySet) r3.Vec {
	var l r3.Vec
	for i := 0; i < bs.Len(); i++ {
		l = r3.Add(l, r3.Scale(bs.Mass(i), r3.Cross(bs.Position(i), bs.Velocity(i))))
	}
	return l
}

// CircularSpeed is the speed of a circular orbit at distance r around mass m.
func CircularSpeed(m, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(G * m / r)
}
