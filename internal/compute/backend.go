package compute

import "gonum.org/v1/gonum/spatial/r3"

// Backend evaluates the net gravitational force on every body.
// Implementations must treat positions, masses and radii as read-only and
// overwrite every slot of out.
type Backend interface {
	Name() string
	NBodyForces(positions []r3.Vec, masses, radii []float64, g float64, out []r3.Vec)
}

var activeBackend Backend = NewCPUBackend()

func SetBackend(b Backend) {
	if b == nil {
		b = NewCPUBackend()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// PairForce returns the force exerted on body i by body j, directed from i
// toward j. Overlapping bodies (d <= ri+rj) contribute exactly zero.
func PairForce(pi, pj r3.Vec, mi, mj, ri, rj, g float64) r3.Vec {
	d := r3.Sub(pj, pi)
	dist := r3.Norm(d)
	if dist <= ri+rj {
		return r3.Vec{}
	}
	mag := g * mi * mj / (dist * dist)
	return r3.Scale(mag/dist, d)
}

// ForceOn sums PairForce over every j != i.
func ForceOn(i int, positions []r3.Vec, masses, radii []float64, g float64) r3.Vec {
	var f r3.Vec
	pi, mi, ri := positions[i], masses[i], radii[i]
	for j := range positions {
		if j == i {
			continue
		}
		f = r3.Add(f, PairForce(pi, positions[j], mi, masses[j], ri, radii[j], g))
	}
	return f
}
