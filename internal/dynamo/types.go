package dynamo

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a snapshot of one row of a BodySet.
type Body struct {
	Position r3.Vec
	Velocity r3.Vec
	Mass     float64
	Radius   float64
}

// BodySet owns the physical state of every body in a run.
// Positions are in km, velocities in km per simulation time unit,
// masses in kg and radii in km.
type BodySet struct {
	pos    []r3.Vec
	vel    []r3.Vec
	mass   []float64
	radius []float64
}

// NewBodySet allocates n zeroed bodies. Callers populate masses and radii
// through NewBodySetFrom or a generator.
func NewBodySet(n int) *BodySet {
	if n < 0 {
		n = 0
	}
	return &BodySet{
		pos:    make([]r3.Vec, n),
		vel:    make([]r3.Vec, n),
		mass:   make([]float64, n),
		radius: make([]float64, n),
	}
}

// NewBodySetFrom builds a set from explicit rows. Row 0 becomes the primary.
func NewBodySetFrom(bodies []Body) *BodySet {
	bs := NewBodySet(len(bodies))
	for i, b := range bodies {
		bs.pos[i] = b.Position
		bs.vel[i] = b.Velocity
		bs.mass[i] = b.Mass
		bs.radius[i] = b.Radius
	}
	return bs
}

func (bs *BodySet) Len() int { return len(bs.mass) }

func (bs *BodySet) check(i int) {
	if i < 0 || i >= len(bs.mass) {
		panic(&IndexError{Index: i, Len: len(bs.mass)})
	}
}

// Position panics with *IndexError when i is out of range.
func (bs *BodySet) Position(i int) r3.Vec {
	bs.check(i)
	return bs.pos[i]
}

func (bs *BodySet) SetPosition(i int, p r3.Vec) {
	bs.check(i)
	bs.pos[i] = p
}

func (bs *BodySet) Velocity(i int) r3.Vec {
	bs.check(i)
	return bs.vel[i]
}

func (bs *BodySet) SetVelocity(i int, v r3.Vec) {
	bs.check(i)
	bs.vel[i] = v
}

func (bs *BodySet) Mass(i int) float64 {
	bs.check(i)
	return bs.mass[i]
}

func (bs *BodySet) Radius(i int) float64 {
	bs.check(i)
	return bs.radius[i]
}

// SetPrimaryMass replaces the mass of body 0, the only mass that may change
// after generation.
func (bs *BodySet) SetPrimaryMass(m float64) {
	bs.check(0)
	bs.mass[0] = m
}

// Body returns row i, or an error wrapping ErrIndexOutOfRange.
func (bs *BodySet) Body(i int) (Body, error) {
	if i < 0 || i >= len(bs.mass) {
		return Body{}, &IndexError{Index: i, Len: len(bs.mass)}
	}
	return Body{
		Position: bs.pos[i],
		Velocity: bs.vel[i],
		Mass:     bs.mass[i],
		Radius:   bs.radius[i],
	}, nil
}

// Positions returns a copy of every position in index order.
func (bs *BodySet) Positions() []r3.Vec {
	out := make([]r3.Vec, len(bs.pos))
	copy(out, bs.pos)
	return out
}

// Masses and Radii expose the backing slices read-only by convention;
// force kernels iterate them directly.
func (bs *BodySet) Masses() []float64 { return bs.mass }
func (bs *BodySet) Radii() []float64  { return bs.radius }

// PositionsView is the live backing slice. Writers must go through
// SetPosition.
func (bs *BodySet) PositionsView() []r3.Vec { return bs.pos }

func (bs *BodySet) Clone() *BodySet {
	c := NewBodySet(bs.Len())
	copy(c.pos, bs.pos)
	copy(c.vel, bs.vel)
	copy(c.mass, bs.mass)
	copy(c.radius, bs.radius)
	return c
}

// IsValid reports whether every position and velocity component is finite.
func (bs *BodySet) IsValid() bool {
	for i := range bs.pos {
		if !finite(bs.pos[i]) || !finite(bs.vel[i]) {
			return false
		}
	}
	return true
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// TickStats describes one completed tick.
type TickStats struct {
	Tick     uint64
	DeltaT   float64
	SimTime  float64
	Bodies   int
	Duration time.Duration
}
