package models

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Generator builds the initial body set for a run.
type Generator interface {
	Generate(n int) (*dynamo.BodySet, error)
}

// up is the vertical axis of the world frame; the disc lies in the XZ plane.
var up = r3.Vec{Y: 1}

// Disc scatters secondaries in a thin disc around a primary at the origin.
type Disc struct {
	Constants Constants
	rng       *rand.Rand
}

func NewDisc(c Constants, seed int64) *Disc {
	return &Disc{
		Constants: c,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (d *Disc) Generate(n int) (*dynamo.BodySet, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if err := d.Constants.Validate(); err != nil {
		return nil, err
	}

	c := d.Constants
	bodies := make([]dynamo.Body, n)
	bodies[0] = dynamo.Body{Mass: c.PrimaryMass, Radius: c.PrimaryRadius}

	for i := 1; i < n; i++ {
		pos := d.samplePosition()
		mass, radius := d.sampleMass()
		bodies[i] = dynamo.Body{
			Position: pos,
			Velocity: d.seedVelocity(pos),
			Mass:     mass,
			Radius:   radius,
		}
	}

	return dynamo.NewBodySetFrom(bodies), nil
}

func (d *Disc) sign() float64 {
	if d.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func (d *Disc) samplePosition() r3.Vec {
	dist := d.Constants.OrbitalDistance
	return r3.Vec{
		X: d.sign() * d.rng.Float64() * dist,
		Y: d.rng.Float64() * d.Constants.VerticalSpread * dist,
		Z: d.sign() * d.rng.Float64() * dist,
	}
}

func (d *Disc) sampleMass() (mass, radius float64) {
	c := d.Constants
	if d.rng.Float64() < c.LargeBodyProbability {
		return c.PrimaryMass, c.PrimaryRadius
	}
	for mass == 0 {
		mass = d.rng.Float64() * SecondaryMassSpan * c.MoonMass
	}
	return mass, mass / c.MassRadiusRatio
}

// seedVelocity rotates the unit position 90° about the vertical axis and
// scales it by a random speed, approximating a circular-orbit direction.
func (d *Disc) seedVelocity(pos r3.Vec) r3.Vec {
	norm := r3.Norm(pos)
	if norm == 0 {
		return r3.Vec{}
	}
	tangent := r3.Rotate(r3.Scale(1/norm, pos), math.Pi/2, up)
	return r3.Scale(d.rng.Float64()*d.Constants.MaxSeedSpeed, tangent)
}

// Fixed replays an explicit body list, typically loaded from a scenario file.
type Fixed struct {
	Bodies []dynamo.Body
}

// Generate returns the first n listed bodies.
func (f *Fixed) Generate(n int) (*dynamo.BodySet, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if n > len(f.Bodies) {
		return nil, fmt.Errorf("scenario lists %d bodies, %d requested: %w", len(f.Bodies), n, dynamo.ErrInvalidConfiguration)
	}
	for i, b := range f.Bodies[:n] {
		if !(b.Mass > 0) || b.Radius < 0 {
			return nil, fmt.Errorf("scenario body %d: mass %g radius %g: %w", i, b.Mass, b.Radius, dynamo.ErrInvalidConfiguration)
		}
	}
	return dynamo.NewBodySetFrom(f.Bodies[:n]), nil
}

func validateCount(n int) error {
	if n < 1 {
		return fmt.Errorf("body count must be >= 1, got %d: %w", n, dynamo.ErrInvalidConfiguration)
	}
	return nil
}
