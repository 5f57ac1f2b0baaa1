package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDisc_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := NewDisc(DefaultConstants(), 1).Generate(n)
		if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidConfiguration", n, err)
		}
	}
}

func TestDisc_SingleBody(t *testing.T) {
	bs, err := NewDisc(DefaultConstants(), 1).Generate(1)
	if err != nil {
		t.Fatal(err)
	}
	if bs.Len() != 1 {
		t.Fatalf("Len() = %d", bs.Len())
	}
	if bs.Mass(0) != EarthMass || bs.Radius(0) != EarthRadius {
		t.Errorf("primary = %g kg / %g km", bs.Mass(0), bs.Radius(0))
	}
}

func TestDisc_Invariants(t *testing.T) {
	c := DefaultConstants()
	bs, err := NewDisc(c, 42).Generate(500)
	if err != nil {
		t.Fatal(err)
	}

	if bs.Position(0) != (r3.Vec{}) || bs.Velocity(0) != (r3.Vec{}) {
		t.Errorf("primary not at rest at origin: %v %v", bs.Position(0), bs.Velocity(0))
	}

	maxY := c.VerticalSpread * c.OrbitalDistance
	for i := 1; i < bs.Len(); i++ {
		p, v := bs.Position(i), bs.Velocity(i)
		if math.Abs(p.X) >= c.OrbitalDistance || math.Abs(p.Z) >= c.OrbitalDistance {
			t.Errorf("body %d outside horizontal range: %v", i, p)
		}
		if p.Y < 0 || p.Y >= maxY {
			t.Errorf("body %d outside vertical range: %v", i, p)
		}

		m, r := bs.Mass(i), bs.Radius(i)
		switch {
		case m == c.PrimaryMass:
			if r != c.PrimaryRadius {
				t.Errorf("large body %d radius = %v", i, r)
			}
		case m <= 0 || m >= SecondaryMassSpan*c.MoonMass:
			t.Errorf("body %d mass %g outside (0, %g)", i, m, SecondaryMassSpan*c.MoonMass)
		case math.Abs(r-m/c.MassRadiusRatio) > 1e-9*r:
			t.Errorf("body %d radius %v, want %v", i, r, m/c.MassRadiusRatio)
		}

		// tangential: horizontal parts of position and velocity are perpendicular
		h := p.X*v.X + p.Z*v.Z
		if math.Abs(h) > 1e-9*r3.Norm(p)*(r3.Norm(v)+1) {
			t.Errorf("body %d velocity %v not tangential to %v", i, v, p)
		}
		if r3.Norm(v) > c.MaxSeedSpeed+1e-12 {
			t.Errorf("body %d speed %v exceeds %v", i, r3.Norm(v), c.MaxSeedSpeed)
		}
	}
}

func TestDisc_SeedReproducible(t *testing.T) {
	a, _ := NewDisc(DefaultConstants(), 9).Generate(20)
	b, _ := NewDisc(DefaultConstants(), 9).Generate(20)

	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) || a.Mass(i) != b.Mass(i) {
			t.Fatalf("body %d differs between runs with the same seed", i)
		}
	}
}

func TestDisc_LargeBodies(t *testing.T) {
	c := DefaultConstants()
	c.LargeBodyProbability = 1
	bs, err := NewDisc(c, 3).Generate(10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < bs.Len(); i++ {
		if bs.Mass(i) != c.PrimaryMass || bs.Radius(i) != c.PrimaryRadius {
			t.Errorf("body %d = %g kg / %g km, want primary-sized", i, bs.Mass(i), bs.Radius(i))
		}
	}
}

func TestDisc_SeedVelocityAtOrigin(t *testing.T) {
	d := NewDisc(DefaultConstants(), 1)
	if v := d.seedVelocity(r3.Vec{}); v != (r3.Vec{}) {
		t.Errorf("seedVelocity(origin) = %v, want zero", v)
	}
}

func TestConstants_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Constants)
	}{
		{"zero primary mass", func(c *Constants) { c.PrimaryMass = 0 }},
		{"negative ratio", func(c *Constants) { c.MassRadiusRatio = -1 }},
		{"NaN distance", func(c *Constants) { c.OrbitalDistance = math.NaN() }},
		{"probability above one", func(c *Constants) { c.LargeBodyProbability = 1.5 }},
		{"negative spread", func(c *Constants) { c.VerticalSpread = -0.1 }},
	}

	if err := DefaultConstants().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConstants()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestFixed_Generate(t *testing.T) {
	f := &Fixed{Bodies: []dynamo.Body{
		{Mass: 1, Radius: 1},
		{Mass: 2, Position: r3.Vec{X: 10}},
		{Mass: 3, Position: r3.Vec{X: 20}},
	}}

	bs, err := f.Generate(2)
	if err != nil {
		t.Fatal(err)
	}
	if bs.Len() != 2 || bs.Mass(1) != 2 {
		t.Errorf("unexpected set: len=%d mass1=%v", bs.Len(), bs.Mass(1))
	}

	if _, err := f.Generate(4); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("Generate(4) = %v, want ErrInvalidConfiguration", err)
	}

	bad := &Fixed{Bodies: []dynamo.Body{{Mass: 0}}}
	if _, err := bad.Generate(1); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("zero-mass scenario accepted: %v", err)
	}
}
