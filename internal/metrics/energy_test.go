package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoBodies() *dynamo.BodySet {
	return dynamo.NewBodySetFrom([]dynamo.Body{
		{Mass: 1e24, Radius: 1},
		{Position: r3.Vec{X: 1000}, Velocity: r3.Vec{Z: 2}, Mass: 1e20, Radius: 1},
	})
}

func TestEnergyValue(t *testing.T) {
	field := physics.NewForceField()
	m := NewEnergy(field)
	bs := twoBodies()

	ke := 0.5 * 1e20 * 4
	pe := -physics.G * 1e24 * 1e20 / 1000
	expected := ke + pe

	m.Observe(bs, 0)
	if got := m.Value(); math.Abs(got-expected) > 1e-9*math.Abs(expected) {
		t.Errorf("expected energy %g, got %g", expected, got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	field := physics.NewForceField()
	d := NewEnergyDrift(field)
	bs := twoBodies()

	d.Observe(bs, 0)
	if d.Value() != 0 {
		t.Errorf("first observation drift = %v, want 0", d.Value())
	}

	bs.SetVelocity(1, r3.Vec{Z: 4})
	d.Observe(bs, 1)
	if d.Value() <= 0 {
		t.Errorf("drift after energy change = %v, want > 0", d.Value())
	}
	if len(d.History()) != 2 {
		t.Errorf("history length = %d, want 2", len(d.History()))
	}

	d.Reset()
	if d.Value() != 0 || d.History() != nil {
		t.Error("reset did not clear drift")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentum(physics.NewForceField())
	bs := twoBodies()

	m.Observe(bs, 0)
	bs.SetVelocity(1, r3.Vec{Z: 3})
	m.Observe(bs, 1)

	if got, want := m.Value(), 1e20; math.Abs(got-want) > 1 {
		t.Errorf("momentum drift = %g, want %g", got, want)
	}
}

func TestPrimaryDrift(t *testing.T) {
	p := NewPrimaryDrift()
	bs := twoBodies()

	p.Observe(bs, 0)
	bs.SetPosition(0, r3.Vec{X: 3, Z: 4})
	p.Observe(bs, 1)

	if got := p.Value(); got != 2.5 {
		t.Errorf("mean primary drift = %v, want 2.5", got)
	}
	if trail := p.Trail(); len(trail) != 2 || trail[1] != 5 {
		t.Errorf("trail = %v", trail)
	}
}

func TestStability(t *testing.T) {
	s := NewStability(5000)
	bs := twoBodies()

	s.Observe(bs, 0)
	bs.SetPosition(1, r3.Vec{X: 10000})
	s.Observe(bs, 1)
	bs.SetPosition(1, r3.Vec{X: math.NaN()})
	s.Observe(bs, 2)

	if got, want := s.Value(), 1.0/3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("stability = %v, want %v", got, want)
	}
}
