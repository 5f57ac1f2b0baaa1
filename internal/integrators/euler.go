package integrators

import (
	"fmt"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Advance applies one constant-acceleration step to body i and writes the
// new position and velocity back immediately:
//
//	a  = F / m
//	v' = v + a·dt
//	x' = x + v·dt + ½·a·dt²
func Advance(bs *dynamo.BodySet, i int, force r3.Vec, dt float64) error {
	m := bs.Mass(i)
	if m <= 0 {
		return &dynamo.SimulationError{Body: i, Wrapped: dynamo.ErrDivisionByZero}
	}

	acc := r3.Scale(1/m, force)
	vel := bs.Velocity(i)
	pos := bs.Position(i)

	disp := r3.Add(r3.Scale(dt, vel), r3.Scale(0.5*dt*dt, acc))
	bs.SetVelocity(i, r3.Add(vel, r3.Scale(dt, acc)))
	bs.SetPosition(i, r3.Add(pos, disp))
	return nil
}

// Apply advances every body in index order using precomputed forces.
// Masses are checked up front so a failure leaves bs untouched.
func Apply(bs *dynamo.BodySet, forces []r3.Vec, dt float64) error {
	if len(forces) != bs.Len() {
		return fmt.Errorf("integrators: %d forces for %d bodies: %w", len(forces), bs.Len(), dynamo.ErrInvalidState)
	}
	if err := checkMasses(bs); err != nil {
		return err
	}
	for i := range forces {
		if err := Advance(bs, i, forces[i], dt); err != nil {
			return err
		}
	}
	return nil
}

func checkMasses(bs *dynamo.BodySet) error {
	for i, m := range bs.Masses() {
		if m <= 0 {
			return &dynamo.SimulationError{Body: i, Wrapped: dynamo.ErrDivisionByZero}
		}
	}
	return nil
}
