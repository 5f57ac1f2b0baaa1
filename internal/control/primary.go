package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// MassFactor is applied to the primary mass per scale command.
const MassFactor = 10.0

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "+":
		return Up, nil
	case "down", "-":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q: %w", s, dynamo.ErrInvalidConfiguration)
}

// PrimaryMass scales body 0's mass. Commands are unbounded and do not touch
// the radius; the change is visible to the next force evaluation.
type PrimaryMass struct{}

func NewPrimaryMass() *PrimaryMass {
	return &PrimaryMass{}
}

func (c *PrimaryMass) ScaleUp(bs *dynamo.BodySet) {
	bs.SetPrimaryMass(bs.Mass(0) * MassFactor)
}

func (c *PrimaryMass) ScaleDown(bs *dynamo.BodySet) {
	bs.SetPrimaryMass(bs.Mass(0) / MassFactor)
}

func (c *PrimaryMass) Scale(bs *dynamo.BodySet, d Direction) error {
	switch d {
	case Up:
		c.ScaleUp(bs)
	case Down:
		c.ScaleDown(bs)
	default:
		return fmt.Errorf("scale primary mass: %v: %w", d, dynamo.ErrInvalidConfiguration)
	}
	return nil
}
