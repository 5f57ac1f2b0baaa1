package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Discipline selects how positions written during a tick are seen by the
// bodies updated after them.
type Discipline string

const (
	// DisciplineSnapshot evaluates all forces from one snapshot, then
	// updates every body. Pairwise updates are symmetric.
	DisciplineSnapshot Discipline = "snapshot"
	// DisciplineSequential evaluates body i's force after bodies 0..i-1
	// have already moved this tick (Gauss-Seidel order).
	DisciplineSequential Discipline = "sequential"
)

func ParseDiscipline(s string) (Discipline, error) {
	switch Discipline(strings.ToLower(strings.TrimSpace(s))) {
	case "", DisciplineSnapshot:
		return DisciplineSnapshot, nil
	case DisciplineSequential:
		return DisciplineSequential, nil
	}
	return "", fmt.Errorf("unknown discipline %q: %w", s, dynamo.ErrInvalidConfiguration)
}

// Stepper advances a body set by one tick.
type Stepper interface {
	Step(bs *dynamo.BodySet, field *physics.ForceField, dt float64) error
	Discipline() Discipline
}

func New(d Discipline) (Stepper, error) {
	switch d {
	case DisciplineSnapshot, "":
		return NewSnapshot(), nil
	case DisciplineSequential:
		return NewSequential(), nil
	}
	return nil, fmt.Errorf("unknown discipline %q: %w", d, dynamo.ErrInvalidConfiguration)
}

type Snapshot struct {
	forces []r3.Vec
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

func (s *Snapshot) Discipline() Discipline { return DisciplineSnapshot }

func (s *Snapshot) Step(bs *dynamo.BodySet, field *physics.ForceField, dt float64) error {
	if len(s.forces) != bs.Len() {
		s.forces = make([]r3.Vec, bs.Len())
	}
	field.ComputeForcesInto(bs, s.forces)
	return Apply(bs, s.forces, dt)
}

type Sequential struct{}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Discipline() Discipline { return DisciplineSequential }

func (s *Sequential) Step(bs *dynamo.BodySet, field *physics.ForceField, dt float64) error {
	if err := checkMasses(bs); err != nil {
		return err
	}
	for i := 0; i < bs.Len(); i++ {
		if err := Advance(bs, i, field.ForceOn(bs, i), dt); err != nil {
			return err
		}
	}
	return nil
}
