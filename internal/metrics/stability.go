package metrics

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of ticks in which every body stayed finite and
// within threshold km of the primary.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bs *dynamo.BodySet, t float64) {
	s.samples++
	if !bs.IsValid() {
		s.violations++
		return
	}
	if bs.Len() == 0 {
		return
	}
	origin := bs.Position(0)
	for i := 1; i < bs.Len(); i++ {
		if r3.Norm(r3.Sub(bs.Position(i), origin)) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
