package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Momentum reports the largest change in total linear momentum magnitude
// since the first observation. The snapshot discipline keeps it near zero;
// the sequential one does not.
type Momentum struct {
	name     string
	field    *physics.ForceField
	initial  r3.Vec
	maxDelta float64
	samples  int
}

func NewMomentum(field *physics.ForceField) *Momentum {
	return &Momentum{name: "momentum_drift", field: field}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(bs *dynamo.BodySet, t float64) {
	p := m.field.Momentum(bs)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDelta = math.Max(m.maxDelta, r3.Norm(r3.Sub(p, m.initial)))
}

func (m *Momentum) Value() float64 { return m.maxDelta }

func (m *Momentum) Reset() {
	m.initial = r3.Vec{}
	m.maxDelta = 0
	m.samples = 0
}

// PrimaryDrift is the mean distance of body 0 from where it was first seen.
// It is what a camera following the primary sees move.
type PrimaryDrift struct {
	name    string
	start   r3.Vec
	sum     float64
	samples int
	trail   []float64
}

func NewPrimaryDrift() *PrimaryDrift {
	return &PrimaryDrift{name: "primary_drift"}
}

func (p *PrimaryDrift) Name() string { return p.name }

func (p *PrimaryDrift) Observe(bs *dynamo.BodySet, t float64) {
	if bs.Len() == 0 {
		return
	}
	pos := bs.Position(0)
	if p.samples == 0 {
		p.start = pos
	}
	d := r3.Norm(r3.Sub(pos, p.start))
	p.sum += d
	p.samples++
	p.trail = append(p.trail, d)
}

func (p *PrimaryDrift) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

// Trail is the per-tick distance series.
func (p *PrimaryDrift) Trail() []float64 { return p.trail }

func (p *PrimaryDrift) Reset() {
	p.start = r3.Vec{}
	p.sum = 0
	p.samples = 0
	p.trail = nil
}
