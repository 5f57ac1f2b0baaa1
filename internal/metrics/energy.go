package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Energy is the mean total energy over all observed ticks.
type Energy struct {
	name        string
	field       *physics.ForceField
	samples     int
	totalEnergy float64
}

func NewEnergy(field *physics.ForceField) *Energy {
	return &Energy{
		name:  "energy",
		field: field,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bs *dynamo.BodySet, t float64) {
	e.totalEnergy += e.field.Energy(bs)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// energy. History keeps every relative drift for plotting.
type EnergyDrift struct {
	name          string
	field         *physics.ForceField
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	history       []float64
}

func NewEnergyDrift(field *physics.ForceField) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		field: field,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bs *dynamo.BodySet, t float64) {
	energy := e.field.Energy(bs)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	drift := 0.0
	if e.initialEnergy != 0 {
		drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.history = append(e.history, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) History() []float64 {
	return e.history
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history = nil
}
