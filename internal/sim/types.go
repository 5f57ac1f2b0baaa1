package sim

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

type Metric = metrics.Metric

// Observer is notified after every successful tick.
type Observer interface {
	OnTick(bs *dynamo.BodySet, stats dynamo.TickStats)
}

type Config struct {
	// SimRate is simulated seconds per wall second.
	SimRate float64
	// ValidateState fails a tick that leaves a NaN or Inf in the set.
	ValidateState bool
}

// BodyView is what a renderer needs per body.
type BodyView struct {
	Position r3.Vec
	Radius   float64
}

// Frame is the result of one tick. Target is body 0's position, for
// camera tracking.
type Frame struct {
	Tick    uint64
	DeltaT  float64
	SimTime float64
	Target  r3.Vec
	Bodies  []BodyView
}

type Result struct {
	Frames     int
	SimTime    float64
	Metrics    map[string]float64
	Trajectory []r3.Vec
}
