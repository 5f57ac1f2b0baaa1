// Package clock converts wall-clock frame times into scaled simulation
// time steps.
package clock

import "time"

// DefaultRate is the number of simulated seconds per wall-clock second.
const DefaultRate = 10000.0

// Clock turns monotonically supplied elapsed wall seconds into scaled
// delta-t values. The zero point is 0 elapsed seconds, so the first call
// with 0 yields a zero step.
type Clock struct {
	rate     float64
	previous float64
	simTime  float64
}

func New(rate float64) *Clock {
	return &Clock{rate: rate}
}

func (c *Clock) Rate() float64 { return c.rate }

// DeltaT returns (elapsed - previous) * rate and records elapsed as the new
// reference. Repeating the same elapsed value yields 0.
func (c *Clock) DeltaT(elapsed float64) float64 {
	dt := (elapsed - c.previous) * c.rate
	c.previous = elapsed
	c.simTime += dt
	return dt
}

// SimTime is the accumulated simulated time since the last Reset.
func (c *Clock) SimTime() float64 { return c.simTime }

func (c *Clock) Reset() {
	c.previous = 0
	c.simTime = 0
}

// Stopwatch reports wall seconds since it was started, the counterpart of a
// render loop's elapsed-time clock.
type Stopwatch struct {
	start time.Time
	now   func() time.Time
}

func NewStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{start: now(), now: now}
}

func (s *Stopwatch) Elapsed() float64 {
	return s.now().Sub(s.start).Seconds()
}

func (s *Stopwatch) Restart() {
	s.start = s.now()
}
