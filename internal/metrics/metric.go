// Package metrics accumulates scalar diagnostics over a run. A Metric is
// fed the body set after every successful tick.
package metrics

import "github.com/san-kum/nbodysim/internal/dynamo"

type Metric interface {
	Name() string
	Observe(bs *dynamo.BodySet, t float64)
	Value() float64
	Reset()
}
