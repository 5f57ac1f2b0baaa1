// Package export streams simulation frames and run summaries to writers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var csvHeader = []string{"tick", "sim_time", "body", "x", "y", "z", "vx", "vy", "vz", "mass", "radius"}

// BodyRecord is one body at the end of one tick.
type BodyRecord struct {
	Tick     uint64     `json:"tick"`
	SimTime  float64    `json:"sim_time"`
	Body     int        `json:"body"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Mass     float64    `json:"mass"`
	Radius   float64    `json:"radius"`
}

func records(bs *dynamo.BodySet, stats dynamo.TickStats, fn func(BodyRecord) error) error {
	for i := 0; i < bs.Len(); i++ {
		b, err := bs.Body(i)
		if err != nil {
			return err
		}
		rec := BodyRecord{
			Tick:     stats.Tick,
			SimTime:  stats.SimTime,
			Body:     i,
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			Mass:     b.Mass,
			Radius:   b.Radius,
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// CSVWriter writes one row per body per sampled tick. It is a simulation
// observer; the first write error is kept and later ticks are skipped.
type CSVWriter struct {
	w      *csv.Writer
	every  uint64
	header bool
	err    error
}

// NewCSVWriter samples every n-th tick; n < 1 means every tick.
func NewCSVWriter(w io.Writer, every int) *CSVWriter {
	if every < 1 {
		every = 1
	}
	return &CSVWriter{w: csv.NewWriter(w), every: uint64(every)}
}

func (c *CSVWriter) OnTick(bs *dynamo.BodySet, stats dynamo.TickStats) {
	if c.err != nil || stats.Tick%c.every != 0 {
		return
	}
	if !c.header {
		if c.err = c.w.Write(csvHeader); c.err != nil {
			return
		}
		c.header = true
	}
	c.err = records(bs, stats, func(r BodyRecord) error {
		return c.w.Write([]string{
			strconv.FormatUint(r.Tick, 10),
			formatFloat(r.SimTime),
			strconv.Itoa(r.Body),
			formatFloat(r.Position[0]),
			formatFloat(r.Position[1]),
			formatFloat(r.Position[2]),
			formatFloat(r.Velocity[0]),
			formatFloat(r.Velocity[1]),
			formatFloat(r.Velocity[2]),
			formatFloat(r.Mass),
			formatFloat(r.Radius),
		})
	})
}

// Flush writes buffered rows and returns the first error seen.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	if c.err != nil {
		return c.err
	}
	return c.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// JSONLWriter writes one JSON object per body per sampled tick.
type JSONLWriter struct {
	enc   *json.Encoder
	every uint64
	err   error
}

func NewJSONLWriter(w io.Writer, every int) *JSONLWriter {
	if every < 1 {
		every = 1
	}
	return &JSONLWriter{enc: json.NewEncoder(w), every: uint64(every)}
}

func (j *JSONLWriter) OnTick(bs *dynamo.BodySet, stats dynamo.TickStats) {
	if j.err != nil || stats.Tick%j.every != 0 {
		return
	}
	j.err = records(bs, stats, func(r BodyRecord) error {
		return j.enc.Encode(r)
	})
}

func (j *JSONLWriter) Err() error { return j.err }
