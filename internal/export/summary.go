package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/nbodysim/internal/sim"
)

type Summary struct {
	Bodies     int                `json:"bodies"`
	Seed       int64              `json:"seed"`
	Discipline string             `json:"discipline"`
	SimRate    float64            `json:"sim_rate"`
	Frames     int                `json:"frames"`
	SimTime    float64            `json:"sim_time"`
	Metrics    map[string]float64 `json:"metrics"`
	Trajectory [][3]float64       `json:"primary_trajectory"`
}

// NewSummary fills the result-derived fields of a Summary.
func NewSummary(result *sim.Result) Summary {
	s := Summary{
		Frames:     result.Frames,
		SimTime:    result.SimTime,
		Metrics:    result.Metrics,
		Trajectory: make([][3]float64, len(result.Trajectory)),
	}
	for i, p := range result.Trajectory {
		s.Trajectory[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return s
}

func WriteSummary(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
