package config

import (
	"sort"

	"github.com/san-kum/nbodysim/internal/models"
	"github.com/san-kum/nbodysim/internal/physics"
)

var Presets = map[string]*Config{
	"disc":      discPreset(DefaultBodies, 0.05),
	"dense":     discPreset(2000, 0.02),
	"sparse":    discPreset(60, 0.1),
	"binary":    binaryPreset(),
	"earthmoon": earthMoonPreset(),
}

func discPreset(bodies int, spread float64) *Config {
	cfg := DefaultConfig()
	cfg.Bodies = bodies
	cfg.Constants.VerticalSpread = spread
	return cfg
}

// binaryPreset puts two Earth masses on a circular orbit about their
// common centre, which sits half way between them.
func binaryPreset() *Config {
	cfg := DefaultConfig()
	cfg.Bodies = 2
	v := physics.CircularSpeed(models.EarthMass, 2*models.MoonOrbit)
	cfg.Scenario = []BodyConfig{
		{Velocity: [3]float64{0, 0, -v}, Mass: models.EarthMass, Radius: models.EarthRadius},
		{Position: [3]float64{models.MoonOrbit, 0, 0}, Velocity: [3]float64{0, 0, v}, Mass: models.EarthMass, Radius: models.EarthRadius},
	}
	return cfg
}

func earthMoonPreset() *Config {
	cfg := DefaultConfig()
	cfg.Bodies = 2
	v := physics.CircularSpeed(models.EarthMass, models.MoonOrbit)
	cfg.Scenario = []BodyConfig{
		{Mass: models.EarthMass, Radius: models.EarthRadius},
		{Position: [3]float64{models.MoonOrbit, 0, 0}, Velocity: [3]float64{0, 0, v}, Mass: models.MoonMass, Radius: models.MoonRadius},
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Scenario = append([]BodyConfig(nil), p.Scenario...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
