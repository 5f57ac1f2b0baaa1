package models

import (
	"fmt"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

const (
	EarthMass   = 5.972e24 // kg
	EarthRadius = 6371.0   // km
	MoonMass    = 7.342e22 // kg
	MoonRadius  = 1737.4   // km
	MoonOrbit   = 384400.0 // km

	// SecondaryMassSpan bounds sampled secondary masses as a multiple of MoonMass.
	SecondaryMassSpan = 1.75
)

// Constants parameterize disc generation. They never enter the force law.
type Constants struct {
	PrimaryMass          float64 `yaml:"primary_mass"`
	PrimaryRadius        float64 `yaml:"primary_radius"`
	MoonMass             float64 `yaml:"moon_mass"`
	MassRadiusRatio      float64 `yaml:"mass_radius_ratio"`
	OrbitalDistance      float64 `yaml:"orbital_distance"`
	VerticalSpread       float64 `yaml:"vertical_spread"`
	LargeBodyProbability float64 `yaml:"large_body_probability"`
	MaxSeedSpeed         float64 `yaml:"max_seed_speed"`
}

func DefaultConstants() Constants {
	return Constants{
		PrimaryMass:          EarthMass,
		PrimaryRadius:        EarthRadius,
		MoonMass:             MoonMass,
		MassRadiusRatio:      MoonMass / MoonRadius,
		OrbitalDistance:      MoonOrbit,
		VerticalSpread:       0.05,
		LargeBodyProbability: 0.01,
		MaxSeedSpeed:         1.0,
	}
}

func (c Constants) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"primary_mass", c.PrimaryMass},
		{"moon_mass", c.MoonMass},
		{"mass_radius_ratio", c.MassRadiusRatio},
		{"orbital_distance", c.OrbitalDistance},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return fmt.Errorf("%s must be positive, got %g: %w", p.name, p.v, dynamo.ErrInvalidConfiguration)
		}
	}
	if c.PrimaryRadius < 0 || c.VerticalSpread < 0 || c.MaxSeedSpeed < 0 {
		return fmt.Errorf("radius, vertical spread and seed speed must be non-negative: %w", dynamo.ErrInvalidConfiguration)
	}
	if c.LargeBodyProbability < 0 || c.LargeBodyProbability > 1 {
		return fmt.Errorf("large_body_probability must be in [0, 1], got %g: %w", c.LargeBodyProbability, dynamo.ErrInvalidConfiguration)
	}
	return nil
}
