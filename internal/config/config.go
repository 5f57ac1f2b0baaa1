package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/clock"
	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/models"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultBodies = 400
	DefaultSeed   = 1
	DefaultFrames = 600
	DefaultFPS    = 60.0
)

type Config struct {
	Bodies        int              `yaml:"bodies"`
	Seed          int64            `yaml:"seed"`
	SimRate       float64          `yaml:"sim_rate"`
	Discipline    string           `yaml:"discipline"`
	Workers       int              `yaml:"workers"` // 0 = one per CPU, 1 = serial
	Frames        int              `yaml:"frames"`
	FPS           float64          `yaml:"fps"`
	ValidateState bool             `yaml:"validate_state"`
	Constants     models.Constants `yaml:"constants"`
	Scenario      []BodyConfig     `yaml:"scenario,omitempty"`
	Log           logging.Config   `yaml:"log"`
}

// BodyConfig is one explicitly placed body. Vectors are [x, y, z] with Y up.
type BodyConfig struct {
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius"`
}

func (b BodyConfig) Body() dynamo.Body {
	return dynamo.Body{
		Position: r3.Vec{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]},
		Velocity: r3.Vec{X: b.Velocity[0], Y: b.Velocity[1], Z: b.Velocity[2]},
		Mass:     b.Mass,
		Radius:   b.Radius,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:     DefaultBodies,
		Seed:       DefaultSeed,
		SimRate:    clock.DefaultRate,
		Discipline: string(integrators.DisciplineSnapshot),
		Frames:     DefaultFrames,
		FPS:        DefaultFPS,
		Constants:  models.DefaultConstants(),
		Log:        logging.Config{Level: "info", Format: "text"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects a configuration before any body set is built.
func (c *Config) Validate() error {
	if c.Bodies < 1 {
		return fmt.Errorf("bodies must be >= 1, got %d: %w", c.Bodies, dynamo.ErrInvalidConfiguration)
	}
	if !(c.SimRate > 0) {
		return fmt.Errorf("sim_rate must be positive, got %g: %w", c.SimRate, dynamo.ErrInvalidConfiguration)
	}
	if _, err := integrators.ParseDiscipline(c.Discipline); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d: %w", c.Workers, dynamo.ErrInvalidConfiguration)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must be >= 0, got %d: %w", c.Frames, dynamo.ErrInvalidConfiguration)
	}
	if !(c.FPS > 0) {
		return fmt.Errorf("fps must be positive, got %g: %w", c.FPS, dynamo.ErrInvalidConfiguration)
	}
	if len(c.Scenario) > 0 {
		if c.Bodies > len(c.Scenario) {
			return fmt.Errorf("scenario lists %d bodies, %d requested: %w", len(c.Scenario), c.Bodies, dynamo.ErrInvalidConfiguration)
		}
		return nil
	}
	return c.Constants.Validate()
}

// Generator returns the scenario replay when bodies are listed, otherwise a
// seeded disc.
func (c *Config) Generator() models.Generator {
	if len(c.Scenario) > 0 {
		bodies := make([]dynamo.Body, len(c.Scenario))
		for i, b := range c.Scenario {
			bodies[i] = b.Body()
		}
		return &models.Fixed{Bodies: bodies}
	}
	return models.NewDisc(c.Constants, c.Seed)
}

func (c *Config) Stepper() (integrators.Stepper, error) {
	d, err := integrators.ParseDiscipline(c.Discipline)
	if err != nil {
		return nil, err
	}
	return integrators.New(d)
}

func (c *Config) Backend() compute.Backend {
	if c.Workers == 0 {
		return compute.NewCPUBackend()
	}
	return compute.NewCPUBackendWorkers(c.Workers)
}

// FrameInterval is the synthetic wall time between headless frames.
func (c *Config) FrameInterval() float64 {
	return 1 / c.FPS
}
