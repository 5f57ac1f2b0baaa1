package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
)

// Experiment turns a validated Config into a ready Simulation and drives it
// headless for cfg.Frames frames.
type Experiment struct {
	cfg      *config.Config
	log      logging.Logger
	registry *Registry
	names    []string

	simulator *sim.Simulation
	instances map[string]metrics.Metric
}

func New(cfg *config.Config, log logging.Logger) *Experiment {
	if log == nil {
		log = logging.Noop()
	}
	return &Experiment{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
	}
}

// Setup validates the configuration and builds the simulation with the
// named metrics attached. An empty list selects DefaultMetrics.
func (e *Experiment) Setup(metricNames []string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if len(metricNames) == 0 {
		metricNames = DefaultMetrics()
	}
	e.names = metricNames

	s, instances, err := e.build(e.cfg)
	if err != nil {
		return err
	}
	e.simulator = s
	e.instances = instances
	return nil
}

func (e *Experiment) build(cfg *config.Config) (*sim.Simulation, map[string]metrics.Metric, error) {
	stepper, err := cfg.Stepper()
	if err != nil {
		return nil, nil, err
	}

	field := physics.NewForceField()
	field.Backend = cfg.Backend()

	s, err := sim.New(cfg.Generator(), stepper, field, sim.Config{
		SimRate:       cfg.SimRate,
		ValidateState: cfg.ValidateState,
	}, e.log)
	if err != nil {
		return nil, nil, err
	}

	instances := make(map[string]metrics.Metric, len(e.names))
	for _, name := range e.names {
		m, err := e.registry.GetMetric(name, field, cfg)
		if err != nil {
			return nil, nil, err
		}
		s.AddMetric(m)
		instances[name] = m
	}
	return s, instances, nil
}

// Run initializes cfg.Bodies bodies and drives cfg.Frames frames at cfg.FPS.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if _, err := e.simulator.Initialize(ctx, e.cfg.Bodies); err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, e.cfg.Frames, e.cfg.FrameInterval())
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulator
}

// Metric returns the named metric attached by Setup, or nil. Callers
// type-assert it for history accessors such as EnergyDrift.History.
func (e *Experiment) Metric(name string) metrics.Metric {
	return e.instances[name]
}

// Factory builds independent simulations sharing this experiment's
// configuration, each with its own seed and metric instances.
func (e *Experiment) Factory() sim.Factory {
	return func(seed int64) (*sim.Simulation, error) {
		cfg := *e.cfg
		cfg.Seed = seed
		s, _, err := e.build(&cfg)
		return s, err
	}
}

// Ensemble runs numRuns seeds starting at the configured one.
func (e *Experiment) Ensemble(ctx context.Context, numRuns int) ([]*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if numRuns < 1 {
		return nil, fmt.Errorf("runs must be >= 1, got %d", numRuns)
	}
	ens := sim.NewEnsemble(e.Factory(), numRuns, e.cfg.Seed)
	return ens.Run(ctx, e.cfg.Bodies, e.cfg.Frames, e.cfg.FrameInterval())
}
