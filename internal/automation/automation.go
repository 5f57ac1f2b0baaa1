package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/control"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/sim"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset or config file, optional overrides,
// and primary-mass commands issued before given frames.
type ScenarioStep struct {
	Name    string   `yaml:"name"`
	Preset  string   `yaml:"preset"`
	Config  string   `yaml:"config"`
	Bodies  int      `yaml:"bodies"`
	Seed    int64    `yaml:"seed"`
	Frames  int      `yaml:"frames"`
	Events  []Event  `yaml:"events"`
	Metrics []string `yaml:"metrics"`
}

// Event scales the primary mass before frame Frame is ticked.
type Event struct {
	Frame int    `yaml:"frame"`
	Scale string `yaml:"scale"`
}

type StepResult struct {
	Name        string
	Result      *sim.Result
	PrimaryMass float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Resolve builds the step's configuration. Config wins over Preset; zero
// overrides keep the base value.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Bodies > 0 {
		cfg.Bodies = s.Bodies
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, log logging.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.Noop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info(ctx, "running step",
			logging.String("scenario", scenario.Name),
			logging.String("step", name),
			logging.Int("index", i+1),
			logging.Int("of", len(scenario.Steps)),
		)

		res, err := runStep(ctx, step, log)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Name = name
		results = append(results, *res)
	}

	return results, nil
}

func runStep(ctx context.Context, step ScenarioStep, log logging.Logger) (*StepResult, error) {
	cfg, err := step.Resolve()
	if err != nil {
		return nil, err
	}

	events := make([]Event, len(step.Events))
	copy(events, step.Events)
	sort.SliceStable(events, func(a, b int) bool { return events[a].Frame < events[b].Frame })
	for _, ev := range events {
		if ev.Frame < 0 || ev.Frame > cfg.Frames {
			return nil, fmt.Errorf("event frame %d outside [0, %d]", ev.Frame, cfg.Frames)
		}
		if _, err := control.ParseDirection(ev.Scale); err != nil {
			return nil, err
		}
	}

	exp := experiment.New(cfg, log)
	if err := exp.Setup(step.Metrics); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	s := exp.Simulation()
	if _, err := s.Initialize(ctx, cfg.Bodies); err != nil {
		return nil, err
	}

	total := &sim.Result{Metrics: make(map[string]float64)}
	done := 0
	interval := cfg.FrameInterval()

	segment := func(frames int) error {
		if frames == 0 {
			return nil
		}
		res, err := s.Run(ctx, frames, interval)
		if res != nil {
			total.Frames += res.Frames
			total.Trajectory = append(total.Trajectory, res.Trajectory...)
			total.SimTime = res.SimTime
			for k, v := range res.Metrics {
				total.Metrics[k] = v
			}
		}
		return err
	}

	for _, ev := range events {
		if err := segment(ev.Frame - done); err != nil {
			return nil, err
		}
		done = ev.Frame
		dir, _ := control.ParseDirection(ev.Scale)
		if err := s.ScalePrimaryMass(ctx, dir); err != nil {
			return nil, err
		}
	}
	if err := segment(cfg.Frames - done); err != nil {
		return nil, err
	}

	return &StepResult{Result: total, PrimaryMass: s.Bodies().Mass(0)}, nil
}

// Sweep parameters understood by RunSweep.
const (
	ParamSimRate        = "sim_rate"
	ParamPrimaryMass    = "primary_mass"
	ParamMaxSeedSpeed   = "max_seed_speed"
	ParamVerticalSpread = "vertical_spread"
	ParamBodies         = "bodies"
)

// ParameterSweep runs the base configuration across a range of one
// parameter's values.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Metrics   []string
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	SimTime    float64
}

func applyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case ParamSimRate:
		cfg.SimRate = v
	case ParamPrimaryMass:
		cfg.Constants.PrimaryMass = v
		if len(cfg.Scenario) > 0 {
			cfg.Scenario[0].Mass = v
		}
	case ParamMaxSeedSpeed:
		cfg.Constants.MaxSeedSpeed = v
	case ParamVerticalSpread:
		cfg.Constants.VerticalSpread = v
	case ParamBodies:
		cfg.Bodies = int(v)
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep executes a parameter sweep. NumSteps of 1 runs ParamMin only.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep, log logging.Logger) ([]SweepResult, error) {
	if log == nil {
		log = logging.Noop()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *base
		cfg.Scenario = append([]config.BodyConfig(nil), base.Scenario...)
		if err := applyParam(&cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg, log)
		if err := exp.Setup(sweep.Metrics); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			SimTime:    result.SimTime,
		})

		log.Info(ctx, "sweep point",
			logging.Int("index", i+1),
			logging.Int("of", sweep.NumSteps),
			logging.String("param", sweep.ParamName),
			logging.Float("value", paramVal),
		)
	}

	return results, nil
}

// MonteCarloResult holds one seed's outcome.
type MonteCarloResult struct {
	Seed    int64
	Stable  bool // every tick stayed finite and bounded
	Metrics map[string]float64
}

// RunMonteCarlo runs trials seeds of the base configuration in parallel and
// reports which stayed stable.
func RunMonteCarlo(ctx context.Context, base *config.Config, trials int, log logging.Logger) ([]MonteCarloResult, error) {
	exp := experiment.New(base, log)
	if err := exp.Setup(nil); err != nil {
		return nil, err
	}
	runs, err := exp.Ensemble(ctx, trials)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			Seed:    base.Seed + int64(i),
			Stable:  r.Metrics["stability"] == 1,
			Metrics: r.Metrics,
		}
	}
	return results, nil
}
