package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/viz"
)

var (
	configFile    string
	preset        string
	numBodies     int
	seed          int64
	simRate       float64
	discipline    string
	workers       int
	frames        int
	fps           float64
	validateState bool
	logLevel      string
	logFormat     string
	logFile       string
	theme         string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "nbodysim",
		Short:        "cpu n-body gravity simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(viz.NewMenu(config.ListPresets(), func(name string) (viz.Model, error) {
				cfg := config.GetPreset(name)
				if cfg == nil {
					return viz.Model{}, fmt.Errorf("unknown preset: %s", name)
				}
				return liveModel(cfg, logging.Noop())
			}))
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "night", "color theme (night, retro, ocean)")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the terminal is taken by the view)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	addRunFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second across body counts and workers",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&benchBodies, "bodies", []int{100, 500, 1000, 2000}, "body counts")
	benchCmd.Flags().IntSliceVar(&benchWorkers, "workers", []int{1, 0}, "worker counts (0 = one per CPU)")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 20, "ticks per measurement")
	benchCmd.Flags().StringVar(&discipline, "discipline", "snapshot", "integration discipline")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	scenarioCmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max] [steps]",
		Short: "sweep one parameter and tabulate metrics",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [trials]",
		Short: "run consecutive seeds in parallel and count stable runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addSimFlags(montecarloCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-10s %d bodies\n", p, cfg.Bodies)
			}
			fmt.Println("\nmetrics:")
			for _, m := range experiment.NewRegistry().ListMetrics() {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	addSimFlags(configCmd)

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, scenarioCmd, sweepCmd, montecarloCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.Float64Var(&simRate, "sim-rate", 10000, "simulated seconds per wall second")
	f.StringVar(&discipline, "discipline", "snapshot", "integration discipline (snapshot, sequential)")
	f.IntVar(&workers, "workers", 0, "force workers (0 = one per CPU, 1 = serial)")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames for headless runs")
	f.Float64Var(&fps, "fps", config.DefaultFPS, "frame rate")
	f.BoolVar(&validateState, "validate", false, "fail a tick that produces NaN or Inf")
	f.StringVar(&logLevel, "log-level", "info", "log level")
	f.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

// resolveConfig layers defaults, then the preset, then the config file, then
// any flag the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sim-rate") {
		cfg.SimRate = simRate
	}
	if flags.Changed("discipline") {
		cfg.Discipline = discipline
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validateState
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.Noop()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logging.New(cfg.Log, f)
	}

	m, err := liveModel(cfg, log)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func liveModel(cfg *config.Config, log logging.Logger) (viz.Model, error) {
	exp := experiment.New(cfg, log)
	if err := exp.Setup([]string{"primary_drift"}); err != nil {
		return viz.Model{}, err
	}
	s := exp.Simulation()
	if _, err := s.Initialize(context.Background(), cfg.Bodies); err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(s, viz.Options{
		Bodies:     cfg.Bodies,
		FPS:        cfg.FPS,
		ViewRadius: viewRadius(cfg),
		Theme:      theme,
	}), nil
}

// viewRadius frames the whole initial configuration with some margin.
func viewRadius(cfg *config.Config) float64 {
	if len(cfg.Scenario) == 0 {
		return 1.2 * cfg.Constants.OrbitalDistance
	}
	r := 0.0
	for _, b := range cfg.Scenario[:cfg.Bodies] {
		p := b.Position
		r = math.Max(r, math.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2])+b.Radius)
	}
	if r == 0 {
		r = cfg.Constants.OrbitalDistance
	}
	return 1.2 * r
}

// newLogger writes to stderr so stdout stays free for frame streams.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(cfg.Log, os.Stderr)
}
