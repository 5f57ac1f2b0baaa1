package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/analysis"
	"github.com/san-kum/nbodysim/internal/automation"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/observability"
	"github.com/san-kum/nbodysim/internal/sim"
	"github.com/san-kum/nbodysim/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	csvOut      string
	jsonlOut    string
	every       int
	summaryOut  string
	plot        bool
	svgOut      string
	trajSVGOut  string
	metricsAddr string
	traceOn     bool
	runs        int
	spectrum    bool
	metricNames []string

	benchBodies  []int
	benchWorkers []int
	benchTicks   int
)

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&csvOut, "csv", "", "write per-body frames as csv (- for stdout)")
	f.StringVar(&jsonlOut, "jsonl", "", "write per-body frames as json lines (- for stdout)")
	f.IntVar(&every, "every", 1, "export every n-th tick")
	f.StringVar(&summaryOut, "summary", "", "write a json run summary (- for stdout)")
	f.BoolVar(&plot, "plot", false, "plot energy drift and primary drift")
	f.StringVar(&svgOut, "svg", "", "write the final frame as svg")
	f.StringVar(&trajSVGOut, "trajectory-svg", "", "write the primary's path as svg")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the run")
	f.BoolVar(&traceOn, "trace", false, "export tick spans to stderr")
	f.IntVar(&runs, "runs", 1, "run consecutive seeds in parallel")
	f.BoolVar(&spectrum, "spectrum", false, "estimate the primary's oscillation period")
	f.StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: energy_drift, momentum_drift, primary_drift, stability)")
}

// create opens path for writing; "-" is stdout and the returned closer is a no-op.
func create(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tcfg := observability.TracingConfigFromEnv()
	if traceOn {
		tcfg.Enabled = true
	}
	shutdown, err := observability.InitTracing(ctx, tcfg, log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	exp := experiment.New(cfg, log)
	if err := exp.Setup(metricNames); err != nil {
		return err
	}

	if runs > 1 {
		return runEnsemble(ctx, exp, cfg)
	}

	s := exp.Simulation()

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := observability.NewCollector(reg)
		if err != nil {
			return err
		}
		s.AddObserver(collector)

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "metrics server failed", logging.Err(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))
	}

	var csvw *export.CSVWriter
	if csvOut != "" {
		w, closeFn, err := create(csvOut)
		if err != nil {
			return err
		}
		defer closeFn()
		csvw = export.NewCSVWriter(w, every)
		s.AddObserver(csvw)
	}

	var jsonw *export.JSONLWriter
	if jsonlOut != "" {
		w, closeFn, err := create(jsonlOut)
		if err != nil {
			return err
		}
		defer closeFn()
		jsonw = export.NewJSONLWriter(w, every)
		s.AddObserver(jsonw)
	}

	log.Info(ctx, "running",
		logging.Int("bodies", cfg.Bodies),
		logging.Int("frames", cfg.Frames),
		logging.String("discipline", cfg.Discipline),
		logging.String("backend", s.Field().BackendName()),
	)
	start := time.Now()

	result, runErr := exp.Run(ctx)

	if csvw != nil {
		if err := csvw.Flush(); err != nil {
			return err
		}
	}
	if jsonw != nil && jsonw.Err() != nil {
		return jsonw.Err()
	}
	if runErr != nil {
		return runErr
	}

	// Keep stdout clean when it carries a frame stream.
	out := io.Writer(os.Stdout)
	if csvOut == "-" || jsonlOut == "-" || summaryOut == "-" {
		out = os.Stderr
	}

	fmt.Fprintf(out, "completed in %v\n", time.Since(start))
	fmt.Fprintf(out, "frames: %d\n", result.Frames)
	fmt.Fprintf(out, "sim time: %.1f s\n", result.SimTime)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.6g\n", name, result.Metrics[name])
	}

	if summaryOut != "" {
		w, closeFn, err := create(summaryOut)
		if err != nil {
			return err
		}
		sum := export.NewSummary(result)
		sum.Bodies = cfg.Bodies
		sum.Seed = cfg.Seed
		sum.Discipline = cfg.Discipline
		sum.SimRate = cfg.SimRate
		if err := export.WriteSummary(w, sum); err != nil {
			closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return err
		}
	}

	if plot {
		plotResult(out, exp)
	}

	if spectrum {
		interval := cfg.FrameInterval() * cfg.SimRate
		for _, axis := range []struct {
			name string
			fn   func(r3.Vec) float64
		}{{"x", analysis.X}, {"z", analysis.Z}} {
			period, err := analysis.DominantPeriod(analysis.Axis(result.Trajectory, axis.fn), interval)
			if err != nil {
				fmt.Fprintf(out, "primary %s period: %v\n", axis.name, err)
				continue
			}
			fmt.Fprintf(out, "primary %s period: %.1f s\n", axis.name, period)
		}
	}

	if svgOut != "" {
		if err := writeSVG(svgOut, s, cfg); err != nil {
			return err
		}
	}

	if trajSVGOut != "" {
		f, err := os.Create(trajSVGOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.TrajectoryToSVG(f, result.Trajectory, 800, 800, "#00cccc"); err != nil {
			return err
		}
	}

	return nil
}

func plotResult(out io.Writer, exp *experiment.Experiment) {
	if drift, ok := exp.Metric("energy_drift").(*metrics.EnergyDrift); ok && len(drift.History()) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(drift.History(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("relative energy drift"),
		))
	}
	if pd, ok := exp.Metric("primary_drift").(*metrics.PrimaryDrift); ok && len(pd.Trail()) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(pd.Trail(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("primary distance from start (km)"),
		))
	}
}

func writeSVG(path string, s *sim.Simulation, cfg *config.Config) error {
	canvas := viz.NewCanvas(120, 60)
	cam := viz.NewCamera(viewRadius(cfg))
	frame := s.Snapshot()
	cam.Follow(frame.Target)
	viz.RenderFrame(canvas, frame, cam)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.CanvasToSVG(f, canvas, 4, "#00cccc")
}

func runEnsemble(ctx context.Context, exp *experiment.Experiment, cfg *config.Config) error {
	start := time.Now()
	results, err := exp.Ensemble(ctx, runs)
	if err != nil {
		return err
	}
	fmt.Printf("%d runs completed in %v\n\n", len(results), time.Since(start))

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED\tFRAMES")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d", cfg.Seed+int64(i), r.Frames)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("benchmarking %s discipline\n\n", discipline)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tBACKEND\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range benchBodies {
		for _, wk := range benchWorkers {
			cfg := config.DefaultConfig()
			cfg.Bodies = n
			cfg.Workers = wk
			cfg.Discipline = discipline
			cfg.Frames = benchTicks

			exp := experiment.New(cfg, logging.Noop())
			if err := exp.Setup([]string{"primary_drift"}); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.1f\n",
				n, exp.Simulation().Field().BackendName(), result.Frames, elapsed.Round(time.Millisecond),
				float64(result.Frames)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: logLevel, Format: logFormat}, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tSIM TIME\tPRIMARY MASS\tENERGY DRIFT\tSTABILITY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.3e\t%.3g\t%.3f\n",
			r.Name, r.Result.Frames, r.Result.SimTime, r.PrimaryMass,
			r.Result.Metrics["energy_drift"], r.Result.Metrics["stability"])
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}

	results, err := automation.RunSweep(context.Background(), cfg, &automation.ParameterSweep{
		ParamName: args[0],
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  steps,
	}, newLogger(cfg))
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSIM TIME", args[0])
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.1f", r.ParamValue, r.SimTime)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	trials, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("trials: %w", err)
	}

	results, err := automation.RunMonteCarlo(context.Background(), cfg, trials, newLogger(cfg))
	if err != nil {
		return err
	}

	stable := 0
	for _, r := range results {
		if r.Stable {
			stable++
		}
	}
	fmt.Printf("stable: %d/%d (%.1f%%)\n", stable, len(results), 100*float64(stable)/float64(len(results)))
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
