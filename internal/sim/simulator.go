package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/san-kum/nbodysim/internal/clock"
	"github.com/san-kum/nbodysim/internal/control"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/models"
	"github.com/san-kum/nbodysim/internal/observability"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Simulation owns one body set and the clock that drives it. It is not safe
// for concurrent use.
type Simulation struct {
	gen     models.Generator
	stepper integrators.Stepper
	field   *physics.ForceField
	clock   *clock.Clock
	primary *control.PrimaryMass
	cfg     Config
	log     logging.Logger
	tracer  trace.Tracer

	bodies      *dynamo.BodySet
	ticks       uint64
	lastElapsed float64

	metrics   []Metric
	observers []Observer
}

// New wires a simulation. A nil stepper selects the snapshot discipline and
// a nil field uses the active compute backend.
func New(gen models.Generator, stepper integrators.Stepper, field *physics.ForceField, cfg Config, log logging.Logger) (*Simulation, error) {
	if gen == nil {
		return nil, fmt.Errorf("sim: nil generator: %w", dynamo.ErrInvalidConfiguration)
	}
	if cfg.SimRate <= 0 {
		return nil, fmt.Errorf("sim: sim rate must be positive, got %g: %w", cfg.SimRate, dynamo.ErrInvalidConfiguration)
	}
	if stepper == nil {
		stepper = integrators.NewSnapshot()
	}
	if field == nil {
		field = physics.NewForceField()
	}
	if log == nil {
		log = logging.Noop()
	}

	return &Simulation{
		gen:     gen,
		stepper: stepper,
		field:   field,
		clock:   clock.New(cfg.SimRate),
		primary: control.NewPrimaryMass(),
		cfg:     cfg,
		log:     log.With(logging.String("discipline", string(stepper.Discipline()))),
		tracer:  otel.Tracer(observability.TracerName),
	}, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Initialize generates a fresh body set of n bodies and resets the clock.
func (s *Simulation) Initialize(ctx context.Context, n int) (*dynamo.BodySet, error) {
	if err := s.replace(ctx, n); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "initialized", logging.Int("bodies", n))
	return s.bodies, nil
}

// Reset discards the current run and starts a new one with n bodies. On
// failure the previous set and clock are left as they were.
func (s *Simulation) Reset(ctx context.Context, n int) error {
	if err := s.replace(ctx, n); err != nil {
		return err
	}
	s.log.Info(ctx, "reset", logging.Int("bodies", n))
	return nil
}

func (s *Simulation) replace(ctx context.Context, n int) error {
	bs, err := s.gen.Generate(n)
	if err != nil {
		s.log.Warn(ctx, "generate failed", logging.Int("bodies", n), logging.Err(err))
		return err
	}

	s.bodies = bs
	s.clock.Reset()
	s.ticks = 0
	s.lastElapsed = 0
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// Tick advances the simulation to the supplied wall-clock elapsed seconds.
func (s *Simulation) Tick(ctx context.Context, elapsed float64) (Frame, error) {
	if s.bodies == nil {
		return Frame{}, dynamo.ErrNotInitialized
	}

	ctx, span := s.tracer.Start(ctx, "sim.tick", trace.WithAttributes(
		attribute.Int("bodies", s.bodies.Len()),
		attribute.Float64("elapsed", elapsed),
	))
	defer span.End()

	start := time.Now()
	dt := s.clock.DeltaT(elapsed)
	s.lastElapsed = elapsed
	tick := s.ticks + 1
	span.SetAttributes(attribute.Float64("delta_t", dt))

	var backup *dynamo.BodySet
	if s.cfg.ValidateState {
		backup = s.bodies.Clone()
	}

	if err := s.stepper.Step(s.bodies, s.field, dt); err != nil {
		var se *dynamo.SimulationError
		if errors.As(err, &se) {
			se.Tick = tick
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error(ctx, "tick failed", logging.Any("tick", tick), logging.Err(err))
		return Frame{}, err
	}

	if backup != nil && !s.bodies.IsValid() {
		restore(s.bodies, backup)
		err := &dynamo.SimulationError{Tick: tick, Body: -1, Wrapped: dynamo.ErrInvalidState}
		span.SetStatus(codes.Error, err.Error())
		s.log.Error(ctx, "tick failed", logging.Any("tick", tick), logging.Err(err))
		return Frame{}, err
	}

	s.ticks = tick
	stats := dynamo.TickStats{
		Tick:     tick,
		DeltaT:   dt,
		SimTime:  s.clock.SimTime(),
		Bodies:   s.bodies.Len(),
		Duration: time.Since(start),
	}

	for _, m := range s.metrics {
		m.Observe(s.bodies, stats.SimTime)
	}
	for _, obs := range s.observers {
		obs.OnTick(s.bodies, stats)
	}

	return s.frame(stats), nil
}

// restore rewinds the kinematic state written by a rejected step. Masses and
// radii are never touched by a step.
func restore(bs, backup *dynamo.BodySet) {
	for i := 0; i < bs.Len(); i++ {
		bs.SetPosition(i, backup.Position(i))
		bs.SetVelocity(i, backup.Velocity(i))
	}
}

func (s *Simulation) frame(stats dynamo.TickStats) Frame {
	n := s.bodies.Len()
	pos, radii := s.bodies.PositionsView(), s.bodies.Radii()
	views := make([]BodyView, n)
	for i := 0; i < n; i++ {
		views[i] = BodyView{Position: pos[i], Radius: radii[i]}
	}
	return Frame{
		Tick:    stats.Tick,
		DeltaT:  stats.DeltaT,
		SimTime: stats.SimTime,
		Target:  pos[0],
		Bodies:  views,
	}
}

// Snapshot is the current state as a frame, without ticking. It is the
// zero Frame before Initialize.
func (s *Simulation) Snapshot() Frame {
	if s.bodies == nil {
		return Frame{}
	}
	return s.frame(dynamo.TickStats{
		Tick:    s.ticks,
		SimTime: s.clock.SimTime(),
		Bodies:  s.bodies.Len(),
	})
}

// ScalePrimaryMass multiplies or divides body 0's mass by the control
// factor. It takes effect on the next tick.
func (s *Simulation) ScalePrimaryMass(ctx context.Context, d control.Direction) error {
	if s.bodies == nil {
		return dynamo.ErrNotInitialized
	}
	if err := s.primary.Scale(s.bodies, d); err != nil {
		return err
	}
	s.log.Info(ctx, "primary mass scaled",
		logging.String("direction", d.String()),
		logging.Float("mass", s.bodies.Mass(0)),
	)
	return nil
}

// Target is body 0's position.
func (s *Simulation) Target() (r3.Vec, error) {
	if s.bodies == nil {
		return r3.Vec{}, dynamo.ErrNotInitialized
	}
	return s.bodies.Position(0), nil
}

// Bodies returns the live set, or nil before Initialize.
func (s *Simulation) Bodies() *dynamo.BodySet { return s.bodies }

func (s *Simulation) Ticks() uint64             { return s.ticks }
func (s *Simulation) SimTime() float64          { return s.clock.SimTime() }
func (s *Simulation) Field() *physics.ForceField { return s.field }

// Run drives frames ticks with a synthetic wall clock advancing by
// frameInterval seconds per frame, continuing from the last elapsed value.
func (s *Simulation) Run(ctx context.Context, frames int, frameInterval float64) (*Result, error) {
	if s.bodies == nil {
		return nil, dynamo.ErrNotInitialized
	}
	if frames < 0 {
		return nil, fmt.Errorf("sim: frames must be non-negative, got %d: %w", frames, dynamo.ErrInvalidConfiguration)
	}
	if frameInterval <= 0 {
		return nil, fmt.Errorf("sim: frame interval must be positive, got %g: %w", frameInterval, dynamo.ErrInvalidConfiguration)
	}

	result := &Result{
		Metrics:    make(map[string]float64),
		Trajectory: make([]r3.Vec, 0, frames),
	}

	elapsed := s.lastElapsed
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		elapsed += frameInterval
		frame, err := s.Tick(ctx, elapsed)
		if err != nil {
			s.collect(result)
			return result, err
		}
		result.Frames++
		result.Trajectory = append(result.Trajectory, frame.Target)
	}

	s.collect(result)
	s.log.Info(ctx, "run complete",
		logging.Int("frames", result.Frames),
		logging.Float("sim_time", result.SimTime),
	)
	return result, nil
}

func (s *Simulation) collect(result *Result) {
	result.SimTime = s.clock.SimTime()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
