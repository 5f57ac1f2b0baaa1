package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Collector bundles the Prometheus metrics for a running simulation. It
// satisfies the simulation observer interface through OnTick.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Bodies       prometheus.Gauge
	PrimaryMass  prometheus.Gauge
	SimTime      prometheus.Gauge
	DeltaT       prometheus.Gauge
}

// NewCollector registers simulation metrics against reg, defaulting to the
// global registry when nil. Registering twice against the same registry
// returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nbody_ticks_total",
		Help: "Total number of completed simulation ticks.",
	}), "nbody_ticks_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nbody_tick_duration_seconds",
		Help:    "Wall time spent computing forces and integrating one tick.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}), "nbody_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nbody_bodies",
		Help: "Number of bodies in the current set.",
	}), "nbody_bodies")
	if err != nil {
		return nil, err
	}
	primary, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nbody_primary_mass_kg",
		Help: "Current mass of body 0.",
	}), "nbody_primary_mass_kg")
	if err != nil {
		return nil, err
	}
	simTime, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nbody_sim_time",
		Help: "Accumulated simulated time since the last reset.",
	}), "nbody_sim_time")
	if err != nil {
		return nil, err
	}
	deltaT, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nbody_delta_t",
		Help: "Simulated time step of the most recent tick.",
	}), "nbody_delta_t")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Ticks:        ticks,
		TickDuration: duration,
		Bodies:       bodies,
		PrimaryMass:  primary,
		SimTime:      simTime,
		DeltaT:       deltaT,
	}, nil
}

func (c *Collector) OnTick(bs *dynamo.BodySet, stats dynamo.TickStats) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(stats.Duration.Seconds())
	c.Bodies.Set(float64(stats.Bodies))
	c.SimTime.Set(stats.SimTime)
	c.DeltaT.Set(stats.DeltaT)
	if bs != nil && bs.Len() > 0 {
		c.PrimaryMass.Set(bs.Mass(0))
	}
}

// SetPrimaryMass is used by drivers after a mass change, before the next tick.
func (c *Collector) SetPrimaryMass(m float64) {
	if c == nil {
		return
	}
	c.PrimaryMass.Set(m)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
