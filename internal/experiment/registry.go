package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
)

// StabilityRadius is the escape threshold as a multiple of the configured
// orbital distance.
const StabilityRadius = 10.0

type metricFactory func(field *physics.ForceField, cfg *config.Config) metrics.Metric

// Registry maps metric names to constructors. Every Get returns a fresh
// instance so runs never share accumulated state.
type Registry struct {
	metrics map[string]metricFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]metricFactory),
	}

	r.metrics["energy"] = func(f *physics.ForceField, _ *config.Config) metrics.Metric {
		return metrics.NewEnergy(f)
	}
	r.metrics["energy_drift"] = func(f *physics.ForceField, _ *config.Config) metrics.Metric {
		return metrics.NewEnergyDrift(f)
	}
	r.metrics["momentum_drift"] = func(f *physics.ForceField, _ *config.Config) metrics.Metric {
		return metrics.NewMomentum(f)
	}
	r.metrics["primary_drift"] = func(_ *physics.ForceField, _ *config.Config) metrics.Metric {
		return metrics.NewPrimaryDrift()
	}
	r.metrics["stability"] = func(_ *physics.ForceField, cfg *config.Config) metrics.Metric {
		return metrics.NewStability(StabilityRadius * cfg.Constants.OrbitalDistance)
	}

	return r
}

func (r *Registry) GetMetric(name string, field *physics.ForceField, cfg *config.Config) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(field, cfg), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the set recorded by a headless run when none are named.
func DefaultMetrics() []string {
	return []string{"energy_drift", "momentum_drift", "primary_drift", "stability"}
}
