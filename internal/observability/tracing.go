package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/san-kum/nbodysim/internal/logging"
)

// TracerName is the instrumentation scope used for simulation spans.
const TracerName = "github.com/san-kum/nbodysim/internal/sim"

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
	// Writer receives stdout-exporter output. Defaults to stderr so frame
	// streams on stdout stay parseable.
	Writer io.Writer
}

// TracingConfigFromEnv reads NBODY_TRACING_ENABLED and NBODY_TRACING_SERVICE_NAME.
func TracingConfigFromEnv() TracingConfig {
	service := os.Getenv("NBODY_TRACING_SERVICE_NAME")
	if service == "" {
		service = "nbodysim"
	}
	return TracingConfig{
		Enabled:     strings.EqualFold(os.Getenv("NBODY_TRACING_ENABLED"), "true"),
		ServiceName: service,
		SampleRatio: 1,
	}
}

// InitTracing installs a global tracer provider and returns a shutdown
// function that flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig, log logging.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logging.Noop()
	}

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug(ctx, "tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "nbodysim"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", service)),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "tracing enabled",
		logging.String("service_name", service),
		logging.Float("sample_ratio", ratio),
	)
	return tp.Shutdown, nil
}

// ShutdownWithTimeout calls shutdown with a bounded timeout and logs failures.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log logging.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logging.Noop()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}
