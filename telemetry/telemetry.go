// Package telemetry configures OpenTelemetry tracing for the dashboard.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Options selects where spans go and how many of them are kept.
type Options struct {
	ServiceName string

	// Endpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	Endpoint string

	// SampleRatio is the share of new traces recorded, from 0 to 1. Traces
	// started upstream follow the caller's sampling decision.
	SampleRatio float64
}

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs the global tracer provider described by opts. The returned
// shutdown is never nil and should be deferred by the caller.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if opts.Endpoint == "" {
		return noopShutdown, nil
	}

	sampler, err := newSampler(opts.SampleRatio)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
	if err != nil {
		return noopShutdown, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return noopShutdown, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracing enabled",
		"service", opts.ServiceName,
		"endpoint", opts.Endpoint,
		"sample_ratio", opts.SampleRatio,
	)
	return tp.Shutdown, nil
}

func newSampler(ratio float64) (sdktrace.Sampler, error) {
	switch {
	case math.IsNaN(ratio) || ratio < 0 || ratio > 1:
		return nil, fmt.Errorf("sample ratio %v outside [0, 1]", ratio)
	case ratio == 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil
	case ratio == 0:
		return sdktrace.ParentBased(sdktrace.NeverSample()), nil
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	}
}
