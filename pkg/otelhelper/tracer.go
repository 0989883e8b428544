// Package otelhelper provides distributed tracing helpers for run monitoring.
package otelhelper

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys attached to run and step spans.
const (
	WorkflowIDKey  = "relay.workflow.id"
	TriggerTypeKey = "relay.trigger.type"
	StepTypeKey    = "relay.step.type"
	StepIndexKey   = "relay.step.index"
	RunIDKey       = "relay.run.id"
	ChannelKey     = "relay.channel"
	EventIDKey     = "relay.event.id"
	WorkerIDKey    = "relay.worker.id"
)

// NewTracer installs an OTLP/HTTP trace pipeline as the global provider and
// returns a tracer for serviceName. Exporter endpoint and headers are read
// from the standard OTEL_EXPORTER_OTLP_* environment variables.
//
// nolint:ireturn // trace.Tracer is the OpenTelemetry handle type
func NewTracer(ctx context.Context, serviceName string) (trace.Tracer, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Tracer(serviceName), nil
}

// nolint:ireturn,spancheck // span ownership passes to the caller
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
