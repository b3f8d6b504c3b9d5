// Package telemetry installs the OpenTelemetry SDK so the spans opened by
// the ensemble are recorded and exported.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName identifies truthly in exported spans.
const ServiceName = "truthly"

// Shutdown flushes buffered spans and releases the exporter.
type Shutdown func(context.Context) error

// NewTracerProvider builds a batching, always-sampling provider around exp.
func NewTracerProvider(exp sdktrace.SpanExporter, version string) *sdktrace.TracerProvider {
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}

// InitStdout exports spans as JSON to w and installs the provider globally.
// Call the returned Shutdown before exit or spans still in the batch are lost.
func InitStdout(w io.Writer, version string) (Shutdown, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := NewTracerProvider(exp, version)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
