package mytrace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// New installs a global tracer provider. Without an OTLP endpoint spans are recorded but never exported.
func New(c context.Context, serviceName string, otlpEndpoint string) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	res, err := resource.New(c,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating trace resource: %s", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}

	if otlpEndpoint != "" {
		exporter, err := otlptracegrpc.New(c,
			otlptracegrpc.WithEndpoint(otlpEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating otlp exporter for %s: %s", otlpEndpoint, err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(options...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}
