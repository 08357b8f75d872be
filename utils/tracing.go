package utils

import (
	"context"

	"indastreet/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// InitTracer installs a global tracer provider exporting to the configured
// OTLP collector. With no endpoint configured the global no-op provider is
// left in place. The returned func flushes and stops the exporter.
func InitTracer(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	endpoint := config.AppConfig.OTLPEndpoint
	if endpoint == "" {
		GetLogger().Info("Tracing disabled: no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", config.GetEnv()),
		),
	)
	if err != nil {
		GetLogger().Warn("Failed to build trace resource", zap.Error(err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	GetLogger().Info("Tracing enabled", zap.String("endpoint", endpoint))
	return tp.Shutdown, nil
}
