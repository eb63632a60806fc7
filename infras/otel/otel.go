package otel

import (
	"context"
	"housing/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
}

type otelImpl struct {
	provider oteltrace.TracerProvider
}

// NewWithProvider builds an Otel on an existing provider, e.g. an SDK provider with an
// in-memory recorder or a noop provider.
func NewWithProvider(provider oteltrace.TracerProvider) Otel {
	return &otelImpl{provider: provider}
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// New exports spans over OTLP/gRPC. Without an endpoint spans are recorded but not exported.
func New(cfg *config.Config) Otel {
	settings := cfg.External.Otel

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.App.Name),
		semconv.DeploymentEnvironment(cfg.Server.Env),
	)

	options := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(settings.SampleRatio))),
	}

	if settings.Endpoint == "" {
		log.Warn().Msg("No OTLP endpoint configured, traces are not exported")

		return NewWithProvider(trace.NewTracerProvider(options...))
	}

	exporterOptions := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(settings.Endpoint)}
	if settings.Insecure {
		exporterOptions = append(exporterOptions, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	exporter, err := otlptracegrpc.New(context.Background(), exporterOptions...)
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", settings.Endpoint).Msg("Failed to create OTLP exporter")
	}

	provider := trace.NewTracerProvider(append(options, trace.WithBatcher(exporter))...)
	otel.SetTracerProvider(provider)

	return NewWithProvider(provider)
}
