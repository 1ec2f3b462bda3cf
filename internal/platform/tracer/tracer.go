package tracer

import (
	"context"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// InitTracer installs a global tracer provider and W3C propagation. Spans are
// exported over OTLP/gRPC when otlpEndpoint is set and kept in process
// otherwise. The caller owns Shutdown.
func InitTracer(serviceName, otlpEndpoint string, appLogger *logger.Logger) *sdktrace.TracerProvider {
	log := appLogger.Named("Tracer")
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(serviceResource(serviceName, log)),
	}

	if otlpEndpoint == "" {
		log.Info("Span export disabled, OTEL_EXPORTER_OTLP_ENDPOINT is not set")
	} else if exporter, err := newExporter(otlpEndpoint); err != nil {
		log.Error("Failed to create OTLP trace exporter, spans stay local", zap.String("otlp_endpoint", otlpEndpoint), zap.Error(err))
	} else {
		opts = append(opts, sdktrace.WithBatcher(exporter))
		log.Info("Exporting spans", zap.String("otlp_endpoint", otlpEndpoint))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp
}

func newExporter(endpoint string) (*otlptrace.Exporter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
}

func serviceResource(serviceName string, log *logger.Logger) *resource.Resource {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		log.Warn("Failed to merge OpenTelemetry resource, using default", zap.Error(err))
		return resource.Default()
	}
	return res
}
