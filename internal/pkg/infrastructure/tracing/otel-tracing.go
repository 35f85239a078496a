package tracing

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 5 * time.Second

type CleanupFunc func()

type Option func(*settings)

type settings struct {
	sampleRatio float64
}

// WithSampleRatio sets the share of new traces that are recorded. Traces
// started by a caller keep the caller's sampling decision.
func WithSampleRatio(ratio float64) Option {
	return func(s *settings) {
		s.sampleRatio = min(max(ratio, 0), 1)
	}
}

// Init installs a batching OTLP/HTTP exporter when OTEL_EXPORTER_OTLP_ENDPOINT
// is set. Trace context propagation is enabled either way.
func Init(ctx context.Context, logger zerolog.Logger, serviceName, serviceVersion string, opts ...Option) (CleanupFunc, error) {
	s := &settings{sampleRatio: 1}
	for _, apply := range opts {
		apply(s)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		logger.Info().Msg("no trace exporter endpoint configured")
		return func() {}, nil
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
	if err != nil {
		return func() {}, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.sampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		)),
	)
	otel.SetTracerProvider(provider)

	logger.Info().Str("endpoint", endpoint).Float64("sampleRatio", s.sampleRatio).Msg("exporting traces")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}, nil
}

// RecordAnyErrorAndEndSpan marks the span as failed if err is non nil and ends it
func RecordAnyErrorAndEndSpan(err error, span trace.Span) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
