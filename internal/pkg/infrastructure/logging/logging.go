package logging

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type contextKey struct{}

type Option func(zerolog.Logger) zerolog.Logger

// WithLevel sets the minimum level of the service logger. Unknown levels are ignored.
func WithLevel(level string) Option {
	return func(l zerolog.Logger) zerolog.Logger {
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil || level == "" {
			return l
		}
		return l.Level(lvl)
	}
}

func NewLogger(ctx context.Context, serviceName, serviceVersion string, opts ...Option) (context.Context, zerolog.Logger) {
	logger := log.With().
		Str("service", strings.ToLower(serviceName)).
		Str("version", serviceVersion).
		Logger()

	for _, apply := range opts {
		logger = apply(logger)
	}

	return NewContextWithLogger(ctx, logger), logger
}

func NewContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

func GetLoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
		return logger
	}
	return log.Logger
}

// AddTraceIDToLoggerAndStoreInContext tags the logger with the span's trace id
// when the span is sampled, and stores the result in the returned context.
func AddTraceIDToLoggerAndStoreInContext(span trace.Span, logger zerolog.Logger, ctx context.Context) (string, context.Context, zerolog.Logger) {
	traceID := ""

	if sc := span.SpanContext(); sc.TraceID().IsValid() {
		traceID = sc.TraceID().String()
		logger = logger.With().Str("traceID", traceID).Logger()
	}

	return traceID, NewContextWithLogger(ctx, logger), logger
}

// Middleware stores a copy of logger, tagged with the request id, in each
// request context and logs the outcome of the request at debug level.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger := logger
			if id := middleware.GetReqID(r.Context()); id != "" {
				requestLogger = logger.With().Str("requestID", id).Logger()
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(NewContextWithLogger(r.Context(), requestLogger)))

			requestLogger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request served")
		})
	}
}
