package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
)

type Option func(*options)

type options struct {
	allowedOrigins []string
	logger         *zerolog.Logger
}

// WithAllowedOrigins restricts the origins that may call the api from a browser.
// An empty list keeps the default of allowing any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.allowedOrigins = origins
		}
	}
}

// WithLogger attaches a request scoped copy of logger to every request context.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

func New(serviceName string, opts ...Option) *chi.Mux {
	o := &options{allowedOrigins: []string{"*"}}
	for _, apply := range opts {
		apply(o)
	}

	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   o.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Last-Event-ID"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler)

	r.Use(middleware.RequestID)
	r.Use(exposeRequestID)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	if o.logger != nil {
		r.Use(logging.Middleware(*o.logger))
	}

	return r
}

func exposeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
