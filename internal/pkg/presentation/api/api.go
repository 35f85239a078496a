package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/audit"
	"github.com/opsflow/temperature-compliance/internal/pkg/application/readings"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/tracing"
	"github.com/opsflow/temperature-compliance/internal/pkg/presentation/api/auth"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

var tracer = otel.Tracer("temperature-compliance/api")

const (
	defaultAuditLimit int = 100
	maxAuditLimit     int = 1000

	maxSubmissionBytes int64 = 16 << 10
)

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, svc readings.ReadingService, auditor audit.Logger, alerts http.Handler, m *metrics.Metrics, opts ...auth.Option) (*chi.Mux, error) {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if m != nil {
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	log := logging.GetLoggerFromContext(ctx)

	// Handle valid / invalid tokens.
	authenticator, err := auth.NewAuthenticator(ctx, policies, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	router.Route("/api/v0", func(r chi.Router) {
		r.Route("/temperature", func(r chi.Router) {
			r.With(authenticator.RequireAccess(auth.ScopeReadingsWrite)).Post("/", submitReadingHandler(log, svc))
			r.With(authenticator.RequireAccess(auth.ScopeReadingsRead)).Get("/", listReadingsHandler(log, svc))
		})

		r.With(authenticator.RequireAccess(auth.ScopeAuditRead)).Get("/audit", listAuditEventsHandler(log, auditor))

		if alerts != nil {
			r.With(authenticator.RequireAccess(auth.ScopeReadingsRead)).Get("/alerts/stream", alerts.ServeHTTP)
		}
	})

	return router, nil
}

func submitReadingHandler(log zerolog.Logger, svc readings.ReadingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "submit-reading")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				requestLogger.Info().Int64("limit", tooLarge.Limit).Msg("request body too large")
				writeError(w, http.StatusBadRequest, errInvalidInput, types.ValidationDetail{
					Code:    readings.CodeTooLong,
					Message: fmt.Sprintf("request body must not exceed %d bytes", maxSubmissionBytes),
				})
				return
			}

			requestLogger.Error().Err(err).Msg("unable to read body")
			writeError(w, http.StatusBadRequest, errInvalidInput)
			return
		}

		submission, err := readings.DecodeSubmission(body)
		if err != nil {
			writeServiceError(w, requestLogger, err)
			return
		}

		summary, err := svc.SubmitReading(ctx, submission)
		if err != nil {
			writeServiceError(w, requestLogger, err)
			return
		}

		requestLogger.Debug().Str("reading_id", summary.ID).Msg("reading stored")

		writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: summary}.Byte())
	}
}

func listReadingsHandler(log zerolog.Logger, svc readings.ReadingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-readings")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		filter, verr := parseReadingFilter(r.URL.Query())
		if verr != nil {
			err = verr
			writeServiceError(w, requestLogger, err)
			return
		}

		result, pagination, err := svc.ListReadings(ctx, filter)
		if err != nil {
			writeServiceError(w, requestLogger, err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result, Pagination: &pagination}.Byte())
	}
}

func listAuditEventsHandler(log zerolog.Logger, auditor audit.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "list-audit-events")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		user, err := auth.Identity{}.CurrentUser(ctx)
		if err != nil || user.TenantID == "" {
			writeError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}

		q := r.URL.Query()
		limit, d1 := intParam(q, "limit")
		offset, d2 := intParam(q, "offset")
		if d1 != nil || d2 != nil {
			err = readings.ErrInvalidInput
			details := []types.ValidationDetail{}
			for _, d := range []*types.ValidationDetail{d1, d2} {
				if d != nil {
					details = append(details, *d)
				}
			}
			writeError(w, http.StatusBadRequest, errInvalidInput, details...)
			return
		}

		pagination := types.Pagination{Limit: defaultAuditLimit}
		if limit != nil {
			pagination.Limit = min(max(*limit, 1), maxAuditLimit)
		}
		if offset != nil && *offset > 0 {
			pagination.Offset = *offset
		}

		events, err := auditor.Query(ctx, user.TenantID, pagination.Offset, pagination.Limit)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to query audit events")
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}

		pagination.Total = len(events)

		writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: events, Pagination: &pagination}.Byte())
	}
}

func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *readings.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Debug().Err(err).Msg("invalid input")
		writeError(w, http.StatusBadRequest, errInvalidInput, verr.Details...)
	case errors.Is(err, readings.ErrUnauthorized):
		log.Info().Err(err).Msg("unauthorized")
		writeError(w, http.StatusUnauthorized, errUnauthorized)
	case errors.Is(err, readings.ErrSensorNotFound):
		log.Info().Err(err).Msg("sensor not found")
		writeError(w, http.StatusNotFound, errSensorNotFound)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}
