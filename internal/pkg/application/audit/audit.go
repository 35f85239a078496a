package audit

import (
	"context"
	"errors"
	"time"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
	"github.com/samber/lo"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionAlert  Action = "ALERT"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

const ResourceTemperatureReading string = "temperature_reading"

type Event struct {
	Tenant     string         `json:"tenantId"`
	UserID     *string        `json:"userId,omitempty"`
	Action     Action         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID *string        `json:"resourceId,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	RiskLevel  RiskLevel      `json:"riskLevel"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

var ErrMissingTenant = errors.New("audit event has no tenant")

//go:generate moq -rm -out logger_mock.go . Logger
type Logger interface {
	Log(ctx context.Context, event Event) error
	Query(ctx context.Context, tenant string, offset, limit int) ([]Event, error)
}

//go:generate moq -rm -out eventstore_mock.go . EventStore
type EventStore interface {
	AddAuditEvent(ctx context.Context, event *database.AuditEvent) error
	QueryAuditEvents(ctx context.Context, conditions ...database.ConditionFunc) ([]database.AuditEvent, error)
}

type auditLogger struct {
	store   EventStore
	metrics *metrics.Metrics
}

func New(store EventStore, m *metrics.Metrics) Logger {
	return &auditLogger{
		store:   store,
		metrics: m,
	}
}

func (a *auditLogger) Log(ctx context.Context, event Event) error {
	if event.Tenant == "" {
		return ErrMissingTenant
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if event.RiskLevel == RiskHigh || event.RiskLevel == RiskCritical {
		log := logging.GetLoggerFromContext(ctx)
		log.Warn().
			Str("tenant", event.Tenant).
			Str("action", string(event.Action)).
			Str("resource", event.Resource).
			Str("outcome", string(event.Outcome)).
			Str("risk", string(event.RiskLevel)).
			Interface("metadata", event.Metadata).
			Msg("high risk audit event")
	}

	err := a.store.AddAuditEvent(ctx, &database.AuditEvent{
		Tenant:     event.Tenant,
		UserID:     event.UserID,
		Action:     string(event.Action),
		Resource:   event.Resource,
		ResourceID: event.ResourceID,
		Outcome:    string(event.Outcome),
		RiskLevel:  string(event.RiskLevel),
		Metadata:   event.Metadata,
		CreatedAt:  event.Timestamp,
	})
	if err != nil {
		return err
	}

	if a.metrics != nil {
		a.metrics.AuditEventsWritten.WithLabelValues(string(event.Action), string(event.Outcome)).Inc()
	}

	return nil
}

// Query returns the audit trail of a tenant, newest event first
func (a *auditLogger) Query(ctx context.Context, tenant string, offset, limit int) ([]Event, error) {
	events, err := a.store.QueryAuditEvents(ctx,
		database.WithTenant(tenant),
		database.WithOffset(offset),
		database.WithLimit(limit))
	if err != nil {
		return nil, err
	}

	return lo.Map(events, func(e database.AuditEvent, _ int) Event {
		return Event{
			Tenant:     e.Tenant,
			UserID:     e.UserID,
			Action:     Action(e.Action),
			Resource:   e.Resource,
			ResourceID: e.ResourceID,
			Outcome:    Outcome(e.Outcome),
			RiskLevel:  RiskLevel(e.RiskLevel),
			Metadata:   e.Metadata,
			Timestamp:  e.CreatedAt,
		}
	}), nil
}
