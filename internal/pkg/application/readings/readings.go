package readings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/audit"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

const (
	DefaultLimit int = 100
	MaxLimit     int = 1000
)

//go:generate moq -rm -out readingservice_mock.go . ReadingService
type ReadingService interface {
	SubmitReading(ctx context.Context, raw types.ReadingSubmission) (types.ReadingSummary, error)
	ListReadings(ctx context.Context, filter ReadingFilter) ([]types.ReadingSummary, types.Pagination, error)
}

//go:generate moq -rm -out identity_mock.go . Identity
type Identity interface {
	CurrentUser(ctx context.Context) (types.User, error)
}

//go:generate moq -rm -out sensorstore_mock.go . SensorStore
type SensorStore interface {
	GetSensor(ctx context.Context, sensorID, tenant string) (database.Sensor, error)
}

//go:generate moq -rm -out readingstore_mock.go . ReadingStore
type ReadingStore interface {
	CreateReading(ctx context.Context, reading *database.TemperatureReading) error
	QueryReadings(ctx context.Context, conditions ...database.ConditionFunc) ([]database.TemperatureReading, error)
}

//go:generate moq -rm -out notifier_mock.go . Notifier
type Notifier interface {
	Available() bool
	PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error
}

type ReadingFilter struct {
	SensorID   string
	LocationID string
	StartDate  *time.Time
	EndDate    *time.Time
	AlertsOnly bool
	Limit      *int
	Offset     *int
}

// Timeouts bound each collaborator call. A zero value means no timeout.
type Timeouts struct {
	Identity     time.Duration `yaml:"identity"`
	Storage      time.Duration `yaml:"storage"`
	Audit        time.Duration `yaml:"audit"`
	Notification time.Duration `yaml:"notification"`
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Identity:     2 * time.Second,
		Storage:      5 * time.Second,
		Audit:        2 * time.Second,
		Notification: 3 * time.Second,
	}
}

type readingSvc struct {
	identity Identity
	sensors  SensorStore
	readings ReadingStore
	auditor  audit.Logger
	notifier Notifier
	metrics  *metrics.Metrics
	timeouts Timeouts

	now func() time.Time
}

func New(identity Identity, sensors SensorStore, readings ReadingStore, auditor audit.Logger, notifier Notifier, m *metrics.Metrics, timeouts Timeouts) ReadingService {
	return &readingSvc{
		identity: identity,
		sensors:  sensors,
		readings: readings,
		auditor:  auditor,
		notifier: notifier,
		metrics:  m,
		timeouts: timeouts,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (svc *readingSvc) SubmitReading(ctx context.Context, raw types.ReadingSubmission) (types.ReadingSummary, error) {
	log := logging.GetLoggerFromContext(ctx)

	user, err := svc.currentUser(ctx)
	if err != nil {
		svc.rejected("unauthorized")
		return types.ReadingSummary{}, err
	}

	submission, err := Validate(raw, svc.now())
	if err != nil {
		svc.rejected("invalid_input")
		log.Debug().Err(err).Msg("rejected invalid temperature reading")
		return types.ReadingSummary{}, err
	}

	sensor, err := svc.getSensor(ctx, submission.SensorID, user.TenantID)
	if err != nil {
		if errors.Is(err, database.ErrSensorNotFound) {
			svc.rejected("sensor_not_found")
			svc.audit(ctx, audit.Event{
				Tenant:    user.TenantID,
				UserID:    optional(user.ID),
				Action:    audit.ActionCreate,
				Resource:  audit.ResourceTemperatureReading,
				Outcome:   audit.OutcomeFailure,
				RiskLevel: audit.RiskMedium,
				Metadata: map[string]any{
					"sensorId": submission.SensorID,
					"reason":   "sensor not found or access denied",
				},
			})
			return types.ReadingSummary{}, ErrSensorNotFound
		}

		svc.rejected("persistence_failure")
		log.Error().Err(err).Str("sensorID", submission.SensorID).Msg("failed to look up sensor")
		return types.ReadingSummary{}, fmt.Errorf("%w: %s", ErrPersistenceFailure, err.Error())
	}

	c := Classify(submission.Temperature, submission.ThresholdMin, submission.ThresholdMax)

	reading := &database.TemperatureReading{
		ID:               uuid.NewString(),
		Tenant:           user.TenantID,
		SensorID:         sensor.ID,
		LocationID:       sensor.LocationID,
		UserID:           optional(user.ID),
		Temperature:      submission.Temperature,
		Humidity:         submission.Humidity,
		ThresholdMin:     submission.ThresholdMin,
		ThresholdMax:     submission.ThresholdMax,
		AlertTriggered:   c.AlertTriggered,
		AlertLevel:       levelToString(c.AlertLevel),
		ComplianceStatus: string(c.ComplianceStatus),
		RecordedAt:       submission.RecordedAt,
		CreatedAt:        svc.now(),
	}

	err = svc.createReading(ctx, reading)
	if err != nil {
		svc.rejected("persistence_failure")
		log.Error().Err(err).Str("sensorID", sensor.ID).Msg("failed to store temperature reading")
		return types.ReadingSummary{}, fmt.Errorf("%w: %s", ErrPersistenceFailure, err.Error())
	}

	if svc.metrics != nil {
		svc.metrics.ReadingsIngested.WithLabelValues(levelLabel(c.AlertLevel), string(c.ComplianceStatus)).Inc()
	}

	svc.audit(ctx, audit.Event{
		Tenant:     user.TenantID,
		UserID:     optional(user.ID),
		Action:     audit.ActionCreate,
		Resource:   audit.ResourceTemperatureReading,
		ResourceID: &reading.ID,
		Outcome:    audit.OutcomeSuccess,
		RiskLevel:  riskFor(c.ComplianceStatus),
		Metadata: map[string]any{
			"sensorId":         sensor.ID,
			"locationId":       sensor.LocationID,
			"temperature":      reading.Temperature,
			"alertTriggered":   reading.AlertTriggered,
			"alertLevel":       levelLabel(c.AlertLevel),
			"complianceStatus": reading.ComplianceStatus,
		},
	})

	if c.AlertLevel != nil && *c.AlertLevel == types.AlertLevelCritical {
		svc.raiseCriticalAlert(ctx, reading)
	}

	return toSummary(*reading, sensor.Name, sensor.Location.Name), nil
}

func (svc *readingSvc) raiseCriticalAlert(ctx context.Context, reading *database.TemperatureReading) {
	log := logging.GetLoggerFromContext(ctx)

	thresholds := types.Thresholds{Min: reading.ThresholdMin, Max: reading.ThresholdMax}

	svc.audit(ctx, audit.Event{
		Tenant:     reading.Tenant,
		UserID:     reading.UserID,
		Action:     audit.ActionAlert,
		Resource:   audit.ResourceTemperatureReading,
		ResourceID: &reading.ID,
		Outcome:    audit.OutcomeSuccess,
		RiskLevel:  audit.RiskCritical,
		Metadata: map[string]any{
			"sensorId":    reading.SensorID,
			"locationId":  reading.LocationID,
			"temperature": reading.Temperature,
			"thresholds":  map[string]any{"min": thresholds.Min, "max": thresholds.Max},
			"severity":    string(types.AlertLevelCritical),
		},
	})

	if svc.notifier == nil || !svc.notifier.Available() {
		log.Debug().Str("readingID", reading.ID).Msg("no notifier available, critical alert not published")
		return
	}

	ctx, cancel := withTimeout(context.WithoutCancel(ctx), svc.timeouts.Notification)
	defer cancel()

	err := svc.notifier.PublishTemperatureAlert(ctx, types.TemperatureAlert{
		ReadingID:   reading.ID,
		SensorID:    reading.SensorID,
		LocationID:  reading.LocationID,
		Tenant:      reading.Tenant,
		Temperature: reading.Temperature,
		Thresholds:  thresholds,
		Severity:    types.AlertLevelCritical,
		Timestamp:   reading.CreatedAt,
	})
	if err != nil {
		svc.sideEffectFailed(metrics.SideEffectNotification)
		log.Warn().Err(err).Str("readingID", reading.ID).Msg("failed to publish critical temperature alert")
	}
}

func (svc *readingSvc) ListReadings(ctx context.Context, filter ReadingFilter) ([]types.ReadingSummary, types.Pagination, error) {
	log := logging.GetLoggerFromContext(ctx)

	user, err := svc.currentUser(ctx)
	if err != nil {
		return nil, types.Pagination{}, err
	}

	limit := DefaultLimit
	if filter.Limit != nil {
		limit = clamp(*filter.Limit, 1, MaxLimit)
	}

	offset := 0
	if filter.Offset != nil && *filter.Offset > 0 {
		offset = *filter.Offset
	}

	conditions := []database.ConditionFunc{
		database.WithTenant(user.TenantID),
		database.WithOffset(offset),
		database.WithLimit(limit),
	}

	if filter.SensorID != "" {
		conditions = append(conditions, database.WithSensorID(filter.SensorID))
	}
	if filter.LocationID != "" {
		conditions = append(conditions, database.WithLocationID(filter.LocationID))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, database.WithRecordedAfter(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, database.WithRecordedBefore(*filter.EndDate))
	}
	if filter.AlertsOnly {
		conditions = append(conditions, database.WithAlertsOnly(true))
	}

	storageCtx, cancel := withTimeout(ctx, svc.timeouts.Storage)
	defer cancel()

	result, err := svc.readings.QueryReadings(storageCtx, conditions...)
	if err != nil {
		log.Error().Err(err).Msg("failed to query temperature readings")
		return nil, types.Pagination{}, fmt.Errorf("%w: %s", ErrPersistenceFailure, err.Error())
	}

	summaries := lo.Map(result, func(r database.TemperatureReading, _ int) types.ReadingSummary {
		return toSummary(r, r.Sensor.Name, r.Location.Name)
	})

	svc.audit(ctx, audit.Event{
		Tenant:    user.TenantID,
		UserID:    optional(user.ID),
		Action:    audit.ActionRead,
		Resource:  audit.ResourceTemperatureReading,
		Outcome:   audit.OutcomeSuccess,
		RiskLevel: audit.RiskLow,
		Metadata: map[string]any{
			"filters":     filterMetadata(filter),
			"limit":       limit,
			"offset":      offset,
			"resultCount": len(summaries),
		},
	})

	return summaries, types.Pagination{Limit: limit, Offset: offset, Total: len(summaries)}, nil
}

func (svc *readingSvc) currentUser(ctx context.Context) (types.User, error) {
	ctx, cancel := withTimeout(ctx, svc.timeouts.Identity)
	defer cancel()

	user, err := svc.identity.CurrentUser(ctx)
	if err != nil || user.TenantID == "" {
		return types.User{}, ErrUnauthorized
	}

	return user, nil
}

func (svc *readingSvc) getSensor(ctx context.Context, sensorID, tenant string) (database.Sensor, error) {
	ctx, cancel := withTimeout(ctx, svc.timeouts.Storage)
	defer cancel()

	return svc.sensors.GetSensor(ctx, sensorID, tenant)
}

func (svc *readingSvc) createReading(ctx context.Context, reading *database.TemperatureReading) error {
	ctx, cancel := withTimeout(ctx, svc.timeouts.Storage)
	defer cancel()

	return svc.readings.CreateReading(ctx, reading)
}

// audit writes an event on a context that the caller can not cancel.
// Failures are logged and counted but never returned.
func (svc *readingSvc) audit(ctx context.Context, event audit.Event) {
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), svc.timeouts.Audit)
	defer cancel()

	if event.Timestamp.IsZero() {
		event.Timestamp = svc.now()
	}

	err := svc.auditor.Log(ctx, event)
	if err != nil {
		svc.sideEffectFailed(metrics.SideEffectAudit)
		log := logging.GetLoggerFromContext(ctx)
		log.Warn().Err(err).
			Str("action", string(event.Action)).
			Str("outcome", string(event.Outcome)).
			Msg("failed to write audit event")
	}
}

func (svc *readingSvc) rejected(reason string) {
	if svc.metrics != nil {
		svc.metrics.ReadingsRejected.WithLabelValues(reason).Inc()
	}
}

func (svc *readingSvc) sideEffectFailed(kind string) {
	if svc.metrics != nil {
		svc.metrics.SideEffectFailures.WithLabelValues(kind).Inc()
	}
}

func toSummary(r database.TemperatureReading, sensorName, locationName string) types.ReadingSummary {
	var level *types.AlertLevel
	if r.AlertLevel != nil {
		level = types.AlertLevel(*r.AlertLevel).Ptr()
	}

	return types.ReadingSummary{
		ID:               r.ID,
		Temperature:      r.Temperature,
		Humidity:         r.Humidity,
		AlertTriggered:   r.AlertTriggered,
		AlertLevel:       level,
		ComplianceStatus: types.ComplianceStatus(r.ComplianceStatus),
		RecordedAt:       r.RecordedAt.UTC(),
		Sensor:           types.Named{Name: sensorName},
		Location:         types.Named{Name: locationName},
	}
}

func riskFor(status types.ComplianceStatus) audit.RiskLevel {
	switch status {
	case types.ComplianceStatusNonCompliant:
		return audit.RiskHigh
	case types.ComplianceStatusWarning:
		return audit.RiskMedium
	default:
		return audit.RiskLow
	}
}

func filterMetadata(f ReadingFilter) map[string]any {
	m := map[string]any{}
	if f.SensorID != "" {
		m["sensorId"] = f.SensorID
	}
	if f.LocationID != "" {
		m["locationId"] = f.LocationID
	}
	if f.StartDate != nil {
		m["startDate"] = f.StartDate.UTC().Format(time.RFC3339)
	}
	if f.EndDate != nil {
		m["endDate"] = f.EndDate.UTC().Format(time.RFC3339)
	}
	if f.AlertsOnly {
		m["alertsOnly"] = true
	}
	return m
}

func levelToString(l *types.AlertLevel) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func levelLabel(l *types.AlertLevel) string {
	if l == nil {
		return "NONE"
	}
	return string(*l)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
