package readings

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/audit"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

func TestSubmitCompliantReading(t *testing.T) {
	is, ctx, m := testSetup(t)

	recordedAt := "2024-05-01T08:00:00Z"
	summary, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 35, 33, 40, &recordedAt))
	is.NoErr(err)

	is.True(summary.ID != "")
	is.Equal(summary.Temperature, 35.0)
	is.True(!summary.AlertTriggered)
	is.True(summary.AlertLevel == nil)
	is.Equal(summary.ComplianceStatus, types.ComplianceStatusCompliant)
	is.Equal(summary.Sensor.Name, "Walk-in cooler")
	is.Equal(summary.Location.Name, "Main kitchen")
	is.Equal(summary.RecordedAt, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))

	is.Equal(len(m.readings.CreateReadingCalls()), 1)
	stored := m.readings.CreateReadingCalls()[0].Reading
	is.Equal(stored.Tenant, "tenant-a")
	is.Equal(stored.LocationID, "kitchen-a")
	is.Equal(*stored.UserID, "user-a")
	is.Equal(stored.ThresholdMin, 33.0)
	is.Equal(stored.ThresholdMax, 40.0)

	events := m.auditor.LogCalls()
	is.Equal(len(events), 1)
	is.Equal(events[0].Event.Action, audit.ActionCreate)
	is.Equal(events[0].Event.Outcome, audit.OutcomeSuccess)
	is.Equal(events[0].Event.RiskLevel, audit.RiskLow)
	is.Equal(*events[0].Event.ResourceID, summary.ID)

	is.Equal(len(m.notifier.PublishTemperatureAlertCalls()), 0)
}

func TestSubmitWarningReadingIsAuditedOnce(t *testing.T) {
	is, ctx, m := testSetup(t)

	summary, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 41.5, 33, 40, nil))
	is.NoErr(err)

	is.Equal(*summary.AlertLevel, types.AlertLevelHigh)
	is.Equal(summary.ComplianceStatus, types.ComplianceStatusWarning)

	events := m.auditor.LogCalls()
	is.Equal(len(events), 1)
	is.Equal(events[0].Event.RiskLevel, audit.RiskMedium)
	is.Equal(len(m.notifier.PublishTemperatureAlertCalls()), 0)
}

func TestSubmitCriticalReadingRaisesAlert(t *testing.T) {
	is, ctx, m := testSetup(t)

	summary, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 45, 33, 40, nil))
	is.NoErr(err)

	is.Equal(*summary.AlertLevel, types.AlertLevelCritical)
	is.Equal(summary.ComplianceStatus, types.ComplianceStatusNonCompliant)

	events := m.auditor.LogCalls()
	is.Equal(len(events), 2)
	is.Equal(events[0].Event.RiskLevel, audit.RiskHigh)
	is.Equal(events[1].Event.Action, audit.ActionAlert)
	is.Equal(events[1].Event.RiskLevel, audit.RiskCritical)

	alerts := m.notifier.PublishTemperatureAlertCalls()
	is.Equal(len(alerts), 1)
	is.Equal(alerts[0].Alert.Tenant, "tenant-a")
	is.Equal(alerts[0].Alert.SensorID, "sensor-a1")
	is.Equal(alerts[0].Alert.LocationID, "kitchen-a")
	is.Equal(alerts[0].Alert.ReadingID, summary.ID)
	is.Equal(alerts[0].Alert.Temperature, 45.0)
	is.Equal(alerts[0].Alert.Thresholds, types.Thresholds{Min: 33, Max: 40})
	is.Equal(alerts[0].Alert.Severity, types.AlertLevelCritical)
}

func TestSubmitCriticalReadingWithoutNotifierStillSucceeds(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.notifier.AvailableFunc = func() bool { return false }

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 45, 33, 40, nil))
	is.NoErr(err)

	is.Equal(len(m.auditor.LogCalls()), 2)
	is.Equal(len(m.notifier.PublishTemperatureAlertCalls()), 0)
}

func TestSideEffectFailuresDoNotFailTheRequest(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.auditor.LogFunc = func(ctx context.Context, event audit.Event) error {
		return errors.New("audit store unavailable")
	}
	m.notifier.PublishTemperatureAlertFunc = func(ctx context.Context, alert types.TemperatureAlert) error {
		return errors.New("broker unavailable")
	}

	summary, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 45, 33, 40, nil))
	is.NoErr(err)
	is.Equal(*summary.AlertLevel, types.AlertLevelCritical)

	is.Equal(testutil.ToFloat64(m.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectAudit)), 2.0)
	is.Equal(testutil.ToFloat64(m.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectNotification)), 1.0)
}

func TestSideEffectsRunAfterCallerCancels(t *testing.T) {
	is, _, m := testSetup(t)

	ctx, cancel := context.WithCancel(context.Background())

	m.readings.CreateReadingFunc = func(ctx context.Context, reading *database.TemperatureReading) error {
		cancel()
		return nil
	}
	m.auditor.LogFunc = func(ctx context.Context, event audit.Event) error {
		return ctx.Err()
	}
	m.notifier.PublishTemperatureAlertFunc = func(ctx context.Context, alert types.TemperatureAlert) error {
		return ctx.Err()
	}

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 45, 33, 40, nil))
	is.NoErr(err)

	is.Equal(testutil.ToFloat64(m.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectAudit)), 0.0)
	is.Equal(testutil.ToFloat64(m.metrics.SideEffectFailures.WithLabelValues(metrics.SideEffectNotification)), 0.0)
}

func TestSubmitUnauthorized(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.identity.CurrentUserFunc = func(ctx context.Context) (types.User, error) {
		return types.User{}, errors.New("no token")
	}

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 35, 33, 40, nil))
	is.True(errors.Is(err, ErrUnauthorized))

	is.Equal(len(m.sensors.GetSensorCalls()), 0)
	is.Equal(len(m.auditor.LogCalls()), 0)
}

func TestSubmitInvalidInputHasNoSideEffects(t *testing.T) {
	is, ctx, m := testSetup(t)

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 500, 33, 40, nil))
	is.True(errors.Is(err, ErrInvalidInput))

	is.Equal(len(m.sensors.GetSensorCalls()), 0)
	is.Equal(len(m.readings.CreateReadingCalls()), 0)
	is.Equal(len(m.auditor.LogCalls()), 0)
	is.Equal(testutil.ToFloat64(m.metrics.ReadingsRejected.WithLabelValues("invalid_input")), 1.0)
}

func TestSubmitForUnknownSensorIsAudited(t *testing.T) {
	is, ctx, m := testSetup(t)

	_, err := m.svc.SubmitReading(ctx, submission("sensor-b1", 35, 33, 40, nil))
	is.True(errors.Is(err, ErrSensorNotFound))

	is.Equal(m.sensors.GetSensorCalls()[0].Tenant, "tenant-a")
	is.Equal(len(m.readings.CreateReadingCalls()), 0)

	events := m.auditor.LogCalls()
	is.Equal(len(events), 1)
	is.Equal(events[0].Event.Outcome, audit.OutcomeFailure)
	is.Equal(events[0].Event.RiskLevel, audit.RiskMedium)
	is.Equal(events[0].Event.Metadata["sensorId"], "sensor-b1")
}

func TestSubmitPersistenceFailure(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.readings.CreateReadingFunc = func(ctx context.Context, reading *database.TemperatureReading) error {
		return database.ErrStoreFailed
	}

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 45, 33, 40, nil))
	is.True(errors.Is(err, ErrPersistenceFailure))

	is.Equal(len(m.auditor.LogCalls()), 0)
	is.Equal(len(m.notifier.PublishTemperatureAlertCalls()), 0)
}

func TestSensorLookupFailureIsAPersistenceFailure(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.sensors.GetSensorFunc = func(ctx context.Context, sensorID, tenant string) (database.Sensor, error) {
		return database.Sensor{}, database.ErrQueryFailed
	}

	_, err := m.svc.SubmitReading(ctx, submission("sensor-a1", 35, 33, 40, nil))
	is.True(errors.Is(err, ErrPersistenceFailure))
	is.Equal(len(m.auditor.LogCalls()), 0)
}

func TestListReadingsClampsLimit(t *testing.T) {
	testCases := map[string]struct {
		limit, offset                 *int
		expectedLimit, expectedOffset int
	}{
		"defaults":        {nil, nil, DefaultLimit, 0},
		"above maximum":   {intp(5000), nil, MaxLimit, 0},
		"exactly maximum": {intp(1000), intp(20), MaxLimit, 20},
		"zero":            {intp(0), nil, 1, 0},
		"negative offset": {intp(10), intp(-5), 10, 0},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			is, ctx, m := testSetup(t)

			_, page, err := m.svc.ListReadings(ctx, ReadingFilter{Limit: tc.limit, Offset: tc.offset})
			is.NoErr(err)

			is.Equal(page.Limit, tc.expectedLimit)
			is.Equal(page.Offset, tc.expectedOffset)

			c := &database.Condition{}
			for _, f := range m.readings.QueryReadingsCalls()[0].Conditions {
				f(c)
			}

			limit, _ := c.Limit()
			is.Equal(limit, tc.expectedLimit)
			is.Equal(c.Tenant, "tenant-a")
		})
	}
}

func TestListReadingsIsAlwaysAudited(t *testing.T) {
	is, ctx, m := testSetup(t)

	result, page, err := m.svc.ListReadings(ctx, ReadingFilter{SensorID: "sensor-a1", AlertsOnly: true})
	is.NoErr(err)
	is.Equal(len(result), 1)
	is.Equal(page.Total, 1)
	is.Equal(result[0].Sensor.Name, "Walk-in cooler")

	events := m.auditor.LogCalls()
	is.Equal(len(events), 1)
	is.Equal(events[0].Event.Action, audit.ActionRead)
	is.Equal(events[0].Event.Resource, audit.ResourceTemperatureReading)
	is.Equal(events[0].Event.Metadata["resultCount"], 1)
}

func TestListReadingsUnauthorized(t *testing.T) {
	is, ctx, m := testSetup(t)
	m.identity.CurrentUserFunc = func(ctx context.Context) (types.User, error) {
		return types.User{ID: "user-a"}, nil
	}

	_, _, err := m.svc.ListReadings(ctx, ReadingFilter{})
	is.True(errors.Is(err, ErrUnauthorized))
	is.Equal(len(m.readings.QueryReadingsCalls()), 0)
	is.Equal(len(m.auditor.LogCalls()), 0)
}

// The stores below are real, backed by an in-memory database, to show that
// tenant scoping happens in the lookup and query predicates.
func TestSensorOfAnotherTenantIsNotFound(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	db, err := database.Open(database.NewSQLiteConnector(ctx))
	is.NoErr(err)
	t.Cleanup(func() { database.Close(db) })

	sensors := database.NewSensorRepository(db)
	is.NoErr(sensors.Seed(ctx, bytes.NewBufferString(sensorsCSV)))

	events := database.NewAuditRepository(db)
	readings := database.NewReadingRepository(db)

	tenantA := &IdentityMock{CurrentUserFunc: func(ctx context.Context) (types.User, error) {
		return types.User{ID: "user-a", TenantID: "tenant-a"}, nil
	}}
	tenantB := &IdentityMock{CurrentUserFunc: func(ctx context.Context) (types.User, error) {
		return types.User{ID: "user-b", TenantID: "tenant-b"}, nil
	}}
	notifier := &NotifierMock{AvailableFunc: func() bool { return false }}
	m := metrics.New(prometheus.NewRegistry())

	svcA := New(tenantA, sensors, readings, audit.New(events, m), notifier, m, DefaultTimeouts())
	svcB := New(tenantB, sensors, readings, audit.New(events, m), notifier, m, DefaultTimeouts())

	_, err = svcB.SubmitReading(ctx, submission("sensor-b1", -20, -25, -18, nil))
	is.NoErr(err)

	_, err = svcA.SubmitReading(ctx, submission("sensor-b1", -20, -25, -18, nil))
	is.True(errors.Is(err, ErrSensorNotFound))

	trail, err := events.QueryAuditEvents(ctx, database.WithTenant("tenant-a"))
	is.NoErr(err)
	is.Equal(len(trail), 1)
	is.Equal(trail[0].Outcome, string(audit.OutcomeFailure))
	is.Equal(trail[0].RiskLevel, string(audit.RiskMedium))

	result, _, err := svcA.ListReadings(ctx, ReadingFilter{SensorID: "sensor-b1"})
	is.NoErr(err)
	is.Equal(len(result), 0)

	result, _, err = svcA.ListReadings(ctx, ReadingFilter{LocationID: "kitchen-b"})
	is.NoErr(err)
	is.Equal(len(result), 0)

	result, _, err = svcB.ListReadings(ctx, ReadingFilter{})
	is.NoErr(err)
	is.Equal(len(result), 1)
	is.Equal(result[0].Location.Name, "Kitchen")
}

type testMocks struct {
	svc      ReadingService
	identity *IdentityMock
	sensors  *SensorStoreMock
	readings *ReadingStoreMock
	auditor  *audit.LoggerMock
	notifier *NotifierMock
	metrics  *metrics.Metrics
}

func testSetup(t *testing.T) (*is.I, context.Context, *testMocks) {
	is := is.New(t)
	ctx := context.Background()

	knownSensor := database.Sensor{
		ID:         "sensor-a1",
		Tenant:     "tenant-a",
		LocationID: "kitchen-a",
		Location:   database.Location{ID: "kitchen-a", Tenant: "tenant-a", Name: "Main kitchen"},
		Name:       "Walk-in cooler",
	}

	m := &testMocks{
		identity: &IdentityMock{
			CurrentUserFunc: func(ctx context.Context) (types.User, error) {
				return types.User{ID: "user-a", TenantID: "tenant-a"}, nil
			},
		},
		sensors: &SensorStoreMock{
			GetSensorFunc: func(ctx context.Context, sensorID, tenant string) (database.Sensor, error) {
				if sensorID == knownSensor.ID && tenant == knownSensor.Tenant {
					return knownSensor, nil
				}
				return database.Sensor{}, database.ErrSensorNotFound
			},
		},
		readings: &ReadingStoreMock{
			CreateReadingFunc: func(ctx context.Context, reading *database.TemperatureReading) error {
				return nil
			},
			QueryReadingsFunc: func(ctx context.Context, conditions ...database.ConditionFunc) ([]database.TemperatureReading, error) {
				level := string(types.AlertLevelHigh)
				return []database.TemperatureReading{
					{
						ID:               "reading-1",
						Tenant:           "tenant-a",
						SensorID:         knownSensor.ID,
						Sensor:           knownSensor,
						LocationID:       knownSensor.LocationID,
						Location:         knownSensor.Location,
						Temperature:      12.5,
						ThresholdMin:     0,
						ThresholdMax:     5,
						AlertTriggered:   true,
						AlertLevel:       &level,
						ComplianceStatus: string(types.ComplianceStatusWarning),
						RecordedAt:       time.Now().UTC(),
					},
				}, nil
			},
		},
		auditor: &audit.LoggerMock{
			LogFunc: func(ctx context.Context, event audit.Event) error {
				return nil
			},
		},
		notifier: &NotifierMock{
			AvailableFunc: func() bool { return true },
			PublishTemperatureAlertFunc: func(ctx context.Context, alert types.TemperatureAlert) error {
				return nil
			},
		},
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	m.svc = New(m.identity, m.sensors, m.readings, m.auditor, m.notifier, m.metrics, DefaultTimeouts())

	return is, ctx, m
}

func submission(sensorID string, temperature, min, max float64, recordedAt *string) types.ReadingSubmission {
	return types.ReadingSubmission{
		SensorID:     sensorID,
		Temperature:  &temperature,
		ThresholdMin: &min,
		ThresholdMax: &max,
		RecordedAt:   recordedAt,
	}
}

func intp(i int) *int {
	return &i
}

const sensorsCSV string = `sensorID;name;type;status;locationID;locationName;tenant
sensor-a1;Walk-in cooler;FRIDGE;active;kitchen-a;Main kitchen;tenant-a
sensor-b1;Freezer;FREEZER;active;kitchen-b;Kitchen;tenant-b`
