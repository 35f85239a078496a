package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/readings"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

func TestConfig(t *testing.T) {
	is := is.New(t)
	config := strings.NewReader(`
notifications:
  - id: critical-temperature
    name: Critical temperature alerts
    type: opsflow.temperatureAlert
    subscribers:
    - endpoint: http://alert-receiver:8990
    - endpoint: http://alert-receiver:8990
  - id: other
    name: Something else
    type: opsflow.other
    subscribers:
    - endpoint: http://other:8080
webhook:
  oauth2:
    tokenUrl: http://keycloak/token
    clientId: temperature-compliance
    clientSecret: secret
timeouts:
  identity: 1s
  storage: 10s
  audit: 500ms
  notification: 4s
`)
	cfg, err := LoadConfiguration(config)

	is.NoErr(err)
	is.Equal(len(cfg.Notifications), 2)
	is.Equal(cfg.Notifications[0].ID, "critical-temperature")
	is.Equal(cfg.Endpoints("opsflow.temperatureAlert"), []string{"http://alert-receiver:8990"})
	is.Equal(cfg.WebhookAuth().ClientID, "temperature-compliance")
	is.Equal(cfg.Timeouts.Storage, 10*time.Second)
	is.Equal(cfg.Timeouts.Audit, 500*time.Millisecond)
}

func TestConfigDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader("notifications: []\n"))

	is.NoErr(err)
	is.Equal(cfg.Timeouts, readings.DefaultTimeouts())
	is.Equal(len(cfg.Endpoints("opsflow.temperatureAlert")), 0)
	is.True(cfg.WebhookAuth() == nil)
}

func TestAppSubmitsReadingsForSeededSensors(t *testing.T) {
	is, ctx, app := setupTest(t)

	summary, err := app.Readings().SubmitReading(ctx, types.ReadingSubmission{
		SensorID:     "sensor-1",
		Temperature:  f(4),
		ThresholdMin: f(0),
		ThresholdMax: f(5),
	})
	is.NoErr(err)
	is.Equal(summary.ComplianceStatus, types.ComplianceStatusCompliant)
	is.Equal(summary.Sensor.Name, "Walk-in fridge")

	events, err := app.Auditor().Query(ctx, "default", 0, 10)
	is.NoErr(err)
	is.Equal(len(events), 1)
}

func setupTest(t *testing.T) (*is.I, context.Context, App) {
	is := is.New(t)
	ctx := context.Background()

	db, err := database.Open(database.NewSQLiteConnector(ctx))
	is.NoErr(err)
	t.Cleanup(func() { database.Close(db) })

	identity := &readings.IdentityMock{
		CurrentUserFunc: func(ctx context.Context) (types.User, error) {
			return types.User{ID: "user-1", TenantID: "default"}, nil
		},
	}

	app := New(db, identity, nil, metrics.New(prometheus.NewRegistry()), nil)
	is.NoErr(app.SeedSensors(ctx, strings.NewReader(sensorsCSV)))

	return is, ctx, app
}

func f(v float64) *float64 {
	return &v
}

const sensorsCSV string = `sensorID;name;type;status;locationID;locationName;tenant
sensor-1;Walk-in fridge;temperature;active;kitchen-1;Main kitchen;default
`
