package application

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/audit"
	"github.com/opsflow/temperature-compliance/internal/pkg/application/readings"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/notification"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
)

type App interface {
	Readings() readings.ReadingService
	Auditor() audit.Logger

	SeedSensors(ctx context.Context, sensors io.Reader) error
}

type app struct {
	sensors  database.SensorRepository
	readings readings.ReadingService
	auditor  audit.Logger
}

// New builds the reading service and the audit logger on top of a migrated
// database handle
func New(db *gorm.DB, identity readings.Identity, notifier notification.Notifier, m *metrics.Metrics, cfg *Config) App {
	sensors := database.NewSensorRepository(db)
	auditor := audit.New(database.NewAuditRepository(db), m)

	timeouts := readings.DefaultTimeouts()
	if cfg != nil {
		timeouts = cfg.Timeouts
	}

	if notifier == nil {
		notifier = notification.Unavailable()
	}

	return &app{
		sensors:  sensors,
		readings: readings.New(identity, sensors, database.NewReadingRepository(db), auditor, notifier, m, timeouts),
		auditor:  auditor,
	}
}

func (a *app) Readings() readings.ReadingService {
	return a.readings
}

func (a *app) Auditor() audit.Logger {
	return a.auditor
}

func (a *app) SeedSensors(ctx context.Context, sensors io.Reader) error {
	return a.sensors.Seed(ctx, sensors)
}
