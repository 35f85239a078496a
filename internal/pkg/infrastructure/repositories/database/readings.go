package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReadingRepository interface {
	CreateReading(ctx context.Context, reading *TemperatureReading) error
	QueryReadings(ctx context.Context, conditions ...ConditionFunc) ([]TemperatureReading, error)
}

type readingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{
		db: db,
	}
}

// CreateReading inserts a new reading. Readings are never updated, so an
// existing id is reported as an error rather than overwritten.
func (r *readingRepository) CreateReading(ctx context.Context, reading *TemperatureReading) error {
	if reading.Tenant == "" {
		return ErrMissingTenant
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(reading).
		Error

	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return nil
}

func (r *readingRepository) QueryReadings(ctx context.Context, conditions ...ConditionFunc) ([]TemperatureReading, error) {
	c := newCondition(conditions...)

	if c.Tenant == "" {
		return nil, ErrMissingTenant
	}

	query := r.db.WithContext(ctx).
		Joins("Sensor").
		Joins("Location").
		Where("temperature_readings.tenant = ?", c.Tenant)

	if c.SensorID != "" {
		query = query.Where("temperature_readings.sensor_id = ?", c.SensorID)
	}

	if c.LocationID != "" {
		query = query.Where("temperature_readings.location_id = ?", c.LocationID)
	}

	if c.RecordedAfter != nil {
		query = query.Where("temperature_readings.recorded_at >= ?", *c.RecordedAfter)
	}

	if c.RecordedBefore != nil {
		query = query.Where("temperature_readings.recorded_at <= ?", *c.RecordedBefore)
	}

	if c.AlertsOnly {
		query = query.Where("temperature_readings.alert_triggered = ?", true)
	}

	if offset, ok := c.Offset(); ok {
		query = query.Offset(offset)
	}

	if limit, ok := c.Limit(); ok {
		query = query.Limit(limit)
	}

	readings := []TemperatureReading{}

	err := query.
		Order("temperature_readings.recorded_at DESC").
		Order("temperature_readings.created_at DESC").
		Find(&readings).
		Error

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
	}

	return readings, nil
}
