package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SensorRepository interface {
	GetSensor(ctx context.Context, sensorID, tenant string) (Sensor, error)
	Seed(ctx context.Context, reader io.Reader) error
}

type sensorRepository struct {
	db *gorm.DB
}

func NewSensorRepository(db *gorm.DB) SensorRepository {
	return &sensorRepository{
		db: db,
	}
}

// GetSensor looks up a sensor and its location. The tenant is part of the
// predicate so that a sensor owned by another tenant is reported as missing.
func (r *sensorRepository) GetSensor(ctx context.Context, sensorID, tenant string) (Sensor, error) {
	if tenant == "" {
		return Sensor{}, ErrMissingTenant
	}

	s := Sensor{}

	err := r.db.WithContext(ctx).
		Joins("Location").
		Where("sensors.id = ? AND sensors.tenant = ?", sensorID, tenant).
		First(&s).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Sensor{}, ErrSensorNotFound
		}
		return Sensor{}, fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
	}

	return s, nil
}

// Seed loads sensors and their locations from a semicolon separated file.
// Rows that already exist are left untouched.
func (r *sensorRepository) Seed(ctx context.Context, reader io.Reader) error {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = ';'

	rows, err := csvReader.ReadAll()
	if err != nil {
		return err
	}

	records, err := getRecordsFromRows(rows)
	if err != nil {
		return err
	}

	log := logging.GetLoggerFromContext(ctx)
	log.Info().Msgf("loaded %d sensors from file", len(records))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			location := Location{ID: rec.locationID, Tenant: rec.tenant, Name: rec.locationName}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&location).Error
			if err != nil {
				return fmt.Errorf("could not seed location %s: %w", rec.locationID, err)
			}

			sensor := Sensor{
				ID:         rec.sensorID,
				Tenant:     rec.tenant,
				LocationID: rec.locationID,
				Name:       rec.name,
				Type:       rec.sensorType,
				Status:     rec.status,
			}
			err = tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&sensor).Error
			if err != nil {
				return fmt.Errorf("could not seed sensor %s: %w", rec.sensorID, err)
			}
		}
		return nil
	})
}

type sensorRecord struct {
	sensorID     string
	name         string
	sensorType   string
	status       string
	locationID   string
	locationName string
	tenant       string
}

const sensorRecordFields int = 7

func newSensorRecord(r []string) (sensorRecord, error) {
	if len(r) != sensorRecordFields {
		return sensorRecord{}, fmt.Errorf("expected %d fields, found %d", sensorRecordFields, len(r))
	}

	for i := range r {
		r[i] = strings.TrimSpace(r[i])
	}

	rec := sensorRecord{
		sensorID:     r[0],
		name:         r[1],
		sensorType:   r[2],
		status:       strings.ToUpper(r[3]),
		locationID:   r[4],
		locationName: r[5],
		tenant:       r[6],
	}

	if rec.sensorID == "" {
		return sensorRecord{}, fmt.Errorf("sensor id is missing")
	}

	if rec.locationID == "" {
		return sensorRecord{}, fmt.Errorf("location id is missing for sensor %s", rec.sensorID)
	}

	if rec.tenant == "" {
		return sensorRecord{}, fmt.Errorf("tenant is missing for sensor %s", rec.sensorID)
	}

	return rec, nil
}

func getRecordsFromRows(rows [][]string) ([]sensorRecord, error) {
	var records []sensorRecord
	seen := map[string]struct{}{}

	for i, row := range rows {
		if i == 0 {
			// skip header
			continue
		}

		rec, err := newSensorRecord(row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sensor record on line %d: %w", i+1, err)
		}

		if _, ok := seen[rec.sensorID]; ok {
			return nil, fmt.Errorf("duplicate sensor id %s on line %d", rec.sensorID, i+1)
		}
		seen[rec.sensorID] = struct{}{}

		records = append(records, rec)
	}

	return records, nil
}
