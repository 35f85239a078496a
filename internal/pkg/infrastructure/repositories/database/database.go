package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrSensorNotFound = errors.New("sensor not found")
	ErrMissingTenant  = errors.New("missing tenant information")
	ErrStoreFailed    = errors.New("could not store data")
	ErrQueryFailed    = errors.New("could not fetch data from repository")
)

type ConnectorConfig struct {
	Host     string
	Port     string
	Username string
	DbName   string
	Password string
	SslMode  string
}

type ConnectorFunc func() (*gorm.DB, error)

func NewSQLiteConnector(ctx context.Context) ConnectorFunc {
	return func() (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			Logger:          logger.Default.LogMode(logger.Silent),
			CreateBatchSize: 1000,
		})

		if err == nil {
			db.Exec("PRAGMA foreign_keys = ON")
			sqldb, _ := db.DB()
			sqldb.SetMaxOpenConns(1)
		}

		return db, err
	}
}

func NewPostgreSQLConnector(ctx context.Context, cfg ConnectorConfig) ConnectorFunc {
	dbURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DbName, cfg.SslMode, cfg.Password)

	log := logging.GetLoggerFromContext(ctx)

	return func() (*gorm.DB, error) {
		sublogger := log.With().Str("host", cfg.Host).Str("database", cfg.DbName).Logger()

		sublogger.Info().Msg("connecting to database host")

		db, err := gorm.Open(postgres.Open(dbURI), &gorm.Config{
			Logger: logger.New(
				&logadapter{logger: sublogger},
				logger.Config{
					SlowThreshold:             time.Second,
					LogLevel:                  logger.Warn,
					IgnoreRecordNotFoundError: true,
					Colorful:                  false,
				},
			),
		})
		if err != nil {
			sublogger.Error().Err(err).Msg("failed to connect to database")
			return nil, err
		}

		return db, nil
	}
}

// Open connects using the supplied connector and migrates every model
// so that all repositories can share the returned handle.
func Open(connect ConnectorFunc) (*gorm.DB, error) {
	db, err := connect()
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&Location{}, &Sensor{}, &TemperatureReading{}, &AuditEvent{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqldb, err := db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

// logadapter provides a Printf interface to the gorm logger
// so that we can forward the log data to zerolog
type logadapter struct {
	logger zerolog.Logger
}

func (adapter *logadapter) Printf(format string, args ...interface{}) {
	adapter.logger.Info().Msgf(format, args...)
}
