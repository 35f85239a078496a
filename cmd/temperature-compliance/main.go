package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/opsflow/temperature-compliance/internal/pkg/application"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/notification"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/repositories/database"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/router"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/tracing"
	"github.com/opsflow/temperature-compliance/internal/pkg/presentation/api"
	"github.com/opsflow/temperature-compliance/internal/pkg/presentation/api/auth"
)

const serviceName string = "temperature-compliance"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	enableTracing
	traceSampleRatio
	logLevel
	corsAllowedOrigins

	policiesFile
	configurationFile
	sensorsFile

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	redisURL
	rabbitMQURL
	rabbitMQExchange

	jwtSecret

	devmode
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		enableTracing: "true",

		traceSampleRatio:   "1.0",
		logLevel:           "info",
		corsAllowedOrigins: "*",

		policiesFile:      "/opt/opsflow/config/authz.rego",
		configurationFile: "/opt/opsflow/config/config.yaml",
		sensorsFile:       "/opt/opsflow/config/sensors.csv",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "opsflow",
		dbSSLMode:  "disable",

		redisURL:         "",
		rabbitMQURL:      "",
		rabbitMQExchange: "opsflow",

		jwtSecret: "",

		devmode: "false",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := version()

	ctx, logger := logging.NewLogger(ctx, serviceName, serviceVersion, logging.WithLevel(flags[logLevel]))
	logger.Info().Msg("starting up ...")

	if flags[enableTracing] == "true" {
		ratio, err := strconv.ParseFloat(flags[traceSampleRatio], 64)
		exitIf(err, logger, "invalid trace sample ratio")

		cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion, tracing.WithSampleRatio(ratio))
		exitIf(err, logger, "failed to init tracing")
		defer cleanup()
	}

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	cfg, err := parseExternalConfigFile(ctx, cfgFile)
	exitIf(err, logger, "could not load configuration")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")

	sensors, err := os.Open(flags[sensorsFile])
	exitIf(err, logger, "could not open sensors file")

	r, shutdown, err := initialize(ctx, flags, cfg, policies, sensors)
	exitIf(err, logger, "failed to initialize service")

	err = serve(ctx, logger, r, flags)
	shutdown()
	exitIf(err, logger, "failed to start request router")
}

func initialize(ctx context.Context, flags flagMap, cfg *application.Config, policies, sensors io.ReadCloser) (*chi.Mux, func(), error) {
	defer policies.Close()
	defer sensors.Close()

	log := logging.GetLoggerFromContext(ctx)

	db, err := newDatabase(ctx, flags)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create or connect to database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	webEvents := notification.NewWebEvents(func(r *http.Request) string {
		user, _ := auth.Identity{}.CurrentUser(r.Context())
		return user.TenantID
	})

	notifier, closeNotifiers := newNotifier(ctx, flags, cfg, m, webEvents)

	app := application.New(db, auth.Identity{}, notifier, m, cfg)

	err = app.SeedSensors(ctx, sensors)
	if err != nil {
		closeNotifiers()
		return nil, nil, fmt.Errorf("failed to seed sensors: %w", err)
	}

	mux := router.New(serviceName,
		router.WithLogger(log),
		router.WithAllowedOrigins(allowedOrigins(flags[corsAllowedOrigins])),
	)

	r, err := api.RegisterHandlers(ctx, mux, policies,
		app.Readings(), app.Auditor(), webEvents, m,
		auth.WithTokenVerification([]byte(flags[jwtSecret])),
	)
	if err != nil {
		closeNotifiers()
		return nil, nil, err
	}

	shutdown := func() {
		closeNotifiers()
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	return r, shutdown, nil
}

func newDatabase(ctx context.Context, flags flagMap) (*gorm.DB, error) {
	log := logging.GetLoggerFromContext(ctx)

	if flags[devmode] == "true" || flags[dbHost] == "" {
		log.Warn().Msg("no database host configured, using in-memory storage")
		return database.Open(database.NewSQLiteConnector(ctx))
	}

	return database.Open(database.NewPostgreSQLConnector(ctx, database.ConnectorConfig{
		Host:     flags[dbHost],
		Port:     flags[dbPort],
		Username: flags[dbUser],
		DbName:   flags[dbName],
		Password: flags[dbPassword],
		SslMode:  flags[dbSSLMode],
	}))
}

// newNotifier combines the browser event stream with every configured
// notification channel. Channels that are not configured or cannot be
// reached are left out.
func newNotifier(ctx context.Context, flags flagMap, cfg *application.Config, m *metrics.Metrics, webEvents *notification.WebEvents) (notification.Notifier, func()) {
	log := logging.GetLoggerFromContext(ctx)

	notifiers := []notification.Notifier{webEvents}
	closers := []func() error{webEvents.Close}

	if flags[redisURL] != "" {
		client, err := notification.NewRedisClient(flags[redisURL])
		if err != nil {
			log.Warn().Err(err).Msg("redis notifications disabled")
		} else {
			n := notification.NewRedisNotifier(client)
			notifiers = append(notifiers, n)
			closers = append(closers, n.Close)
		}
	}

	if flags[rabbitMQURL] != "" {
		n, err := notification.NewAMQPNotifier(ctx, flags[rabbitMQURL], flags[rabbitMQExchange])
		if err != nil {
			log.Warn().Err(err).Msg("message broker notifications disabled")
		} else {
			notifiers = append(notifiers, n)
			closers = append(closers, n.Close)
		}
	}

	endpoints := cfg.Endpoints(notification.TemperatureAlertEventType)
	if len(endpoints) > 0 {
		n, err := notification.NewWebhookNotifier(ctx, endpoints, cfg.WebhookAuth())
		if err != nil {
			log.Warn().Err(err).Msg("webhook notifications disabled")
		} else {
			notifiers = append(notifiers, n)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Error().Err(err).Msg("failed to close notifier")
			}
		}
	}

	if len(notifiers) == 1 {
		log.Warn().Msg("no external notification channel configured, critical alerts are only streamed to connected clients")
	}

	return notification.Multi(m, notifiers...), closeAll
}

func serve(ctx context.Context, logger zerolog.Logger, r http.Handler, flags flagMap) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", flags[listenAddress], flags[servicePort]),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		logger.Info().Str("port", flags[servicePort]).Msg("starting to listen for connections")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func parseExternalConfigFile(_ context.Context, cfgFile io.ReadCloser) (*application.Config, error) {
	defer cfgFile.Close()
	return application.LoadConfiguration(cfgFile)
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := func(name, def string) string {
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return def
	}

	flags[listenAddress] = envOrDef("LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef("SERVICE_PORT", flags[servicePort])
	flags[enableTracing] = envOrDef("ENABLE_TRACING", flags[enableTracing])
	flags[traceSampleRatio] = envOrDef("OTEL_TRACES_SAMPLE_RATIO", flags[traceSampleRatio])
	flags[logLevel] = envOrDef("LOG_LEVEL", flags[logLevel])
	flags[corsAllowedOrigins] = envOrDef("CORS_ALLOWED_ORIGINS", flags[corsAllowedOrigins])

	flags[policiesFile] = envOrDef("POLICIES_FILE", flags[policiesFile])
	flags[configurationFile] = envOrDef("CONFIG_FILE", flags[configurationFile])
	flags[sensorsFile] = envOrDef("SENSORS_FILE", flags[sensorsFile])

	flags[dbHost] = envOrDef("POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef("POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef("POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef("POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef("POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef("POSTGRES_SSLMODE", flags[dbSSLMode])

	flags[redisURL] = envOrDef("REDIS_URL", flags[redisURL])
	flags[rabbitMQURL] = envOrDef("RABBITMQ_URL", flags[rabbitMQURL])
	flags[rabbitMQExchange] = envOrDef("RABBITMQ_EXCHANGE", flags[rabbitMQExchange])

	flags[jwtSecret] = envOrDef("JWT_SECRET", flags[jwtSecret])
	flags[devmode] = envOrDef("DEV_MODE", flags[devmode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("sensors", "list of known sensors", apply(sensorsFile))
	flag.Func("config", "notification and timeout configuration file", apply(configurationFile))
	flag.Func("devmode", "enable dev mode", apply(devmode))
	flag.Parse()

	return ctx, flags
}

// allowedOrigins splits a comma separated origin list, dropping blanks.
func allowedOrigins(value string) []string {
	origins := []string{}
	for _, o := range strings.Split(value, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}
