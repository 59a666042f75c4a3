package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/halfstats/ingestor/external/sofascore"
	"github.com/halfstats/ingestor/internal/config"
	"github.com/halfstats/ingestor/internal/domain/competition"
	"github.com/halfstats/ingestor/internal/domain/sheet"
	"github.com/halfstats/ingestor/internal/domain/syncindex"
	"github.com/halfstats/ingestor/internal/infrastructure/repository/postgres"
	"github.com/halfstats/ingestor/internal/platform/logging"
	"github.com/halfstats/ingestor/internal/platform/resilience"
	"github.com/halfstats/ingestor/internal/usecase"
)

// App bundles the wired ingestion pipeline and the resources it owns.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	DB       *sqlx.DB
	Registry *competition.Registry
	Sheets   sheet.Repository
	Index    syncindex.Repository
	Provider *sofascore.Client
	Ingest   *usecase.IngestService
}

// Build connects the database, constructs the provider client and wires
// the ingestion services. The returned App owns the DB handle; call
// Close when done.
func Build(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	location, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("load report timezone %q: %w", cfg.ReportTimezone, err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	sheets := postgres.NewSheetRepository(db)
	index := postgres.NewSyncIndexRepository(db)
	registry := competition.DefaultRegistry()

	provider := sofascore.NewClient(sofascore.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.ProviderTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:      cfg.ProviderBaseURL,
		ProxyBaseURL: cfg.ProviderProxyBaseURL,
		UserAgent:    cfg.ProviderUserAgent,
		MaxAttempts:  cfg.ProviderMaxAttempts,
		Backoff:      cfg.ProviderBackoff,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenReq,
		},
	})

	rounds := usecase.NewRoundService(provider, logger, usecase.RoundServiceConfig{
		MaxProbeRound:   cfg.MaxProbeRound,
		MissStreakLimit: cfg.MissStreakLimit,
		ProbeDelay:      cfg.ProbeDelay,
	})

	ingest := usecase.NewIngestService(
		provider,
		sheets,
		index,
		registry,
		rounds,
		usecase.NewStatNormalizer(usecase.DefaultAliasTable()),
		usecase.NewRowBuilder(location),
		logger,
		usecase.IngestConfig{
			AppendDelay:     cfg.AppendDelay,
			SeasonStartYear: cfg.SeasonStartYear,
			Location:        location,
		},
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Registry: registry,
		Sheets:   sheets,
		Index:    index,
		Provider: provider,
		Ingest:   ingest,
	}, nil
}

// Close releases resources owned by the App.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
