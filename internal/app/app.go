// Package app assembles the storage clients and services shared by the API
// server and the admin console.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/internal/repository"
	"github.com/noah-isme/practicum-admin-api/internal/service"
	"github.com/noah-isme/practicum-admin-api/pkg/cache"
	"github.com/noah-isme/practicum-admin-api/pkg/config"
	"github.com/noah-isme/practicum-admin-api/pkg/database"
	"github.com/noah-isme/practicum-admin-api/pkg/export"
	"github.com/noah-isme/practicum-admin-api/pkg/jobs"
)

// App holds the wired services.
type App struct {
	DB    *sqlx.DB
	Cache *repository.CacheRepository

	Metrics      *service.MetricsService
	Auth         *service.AuthService
	Activity     *service.ActivityRecorder
	Applications *service.ApplicationService
	Institutions *service.InstitutionService
	Payments     *service.PaymentService
	Memos        *service.MemoService
	ActivityLogs *service.ActivityLogService

	logger *zap.Logger
}

// New connects to Postgres (and Redis when the list cache is enabled) and
// builds every service. The activity recorder is started; call Close to drain it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			// The list cache is optional; serve straight from Postgres.
			logger.Warn("redis unavailable, list cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	a := &App{DB: db, Cache: repository.NewCacheRepository(redisClient, logger), logger: logger}
	a.Metrics = service.NewMetricsService()
	a.Auth = service.NewAuthService(service.AuthConfig{
		Secret:      cfg.Auth.JWTSecret,
		Issuer:      cfg.Auth.Issuer,
		AdminEmails: cfg.Auth.AdminEmails,
	})

	cacheSvc := service.NewCacheService(
		a.Cache,
		a.Metrics,
		cfg.Cache.TTL,
		logger,
		cfg.Cache.Enabled && redisClient != nil,
	)

	a.Activity = service.NewActivityRecorder(repository.NewActivityLogRepository(db), a.Metrics, jobs.QueueConfig{
		Workers:    cfg.Activity.Workers,
		MaxRetries: cfg.Activity.Retries,
		RetryDelay: cfg.Activity.RetryDelay,
		Logger:     logger,
	})
	a.Activity.Start(ctx)

	deps := service.Dependencies{
		Validator: validator.New(),
		Logger:    logger,
		Cache:     cacheSvc,
		Metrics:   a.Metrics,
		Activity:  a.Activity,
	}
	opts := service.ListOptions{
		Location:        cfg.Location(),
		DefaultPageSize: cfg.Listing.DefaultPageSize,
		MaxPageSize:     cfg.Listing.MaxPageSize,
		BulkConcurrency: cfg.Listing.BulkConcurrency,
		CacheTTL:        cfg.Cache.TTL,
	}
	exporter := service.NewExportService(
		service.ExportConfig{MaxRows: cfg.Export.MaxRows},
		logger,
		export.NewCSVExporter(),
		export.NewPDFExporter(cfg.Export.PDFFontPath),
	)

	a.Applications = service.NewApplicationService(repository.NewApplicationRepository(db), exporter, deps, opts)
	a.Institutions = service.NewInstitutionService(repository.NewInstitutionRepository(db), deps, opts)
	a.Payments = service.NewPaymentService(repository.NewPaymentRepository(db), deps, opts)
	a.Memos = service.NewMemoService(repository.NewMemoRepository(db), deps, opts)
	a.ActivityLogs = service.NewActivityLogService(repository.NewActivityLogRepository(db), deps, opts)

	return a, nil
}

// PingDB checks the Postgres connection.
func (a *App) PingDB(ctx context.Context) error {
	return a.DB.PingContext(ctx)
}

// PingRedis checks the Redis connection when one is configured.
func (a *App) PingRedis(ctx context.Context) error {
	return a.Cache.Ping(ctx)
}

// Close drains pending activity entries within ctx and releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Activity.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close postgres: %w", err))
	}
	return errors.Join(errs...)
}
