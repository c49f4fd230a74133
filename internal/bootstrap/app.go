package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_gizmo/internal/auth"
	"go_gizmo/internal/cache"
	"go_gizmo/internal/config"
	"go_gizmo/internal/db"
	"go_gizmo/internal/dns"
	"go_gizmo/internal/dns/providers"
	"go_gizmo/internal/logger"
	"go_gizmo/internal/telemetry"
)

// App holds the process wide dependencies shared by gizmo and gizmoctl
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	DB       *gorm.DB
	Redis    *redis.Client // nil when Redis is unreachable; listings are then uncached
	Registry *dns.Registry
	Service  *dns.Service
	Issuer   *auth.TokenIssuer

	shutdownTracing func(context.Context) error
}

// New wires the application from configuration
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	_, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: log, shutdownTracing: shutdown}

	app.DB, err = db.Open(cfg.MySQL.DSN, logger.Component(log, "gorm"))
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	log.Info("MySQL connected")

	var listCache dns.ListCache
	app.Redis, err = cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, provider listings will not be cached")
	} else {
		listCache = cache.NewRedisListCache(app.Redis, cfg.Providers.ListCacheTTL(), logger.Component(log, "record-cache"))
		log.Info("Redis connected")
	}

	app.Registry, err = NewRegistry(cfg.Providers, logger.Component(log, "dns-registry"))
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	app.Service = dns.NewService(dns.NewGormStore(app.DB), app.Registry, listCache, logger.Component(log, "dns-service"))

	app.Issuer, err = auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpireMinutes)*time.Minute)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	return app, nil
}

// NewRegistry builds the provider registry with every adapter registered
func NewRegistry(cfg config.ProvidersConfig, log *logrus.Entry) (*dns.Registry, error) {
	reg := dns.NewRegistry(dns.Options{
		Timeout:  cfg.Timeout(),
		BaseURLs: cfg.BaseURLs(),
		Logger:   log,
	})
	if err := providers.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("failed to register DNS providers: %w", err)
	}
	return reg, nil
}

// Migrate creates or updates the schema
func (a *App) Migrate() error {
	return db.Migrate(a.DB, logger.Component(a.Logger, "migrate"))
}

// Seed inserts DNS types and providers
func (a *App) Seed() error {
	return db.Seed(a.DB, logger.Component(a.Logger, "seed"))
}

// Close releases every connection the app opened
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	if a.shutdownTracing != nil {
		errs = append(errs, a.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
