package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "go_gizmo/api/v1"
	apiauth "go_gizmo/api/v1/auth"
	"go_gizmo/internal/bootstrap"
	"go_gizmo/internal/config"
	"go_gizmo/internal/dns"
	"go_gizmo/internal/logger"
)

func main() {
	cfg, err := config.LoadAuto()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close(context.Background())

	if cfg.Migrate {
		if err := app.Migrate(); err != nil {
			app.Logger.WithError(err).Fatal("Migration failed")
		}
	}

	worker := dns.NewPullWorker(app.Service, dns.WorkerConfig{
		Enabled:     cfg.Worker.Enabled,
		IntervalSec: cfg.Worker.IntervalSec,
		Concurrency: cfg.Worker.Concurrency,
	}, logger.Component(app.Logger, "dns-pull-worker"))
	worker.Start()
	defer worker.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	v1.SetupRouter(r, v1.Deps{
		Service: app.Service,
		Users:   apiauth.NewGormUsers(app.DB),
		Issuer:  app.Issuer,
		Logger:  logger.Component(app.Logger, "http"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		app.Logger.WithField("addr", cfg.HTTPAddr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	app.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
