package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/practicum-admin-api/api/swagger"
	"github.com/noah-isme/practicum-admin-api/internal/app"
	"github.com/noah-isme/practicum-admin-api/internal/handler"
	"github.com/noah-isme/practicum-admin-api/internal/middleware"
	"github.com/noah-isme/practicum-admin-api/pkg/config"
	"github.com/noah-isme/practicum-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/practicum-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/practicum-admin-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Practicum Admin API
// @version 1.0.0
// @description Practicum placement applications, partner institutions, center payments and consultation memos.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(context.WithoutCancel(ctx), cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise services", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, a.Auth, handler.Handlers{
		Applications: handler.NewApplicationHandler(a.Applications),
		Institutions: handler.NewInstitutionHandler(a.Institutions),
		Payments:     handler.NewPaymentHandler(a.Payments),
		Memos:        handler.NewMemoHandler(a.Memos),
		ActivityLogs: handler.NewActivityLogHandler(a.ActivityLogs),
		Metrics: handler.NewMetricsHandler(a.Metrics, map[string]handler.ReadinessCheck{
			"database": a.PingDB,
			"redis":    a.PingRedis,
		}),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown", zap.Error(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		logr.Error("release resources", zap.Error(err))
	}
}
