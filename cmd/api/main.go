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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/creche-api/api/swagger"
	"github.com/noah-isme/creche-api/internal/handler"
	"github.com/noah-isme/creche-api/internal/repository"
	"github.com/noah-isme/creche-api/internal/router"
	"github.com/noah-isme/creche-api/internal/service"
	"github.com/noah-isme/creche-api/pkg/cache"
	"github.com/noah-isme/creche-api/pkg/config"
	"github.com/noah-isme/creche-api/pkg/database"
	"github.com/noah-isme/creche-api/pkg/export"
	"github.com/noah-isme/creche-api/pkg/logger"
	"github.com/noah-isme/creche-api/pkg/validation"
)

// @title Creche API
// @version 1.0.0
// @description Student registry, reports and exports for a childcare institution
// @BasePath /api/v1
// @schemes http
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

	loc, err := cfg.Location()
	if err != nil {
		logr.Fatal("invalid APP_TIMEZONE", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()
	validate := validation.New()

	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	sessions, gate, cacheRepo := statefulStores(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)
	reportSvc := service.NewReportService(studentRepo, cacheSvc, metrics, service.ReportServiceConfig{
		Location: loc,
		CacheTTL: cfg.Reports.CacheTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())
	studentSvc := service.NewStudentService(studentRepo, gate, reportSvc, metrics, validate, service.StudentServiceConfig{
		Location: loc,
		GateTTL:  cfg.Submission.GateTTL,
	}, logr)
	authSvc := service.NewAuthService(identityRepo, userRepo, sessions, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	engine := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Students: handler.NewStudentHandler(studentSvc, reportSvc, loc),
		Reports:  handler.NewReportHandler(reportSvc),
		Metrics:  handler.NewMetricsHandler(metrics, db),
	}, router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Sessions:       authSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// statefulStores picks Redis-backed stores when Redis is enabled and in-process ones otherwise.
func statefulStores(client *redis.Client, logr *zap.Logger) (service.SessionStore, service.SubmissionGate, service.CacheRepository) {
	if client == nil {
		logr.Info("redis disabled; sessions and submission tokens are kept in memory")
		return repository.NewMemorySessionRepository(), repository.NewMemorySubmissionGate(), nil
	}
	return repository.NewRedisSessionRepository(client),
		repository.NewRedisSubmissionGate(client),
		repository.NewCacheRepository(client, logr)
}
