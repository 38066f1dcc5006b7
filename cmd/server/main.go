package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appintegration "github.com/hotelier/backend/internal/application/integration"
	domainintegration "github.com/hotelier/backend/internal/domain/integration"
	"github.com/hotelier/backend/internal/infrastructure/cache"
	"github.com/hotelier/backend/internal/infrastructure/config"
	"github.com/hotelier/backend/internal/infrastructure/connectors"
	"github.com/hotelier/backend/internal/infrastructure/logger"
	"github.com/hotelier/backend/internal/infrastructure/persistence"
	"github.com/hotelier/backend/internal/interfaces/http/handler"
	"github.com/hotelier/backend/internal/interfaces/http/middleware"
	"github.com/hotelier/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	syncLock, err := cache.NewRedisSyncLock(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := syncLock.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}()

	// Repositories
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	logRepo := persistence.NewGormIntegrationLogRepository(db.DB)
	menuItemRepo := persistence.NewGormMenuItemRepository(db.DB)
	guestRepo := persistence.NewGormGuestRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)

	// Provider adapters
	executor := connectors.NewRequestExecutor(log)
	posAdapter := connectors.NewPOSAdapter(executor, menuItemRepo, log)
	pmsAdapter := connectors.NewPMSAdapter(executor, guestRepo, roomRepo, log)

	// Application services
	resolver := appintegration.NewProfileResolver(integrationRepo)
	activity := appintegration.NewActivityLogger(logRepo, log)
	orchestrator := appintegration.NewOrchestrator(integrationRepo, resolver, activity, syncLock, log,
		appintegration.OrchestratorConfig{
			Workers:    cfg.Integration.SyncWorkers,
			RunTimeout: cfg.Integration.SyncRunTimeout,
			LockTTL:    cfg.Integration.SyncLockTTL,
			StaleAfter: cfg.Integration.SyncStaleAfter,
		})
	syncService := appintegration.NewSyncService(resolver, orchestrator, activity, logRepo,
		[]domainintegration.SyncSource{posAdapter, pmsAdapter},
		posAdapter, pmsAdapter, log)

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.RequestLogger(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewIntegrationHandler(syncService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
