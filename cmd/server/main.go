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

	appcouple "github.com/coupleledger/backend/internal/application/couple"
	appledger "github.com/coupleledger/backend/internal/application/ledger"
	apprecurrence "github.com/coupleledger/backend/internal/application/recurrence"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/infrastructure/auth"
	"github.com/coupleledger/backend/internal/infrastructure/cache"
	"github.com/coupleledger/backend/internal/infrastructure/config"
	"github.com/coupleledger/backend/internal/infrastructure/event"
	"github.com/coupleledger/backend/internal/infrastructure/logger"
	"github.com/coupleledger/backend/internal/infrastructure/persistence"
	"github.com/coupleledger/backend/internal/infrastructure/scheduler"
	"github.com/coupleledger/backend/internal/interfaces/http/handler"
	"github.com/coupleledger/backend/internal/interfaces/http/middleware"
	"github.com/coupleledger/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	coupleRepo := persistence.NewGormCoupleRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	txScope := persistence.NewGormLedgerTransactionScope(db.DB)

	// Event bus with an idempotent activity-trail subscriber. The store
	// falls back to in-memory when Redis is not configured.
	eventBus := event.NewInMemoryEventBus(log)
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}
	activityLog := event.NewIdempotentHandler(appledger.NewActivityLogHandler(log), idempotencyStore, log)
	eventBus.Subscribe(activityLog,
		ledger.EventTypeTransactionRegistered,
		ledger.EventTypeTransactionDeleted,
		ledger.EventTypeTransactionUpdated,
	)

	// Application services
	coupleService := appcouple.NewCoupleService(coupleRepo, log)
	accountService := appledger.NewAccountService(accountRepo, coupleRepo, log)
	transactionService := appledger.NewTransactionService(txScope, eventBus, log)
	installmentService := appledger.NewInstallmentService(txScope, log)
	updateScopeService := appledger.NewUpdateScopeService(txScope, eventBus, log)
	templateService := apprecurrence.NewTemplateService(templateRepo, coupleRepo, log)
	recurrenceEngine := apprecurrence.NewEngine(templateRepo, txScope, log)

	// Daily trigger: quota resets, then recurring transaction generation
	var trigger *scheduler.DailyTrigger
	if cfg.Scheduler.Enabled {
		trigger = scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
			RunHour:       cfg.Scheduler.DailyRunHour,
			RunMinute:     cfg.Scheduler.DailyRunMin,
			CheckInterval: cfg.Scheduler.CheckInterval,
		}, coupleService, recurrenceEngine, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("failed to start daily trigger", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}),
		middleware.JWTAuthMiddleware(jwtService),
	)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler(db, version)).
		Register(handler.NewAuthHandler(jwtService, coupleService)).
		Register(handler.NewCoupleHandler(coupleService)).
		Register(handler.NewAccountHandler(accountService)).
		Register(handler.NewTransactionHandler(transactionService, installmentService, updateScopeService)).
		Register(handler.NewTemplateHandler(templateService)).
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
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if trigger != nil {
		if err := trigger.Stop(ctx); err != nil {
			log.Error("failed to stop daily trigger", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
