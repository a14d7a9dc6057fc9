package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/sapbridge/backend/internal/application/sync"
	"github.com/sapbridge/backend/internal/infrastructure/cache"
	"github.com/sapbridge/backend/internal/infrastructure/config"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
	"github.com/sapbridge/backend/internal/infrastructure/persistence"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
	"github.com/sapbridge/backend/internal/infrastructure/sapclient"
	"github.com/sapbridge/backend/internal/infrastructure/scheduler"
	"github.com/sapbridge/backend/internal/interfaces/http/handler"
	"github.com/sapbridge/backend/internal/interfaces/http/middleware"
	"github.com/sapbridge/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SAP bridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := models.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis is optional: without it the session cache and sync lease fall
	// back to in-process implementations, which is fine for a single
	// instance.
	var (
		sessionStore sapclient.SessionStore
		syncLock     cache.SyncLock
	)
	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory session cache and sync lock", zap.Error(err))
		sessionStore = cache.NewInMemorySessionStore()
		syncLock = cache.NewInMemorySyncLock()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		sessionStore = cache.NewRedisSessionStore(redisClient, "")
		syncLock = cache.NewRedisSyncLock(redisClient, "")
	}

	sapClient, err := sapclient.New(&sapclient.Config{
		BaseURL:            cfg.SAP.BaseURL,
		CompanyDB:          cfg.SAP.CompanyDB,
		Username:           cfg.SAP.Username,
		Password:           cfg.SAP.Password,
		AuthTimeoutSeconds: cfg.SAP.AuthTimeoutSeconds,
		DataTimeoutSeconds: cfg.SAP.DataTimeoutSeconds,
	}, sessionStore, log)
	if err != nil {
		log.Fatal("Invalid Service Layer configuration", zap.Error(err))
	}

	catalogStore := persistence.NewGormCatalogStore(db.DB)
	categoryStore := persistence.NewGormCategoryStore(db.DB)
	customerStore := persistence.NewGormCustomerStore(db.DB)
	orderStore := persistence.NewGormOrderStore(db.DB)
	optionStore := persistence.NewGormOptionStore(db.DB)
	syncLogStore := persistence.NewGormSyncLogStore(db.DB)

	codes := appsync.DefaultCodeMaps()
	if cfg.Sync.ShippingItemCode != "" {
		codes.ShippingItemCode = cfg.Sync.ShippingItemCode
	}
	if cfg.Sync.ShippingTaxCode != "" {
		codes.ShippingTaxCode = cfg.Sync.ShippingTaxCode
	}

	resolver := appsync.NewCategoryResolver(sapClient, categoryStore, log)
	productSyncer := appsync.NewProductSyncer(sapClient, catalogStore, resolver, optionStore, syncLogStore, log)
	stockSyncer := appsync.NewStockSyncer(sapClient, catalogStore, optionStore, syncLogStore, log)
	customerSyncer := appsync.NewCustomerSyncer(sapClient, customerStore, optionStore, syncLogStore, codes, log)
	orderSyncer := appsync.NewOrderSyncer(sapClient, orderStore, customerSyncer, optionStore, syncLogStore, codes, log)

	executorCfg := scheduler.DefaultSyncExecutorConfig()
	if cfg.Sync.LockTTL > 0 {
		executorCfg.LockTTL = cfg.Sync.LockTTL
	}
	executor := scheduler.NewSyncExecutor(executorCfg, productSyncer, customerSyncer, stockSyncer, syncLock, log)

	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Enabled:           cfg.Scheduler.Enabled,
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
	}, executor, log)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sched.Stop(stopCtx)
	}()

	trigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
		DailySyncHour:      cfg.Scheduler.DailySyncHour,
		DailySyncMinute:    cfg.Scheduler.DailySyncMinute,
		StockIntervalHours: cfg.Scheduler.StockIntervalHours,
	}, sched, log)
	if cfg.Scheduler.Enabled {
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = trigger.Stop(stopCtx)
		}()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(sapClient, version, log)).
		Register(handler.NewSyncHandler(trigger, log)).
		Register(handler.NewOrderHandler(orderSyncer, log)).
		Register(handler.NewStockHandler(stockSyncer, log)).
		Register(handler.NewSyncLogHandler(syncLogStore, log)).
		Setup()

	engine.GET("/healthz", healthHandler(db))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "error",
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
