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

	inventoryapp "github.com/greatnexus/backend/internal/application/inventory"
	salesapp "github.com/greatnexus/backend/internal/application/sales"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/greatnexus/backend/internal/infrastructure/auth"
	"github.com/greatnexus/backend/internal/infrastructure/cache"
	"github.com/greatnexus/backend/internal/infrastructure/config"
	"github.com/greatnexus/backend/internal/infrastructure/logger"
	"github.com/greatnexus/backend/internal/infrastructure/persistence"
	"github.com/greatnexus/backend/internal/infrastructure/telemetry"
	"github.com/greatnexus/backend/internal/interfaces/http/handler"
	"github.com/greatnexus/backend/internal/interfaces/http/middleware"
	"github.com/greatnexus/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting invoice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
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
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Idempotency store: Redis when reachable, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
		idempotencyStore = redisStore
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	levelRepo := persistence.NewGormStockLevelRepository(db.DB)

	// Application services
	ledgerService := inventoryapp.NewStockLedgerService(
		persistence.NewGormInventoryTransactionScope(db.DB), movementRepo, levelRepo)
	invoiceService := salesapp.NewInvoiceService(
		persistence.NewGormSalesTransactionScope(db.DB), invoiceRepo, productRepo, ledgerService)

	// HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService)
	systemHandler := handler.NewSystemHandler(db.DB, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	engine.GET("/healthz", systemHandler.Health)

	r := router.NewRouter(engine)

	// Without a secret in development, auth is disabled and tenants come
	// from the X-Tenant-ID header.
	var authRequired gin.HandlerFunc
	if cfg.App.Env != "production" && cfg.JWT.Secret == "" {
		log.Warn("JWT secret not configured, authentication disabled")
		authRequired = func(c *gin.Context) { c.Next() }
	} else {
		authRequired = middleware.JWTAuth(jwtService)
	}
	idempotent := middleware.Idempotency(idempotencyStore)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.Use(authRequired)
	salesRoutes.POST("/invoices", idempotent, invoiceHandler.Create)
	salesRoutes.POST("/invoices/pos", idempotent, invoiceHandler.CreatePointOfSale)
	salesRoutes.GET("/invoices", invoiceHandler.List)
	salesRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	salesRoutes.POST("/invoices/:id/payments", invoiceHandler.Pay)
	salesRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	salesRoutes.POST("/invoices/:id/refund", invoiceHandler.Refund)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.Use(authRequired)
	inventoryRoutes.POST("/movements", idempotent, inventoryHandler.CreateMovement)
	inventoryRoutes.POST("/transfers", idempotent, inventoryHandler.CreateTransfer)
	inventoryRoutes.GET("/movements", inventoryHandler.ListMovements)
	inventoryRoutes.GET("/levels", inventoryHandler.ListLevels)

	r.Register(salesRoutes).
		Register(inventoryRoutes).
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
