package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/lababil/pos/internal/application/catalog"
	identityapp "github.com/lababil/pos/internal/application/identity"
	salesapp "github.com/lababil/pos/internal/application/sales"
	settingsapp "github.com/lababil/pos/internal/application/settings"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/infrastructure/auth"
	"github.com/lababil/pos/internal/infrastructure/cache"
	"github.com/lababil/pos/internal/infrastructure/config"
	"github.com/lababil/pos/internal/infrastructure/event"
	"github.com/lababil/pos/internal/infrastructure/logger"
	"github.com/lababil/pos/internal/infrastructure/printing"
	"github.com/lababil/pos/internal/infrastructure/storage"
	"github.com/lababil/pos/internal/infrastructure/telemetry"
	"github.com/lababil/pos/internal/interfaces/http/handler"
	"github.com/lababil/pos/internal/interfaces/http/middleware"
	"github.com/lababil/pos/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Lababil POS API
//	@version		1.0
//	@description	Point of sale backend: product catalog, sales ledger, receipts and user management

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting Lababil POS",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	location, err := cfg.Sales.Location()
	if err != nil {
		log.Fatal("Invalid sales timezone", zap.String("timezone", cfg.Sales.Timezone), zap.Error(err))
	}

	ctx := context.Background()

	// Telemetry
	tracingConfig, metricsConfig := telemetry.ConfigFrom(cfg.Telemetry)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, tracingConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, metricsConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// Storage
	store, err := openBackend(ctx, cfg, location, meterProvider, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	salesMetrics, err := telemetry.NewSalesMetrics(meterProvider.Meter("lababil-pos/sales"))
	if err != nil {
		log.Fatal("Failed to create sales metrics", zap.Error(err))
	}
	eventBus.Subscribe(salesMetrics)
	eventBus.Subscribe(event.NewLowStockHandler(cfg.Sales.LowStockThreshold, log, salesMetrics.RecordLowStock))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Token revocation lives in Redis when it is available so every
	// instance sees a logout
	var revocations auth.RevocationStore = auth.NewInMemoryRevocationStore()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, token revocation is local to this instance", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			revocations = auth.NewRedisRevocationStore(client)
		}
	}

	// Application services
	stockLock := &sync.Mutex{}
	settingsService := settingsapp.NewSettingsService(store.settings, log)
	productService := catalogapp.NewProductService(store.products, eventBus, stockLock, cfg.Sales.LowStockThreshold, log)

	generator := sales.NewReceiptNumberGenerator(store.sequence, cfg.Sales.ReceiptPrefix, time.Now, location)
	ledgerService := salesapp.NewLedgerService(
		stockLock,
		store.scope,
		store.lines,
		generator,
		settingsService,
		eventBus,
		salesapp.LedgerConfig{
			RestorePolicy:        salesapp.StockRestorePolicy(cfg.Sales.StockRestorePolicy),
			DefaultPaymentMethod: cfg.Sales.DefaultPaymentMethod,
			TopProducts:          cfg.Sales.TopProducts,
			Location:             location,
		},
		log,
	)

	var pdfRenderer salesapp.ReceiptPDFRenderer
	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			ExecPath:       cfg.Printing.ChromePath,
			DefaultTimeout: cfg.Printing.RenderTimeout,
			MaxConcurrency: cfg.Printing.MaxConcurrency,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Warn("PDF rendering disabled", zap.Error(err))
		} else {
			defer func() { _ = renderer.Close() }()
			pdfRenderer = renderer
		}
	}

	archive, err := openArchive(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open receipt archive", zap.Error(err))
	}
	receiptService := salesapp.NewReceiptService(
		ledgerService,
		settingsService,
		printing.NewTemplateEngine(),
		pdfRenderer,
		archive,
		location,
		cfg.Storage.PresignExpiry,
		log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	userService := identityapp.NewUserService(store.users, eventBus, revocations, cfg.JWT.AccessTokenExpiration, log)
	authService := identityapp.NewAuthService(store.users, jwtService, revocations, log)

	if cfg.Seed.Enabled {
		if err := userService.SeedDefaults(ctx, cfg.Seed.AdminPassword, cfg.Seed.KasirPassword); err != nil {
			log.Fatal("Failed to seed default users", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id first so every later log line and error
	// body carries it, recovery next so panics in the rest are caught
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: tracingConfig.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
			Logger:        log,
		}),
	)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log

	healthHandler := handler.NewHealthHandler(store.checks)

	r := router.NewRouter(engine)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig), middleware.SpanAttributes())

	var opts router.APIOptions
	if cfg.HTTP.LoginRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		defer limiter.Stop()
		opts.LoginThrottle = middleware.RateLimit(limiter)
	}

	router.RegisterAPI(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Products: handler.NewProductHandler(productService),
		Sales:    handler.NewSaleHandler(ledgerService),
		Receipts: handler.NewReceiptHandler(receiptService),
		Users:    handler.NewUserHandler(userService),
		Settings: handler.NewSettingsHandler(settingsService),
		Health:   healthHandler,
	}, opts)
	r.Setup()

	// Probes hit the root path without the API prefix
	engine.GET("/health", healthHandler.Health)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openArchive returns S3 storage when configured, a local directory when
// only a path is set, and nil when archiving is off
func openArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (salesapp.ObjectStorage, error) {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiry(cfg.Storage.PresignExpiry))
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Archiving receipts to object storage", zap.String("bucket", s3.GetBucket()))
		return s3, nil
	}

	if cfg.Storage.LocalPath == "" {
		log.Info("Receipt archiving disabled")
		return nil, nil
	}

	local, err := storage.NewFileSystemStorage(storage.FileSystemStorageConfig{
		BasePath: cfg.Storage.LocalPath,
		BaseURL:  "/api/v1/receipts/archive",
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Archiving receipts to local directory", zap.String("path", cfg.Storage.LocalPath))
	return local, nil
}
