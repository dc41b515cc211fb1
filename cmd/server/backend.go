package main

import (
	"context"
	"fmt"
	"time"

	salesapp "github.com/lababil/pos/internal/application/sales"
	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/infrastructure/cache"
	"github.com/lababil/pos/internal/infrastructure/config"
	"github.com/lababil/pos/internal/infrastructure/logger"
	"github.com/lababil/pos/internal/infrastructure/persistence"
	"github.com/lababil/pos/internal/infrastructure/persistence/memory"
	"github.com/lababil/pos/internal/infrastructure/telemetry"
	"github.com/lababil/pos/internal/interfaces/http/handler"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const driverMemory = "memory"

// backend bundles the repositories of the selected storage driver
type backend struct {
	products  catalog.ProductRepository
	users     identity.UserRepository
	lines     sales.SaleLineRepository
	settings  settings.Repository
	sequence  sales.ReceiptSequence
	scope     salesapp.TransactionScope
	checks    map[string]handler.HealthCheck
	closeFunc func() error
}

func (b *backend) Close() error {
	if b.closeFunc == nil {
		return nil
	}
	return b.closeFunc()
}

func openBackend(
	ctx context.Context,
	cfg *config.Config,
	location *time.Location,
	meters *telemetry.MeterProvider,
	log *zap.Logger,
) (*backend, error) {
	if cfg.Database.Driver == driverMemory {
		return openMemoryBackend(cfg, location, log)
	}
	return openSQLBackend(ctx, cfg, location, meters, log)
}

func openMemoryBackend(cfg *config.Config, location *time.Location, log *zap.Logger) (*backend, error) {
	opts := []memory.Option{memory.WithLogger(log)}
	if cfg.Database.SnapshotPath != "" {
		opts = append(opts, memory.WithFile(cfg.Database.SnapshotPath, true))
	}
	store := memory.NewStore(location, opts...)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load memory snapshot: %w", err)
	}
	if cfg.Redis.Enabled {
		log.Warn("Redis receipt counters are ignored by the memory driver")
	}

	log.Info("Using in-memory store", zap.String("snapshot", cfg.Database.SnapshotPath))

	return &backend{
		products: memory.NewProductRepository(store),
		users:    memory.NewUserRepository(store),
		lines:    memory.NewSaleLineRepository(store),
		settings: memory.NewSettingsRepository(store),
		sequence: memory.NewReceiptSequence(store),
		scope:    memory.NewTransactionScope(store),
		checks:   map[string]handler.HealthCheck{},
		closeFunc: func() error {
			if cfg.Database.SnapshotPath == "" {
				return nil
			}
			return store.Flush()
		},
	}, nil
}

func openSQLBackend(
	ctx context.Context,
	cfg *config.Config,
	location *time.Location,
	meters *telemetry.MeterProvider,
	log *zap.Logger,
) (*backend, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL))

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Database schema migrated")
	}

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	tracing.TracerProvider = otel.GetTracerProvider()
	if db.Driver() == persistence.DriverPostgres {
		tracing.DBSystem = "postgresql"
	} else {
		tracing.DBSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, tracing, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	if meters.IsEnabled() {
		if _, err := telemetry.RegisterDBMetrics(db.DB, meters.Meter("lababil-pos/db"), tracing.SlowQueryThreshold, log); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}

	scope := persistence.NewGormTransactionScope(db.DB, location)
	var sequence sales.ReceiptSequence = persistence.NewGormReceiptSequence(db.DB)

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	closeFunc := db.Close

	factory := cache.NewReceiptSequenceFactory(cfg.Redis, cache.WithLogger(log))
	selected, usingRedis, err := factory.CreateSequence(ctx, sequence)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if usingRedis {
		sequence = selected
		scope.WithExternalSequence()
		if counters, ok := selected.(*cache.RedisReceiptSequence); ok {
			checks["redis"] = counters.Ping
			closeFunc = func() error {
				_ = counters.Close()
				return db.Close()
			}
		}
	}

	return &backend{
		products:  persistence.NewGormProductRepository(db.DB),
		users:     persistence.NewGormUserRepository(db.DB),
		lines:     persistence.NewGormSaleLineRepository(db.DB, location),
		settings:  persistence.NewGormSettingsRepository(db.DB),
		sequence:  sequence,
		scope:     scope,
		checks:    checks,
		closeFunc: closeFunc,
	}, nil
}
