package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts, latency and connection pool usage.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter

	slowQueryThreshold time.Duration
	registration       metric.Registration
	logger             *zap.Logger
}

// NewDBMetrics creates the query instruments and, when sqlDB is not nil,
// observable gauges over its pool statistics.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowQueryThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowQueryThreshold <= 0 {
		slowQueryThreshold = DefaultDBTracingConfig().SlowQueryThreshold
	}

	queryTotal, err := NewCounter(meter, "db.client.queries", "Database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db.client.query.duration",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db.client.slow_queries", "Queries slower than the threshold", "{query}")
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{
		queryTotal:         queryTotal,
		queryDuration:      queryDuration,
		slowQueryTotal:     slowQueryTotal,
		slowQueryThreshold: slowQueryThreshold,
		logger:             logger,
	}

	if sqlDB != nil {
		connections, err := meter.Int64ObservableGauge("db.client.connections",
			metric.WithDescription("Connections in the pool by state"),
			metric.WithUnit("{connection}"),
		)
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			stats := sqlDB.Stats()
			o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
			o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
			o.ObserveInt64(connections, int64(stats.MaxOpenConnections), metric.WithAttributes(AttrDBPoolState.String("max")))
			return nil
		}, connections)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordQuery records one finished statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	if table == "" {
		table = "unknown"
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	}
	m.queryTotal.Inc(ctx, attrs...)
	m.queryDuration.RecordDuration(ctx, duration, attrs...)
	if duration > m.slowQueryThreshold {
		m.slowQueryTotal.Inc(ctx, attrs...)
	}
}

// Stop unregisters the pool gauges.
func (m *DBMetrics) Stop() {
	if m.registration == nil {
		return
	}
	if err := m.registration.Unregister(); err != nil {
		m.logger.Warn("Failed to unregister pool metrics", zap.Error(err))
	}
	m.registration = nil
}

// RegisterDBMetrics creates DBMetrics for db and hooks it into every gorm
// operation.
func RegisterDBMetrics(db *gorm.DB, meter metric.Meter, slowQueryThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(meter, sqlDB, slowQueryThreshold, logger)
	if err != nil {
		return nil, err
	}

	if err := ensureQueryTimer(db); err != nil {
		return nil, err
	}
	record := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) { m.observe(tx, op) }
	}
	raw := func(tx *gorm.DB) { m.observe(tx, detectOperationType(tx.Statement.SQL.String())) }
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().After("gorm:create").Register("pos_metrics:after_create", record("INSERT")),
		cb.Query().After("gorm:query").Register("pos_metrics:after_query", record("SELECT")),
		cb.Update().After("gorm:update").Register("pos_metrics:after_update", record("UPDATE")),
		cb.Delete().After("gorm:delete").Register("pos_metrics:after_delete", record("DELETE")),
		cb.Row().After("gorm:row").Register("pos_metrics:after_row", raw),
		cb.Raw().After("gorm:raw").Register("pos_metrics:after_raw", raw),
	} {
		if err != nil {
			m.Stop()
			return nil, err
		}
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.slowQueryThreshold))
	return m, nil
}

func (m *DBMetrics) observe(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	elapsed, _ := queryElapsed(ctx)
	m.RecordQuery(ctx, operation, tx.Statement.Table, elapsed)
}
