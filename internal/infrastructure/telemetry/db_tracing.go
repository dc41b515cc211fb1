package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled            bool
	LogFullSQL         bool          // include bound variables in db.statement
	SlowQueryThreshold time.Duration // default 200ms
	DBSystem           string        // postgresql or sqlite
	TracerProvider     trace.TracerProvider
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThreshold: 200 * time.Millisecond,
		DBSystem:           "postgresql",
	}
}

type contextKey string

const queryStartTimeKey contextKey = "pos_query_start_time"

// RegisterDBTracing installs the otelgorm plugin plus a hook that annotates
// each query span with rows affected, table and a slow query marker.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = DefaultDBTracingConfig().SlowQueryThreshold
	}

	// The annotating hook must run before otelgorm ends the span, so it is
	// registered first.
	if err := ensureQueryTimer(db); err != nil {
		return err
	}
	annotate := func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowQueryThreshold) }
	if err := registerAfter(db, "pos_trace", annotate, annotate); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.String("db_system", cfg.DBSystem),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, slowQueryThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	if elapsed, ok := queryElapsed(ctx); ok && elapsed > slowQueryThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", slowQueryThreshold.Milliseconds()),
		))
	}
}

// WithQueryStartTime returns a context carrying the query start time.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

func queryElapsed(ctx context.Context) (time.Duration, bool) {
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// ensureQueryTimer stamps the start time on every statement once, shared by
// tracing and metrics.
func ensureQueryTimer(db *gorm.DB) error {
	if db.Callback().Query().Get("pos_timing:before_query") != nil {
		return nil
	}
	stamp := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tx.Statement.Context = WithQueryStartTime(ctx)
	}
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("pos_timing:before_create", stamp),
		cb.Query().Before("gorm:query").Register("pos_timing:before_query", stamp),
		cb.Update().Before("gorm:update").Register("pos_timing:before_update", stamp),
		cb.Delete().Before("gorm:delete").Register("pos_timing:before_delete", stamp),
		cb.Row().Before("gorm:row").Register("pos_timing:before_row", stamp),
		cb.Raw().Before("gorm:raw").Register("pos_timing:before_raw", stamp),
	)
}

// registerAfter hooks fn after each gorm operation. Row and raw statements
// get raw since their operation is only known from the SQL text.
func registerAfter(db *gorm.DB, prefix string, fn, raw func(*gorm.DB)) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().After("gorm:create").Register(prefix+":after_create", fn),
		cb.Query().After("gorm:query").Register(prefix+":after_query", fn),
		cb.Update().After("gorm:update").Register(prefix+":after_update", fn),
		cb.Delete().After("gorm:delete").Register(prefix+":after_delete", fn),
		cb.Row().After("gorm:row").Register(prefix+":after_row", raw),
		cb.Raw().After("gorm:raw").Register(prefix+":after_raw", raw),
	)
}

func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}
