package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func queryAttrs(operation, table string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	}
}

func TestRegisterDBMetrics(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	reader, provider := newTestMeter(t)

	m, err := RegisterDBMetrics(db, provider.Meter("db"), time.Nanosecond, zap.NewNop())
	require.NoError(t, err)
	defer m.Stop()

	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	var widgets []widget
	require.NoError(t, db.WithContext(ctx).Find(&widgets).Error)
	require.NoError(t, db.WithContext(ctx).Exec("DELETE FROM widgets").Error)

	got := collect(t, reader)
	queries := got["db.client.queries"]
	assert.Equal(t, int64(1), intSum(t, queries, queryAttrs("INSERT", "widgets")...))
	assert.Equal(t, int64(1), intSum(t, queries, queryAttrs("SELECT", "widgets")...))
	assert.Equal(t, int64(3), intSum(t, queries))
	assert.Equal(t, int64(3), intSum(t, got["db.client.slow_queries"]))
	assert.Contains(t, got, "db.client.connections")
}

func TestRegisterDBTracing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	recorder, provider := newRecorder(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	cfg.SlowQueryThreshold = time.Nanosecond
	cfg.TracerProvider = provider
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))

	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	attrs := attrMap(spans[len(spans)-1].Attributes())
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "widgets", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), zap.NewNop()))
	assert.Nil(t, db.Callback().Create().Get("pos_trace:after_create"))
}

func TestInstrumentationSharesTheTimer(t *testing.T) {
	db := newTestDB(t)
	_, meters := newTestMeter(t)
	_, tracers := newRecorder(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.TracerProvider = tracers
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	_, err := RegisterDBMetrics(db, meters.Meter("db"), 0, zap.NewNop())
	require.NoError(t, err)
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"  select * from products": "SELECT",
		"INSERT INTO sale_lines":   "INSERT",
		"update products set":      "UPDATE",
		"DELETE FROM users":        "DELETE",
		"WITH x AS (SELECT 1)":     "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}
