package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return metricdata.Metrics{}
}

func TestHTTPMetricsWithMeter(t *testing.T) {
	provider, reader := setupTestMeter(t)
	router := gin.New()
	router.Use(HTTPMetricsWithMeter(provider.Meter("test"), zap.NewNop()))
	router.GET("/api/v1/products/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "product")
	})
	router.GET("/api/v1/receipts/pdf", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	get(router, "/api/v1/products/p-1", "")
	get(router, "/api/v1/products/p-2", "")
	get(router, "/api/v1/receipts/pdf", "")
	get(router, "/nowhere", "")

	requests := findMetric(t, reader, "http.server.requests")
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
		status, _ := dp.Attributes.Value(telemetry.AttrHTTPStatusCode)
		counts[route.AsString()+" "+status.Emit()] += dp.Value
	}
	assert.Equal(t, int64(2), counts["/api/v1/products/:id 200"])
	assert.Equal(t, int64(1), counts["/api/v1/receipts/pdf 503"])
	assert.Equal(t, int64(1), counts["unknown 404"])

	duration := findMetric(t, reader, "http.server.request.duration")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var observed uint64
	for _, dp := range hist.DataPoints {
		observed += dp.Count
	}
	assert.Equal(t, uint64(4), observed)

	active := findMetric(t, reader, "http.server.active_requests")
	activeSum, ok := active.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range activeSum.DataPoints {
		assert.Zero(t, dp.Value)
	}
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	tests := []HTTPMetricsConfig{
		{Enabled: false},
		{Enabled: true, MeterProvider: nil},
	}
	for _, cfg := range tests {
		router := gin.New()
		router.Use(HTTPMetrics(cfg))
		router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := get(router, "/test", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRoutePattern(t *testing.T) {
	router := gin.New()
	var got string
	router.GET("/api/v1/sales/receipts/*receipt", func(c *gin.Context) {
		got = routePattern(c)
	})

	get(router, "/api/v1/sales/receipts/0001/LS/22092025", "")
	assert.Equal(t, "/api/v1/sales/receipts/*receipt", got)
}
