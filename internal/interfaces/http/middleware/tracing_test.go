package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return recorder, provider
}

func tracedRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	recorder, provider := setupTestTracer(t)

	cfg := DefaultTracingConfig()
	cfg.TracerProvider = provider

	svc := newTestJWTService(time.Hour)
	router := gin.New()
	router.Use(RequestID(), TracingWithConfig(cfg), JWTAuthMiddleware(svc), SpanAttributes())
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/api/v1/products/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.String(http.StatusOK, "ok")
	})

	return router, recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing(t *testing.T) {
	router, recorder := tracedRouter(t)
	svc := newTestJWTService(time.Hour)
	token := BearerPrefix + issueToken(t, svc, "kasir-1", identity.RoleKasir).Token

	w := get(router, "/api/v1/products/p-1", token)
	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Contains(t, span.Name(), "/api/v1/products/:id")

	attrs := spanAttrs(span)
	assert.Equal(t, "kasir-1", attrs["user_id"].AsString())
	assert.Equal(t, "kasir", attrs["user.role"].AsString())
	assert.Equal(t, w.Header().Get(RequestIDHeader), attrs["request_id"].AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracing_ErrorStatus(t *testing.T) {
	router, recorder := tracedRouter(t)
	svc := newTestJWTService(time.Hour)
	token := BearerPrefix + issueToken(t, svc, "admin-1", identity.RoleAdmin).Token

	get(router, "/api/v1/products/missing", token)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Not Found", spans[0].Status().Description)
}

func TestTracing_SkipsHealth(t *testing.T) {
	router, recorder := tracedRouter(t)

	w := get(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	recorder, provider := setupTestTracer(t)
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, TracerProvider: provider}), SpanAttributes())
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := get(router, "/test", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}
