package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func httpLogs(recorded *observer.ObservedLogs) []observer.LoggedEntry {
	return recorded.FilterMessage("HTTP Request").All()
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		path   string
		status int
		level  zapcore.Level
	}{
		{"success", "/api/v1/products", http.StatusOK, zapcore.InfoLevel},
		{"client error", "/api/v1/sales", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"server error", "/api/v1/receipts/pdf", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"health probe", "/api/v1/health", http.StatusOK, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET(tt.path, func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path+"?page=2", nil))

			logs := httpLogs(recorded)
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, tt.path, fields["path"])
			assert.Equal(t, "page=2", fields["query"])
		})
	}
}

func TestGinMiddleware_RequestAndUserIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	var ctxRequestID string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/auth/me", func(c *gin.Context) {
		c.Set(GinUserIDKey, "user-1")
		ctxRequestID = GetRequestID(c.Request.Context())
		GetGinLogger(c).Info("handler")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, "req-123", ctxRequestID)

	handlerLogs := recorded.FilterMessage("handler").All()
	require.Len(t, handlerLogs, 1)
	assert.Equal(t, "req-123", handlerLogs[0].ContextMap()["request_id"])

	logs := httpLogs(recorded)
	require.Len(t, logs, 1)
	assert.Equal(t, "user-1", logs[0].ContextMap()["user_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, w.Body.String())
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	logger := GetGinLogger(c)

	require.NotNil(t, logger)
	logger.Info("dropped")
}
