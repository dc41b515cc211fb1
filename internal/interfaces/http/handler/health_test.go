package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler) (int, map[string]string) {
	t.Helper()
	router := gin.New()
	router.GET("/health", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler_Healthy(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return nil },
	})
	h.now = func() time.Time { return time.Date(2025, 9, 22, 10, 0, 0, 0, time.UTC) }

	status, body := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]string{
		"database": "ok",
		"redis":    "ok",
		"status":   "healthy",
		"time":     "2025-09-22T10:00:00Z",
	}, body)
}

func TestHealthHandler_NoChecks(t *testing.T) {
	status, body := serveHealth(t, NewHealthHandler(nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestHealthHandler_FailingCheck(t *testing.T) {
	var deadlineSet bool
	h := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error {
			_, deadlineSet = ctx.Deadline()
			return errors.New("connection refused")
		},
		"redis": func(context.Context) error { return nil },
	})

	status, body := serveHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "error", body["database"])
	assert.Equal(t, "ok", body["redis"])
	assert.True(t, deadlineSet)
}
