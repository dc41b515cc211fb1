package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeEmptySale, http.StatusBadRequest},
		{ErrCodeInvalidQuantity, http.StatusBadRequest},
		{ErrCodeInvalidSettings, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeProductNotFound, http.StatusNotFound},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeLastAdmin, http.StatusConflict},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodePrintingDisabled, http.StatusServiceUnavailable},
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeInsufficientStock))
	assert.False(t, IsClientError(ErrCodeArchiveDisabled))
	assert.False(t, IsClientError("SOMETHING_ELSE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Receipt not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Receipt not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewDetailedErrorResponse(t *testing.T) {
	resp := NewDetailedErrorResponse(ErrCodeInsufficientStock, "Insufficient stock", "req-1", map[string]any{
		"product_id": "p-1",
		"available":  3,
		"requested":  10,
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "INSUFFICIENT_STOCK",
			"message": "Insufficient stock",
			"request_id": "req-1",
			"details": {"product_id": "p-1", "available": 3, "requested": 10}
		}
	}`, string(data))

	t.Run("empty details are omitted", func(t *testing.T) {
		resp := NewDetailedErrorResponse(ErrCodeNotFound, "gone", "", nil)
		assert.Nil(t, resp.Error.Details)
	})
}

func TestNewValidationErrorResponse(t *testing.T) {
	fields := []ValidationDetail{
		{Field: "username", Message: "This field is required"},
		{Field: "password", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", fields)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Fields, 2)
	assert.Equal(t, "username", resp.Error.Fields[0].Field)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"name": "test"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{9, 10, 1},
		{42, 0, 1},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
		assert.Equal(t, tt.total, resp.Meta.Total)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PageSize)

	p = PageRequest{Page: 3, PageSize: 20}
	p.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
}
