package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/lababil/pos/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptHandler_HTML(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "kasir", testKasirPassword)
	p1 := env.addProduct(t, "Laptop ASUS", 5000000, 5)

	w := env.do(http.MethodPost, "/api/v1/sales", token, saleBody("Budi", p1.ID, "1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/receipts/html?number="+url.QueryEscape("0001/LS/22092025"), token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "0001/LS/22092025")
	assert.Contains(t, w.Body.String(), "Laptop ASUS")
	assert.Contains(t, w.Body.String(), "Budi")
}

func TestReceiptHandler_Errors(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	p1 := env.addProduct(t, "Laptop ASUS", 5000000, 5)
	w := env.do(http.MethodPost, "/api/v1/sales", token, saleBody("Budi", p1.ID, "1"))
	require.Equal(t, http.StatusCreated, w.Code)

	number := url.QueryEscape("0001/LS/22092025")
	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{"missing number", http.MethodGet, "/api/v1/receipts/html", http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"unknown receipt", http.MethodGet, "/api/v1/receipts/html?number=" + url.QueryEscape("0042/LS/22092025"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"pdf renderer not configured", http.MethodGet, "/api/v1/receipts/pdf?number=" + number, http.StatusServiceUnavailable, dto.ErrCodePrintingDisabled},
		{"archive not configured", http.MethodPost, "/api/v1/receipts/archive?number=" + number, http.StatusServiceUnavailable, dto.ErrCodeArchiveDisabled},
		{"archive download not configured", http.MethodGet, "/api/v1/receipts/archive/receipts/22092025/0001.pdf", http.StatusServiceUnavailable, dto.ErrCodeArchiveDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, token, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorOf(t, w).Code)
		})
	}
}
