package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestRequirePermission(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/api/v1/products", RequirePermission(identity.PermReadProduct), ok)
	router.GET("/api/v1/settings", RequirePermission(identity.PermAccessSettings), ok)
	router.GET("/api/v1/receipts/pdf", RequireAnyPermission(identity.PermPrintReceipt, identity.PermDownloadReceipt), ok)

	admin := BearerPrefix + issueToken(t, svc, "admin-1", identity.RoleAdmin).Token
	kasir := BearerPrefix + issueToken(t, svc, "kasir-1", identity.RoleKasir).Token
	unknown := BearerPrefix + issueToken(t, svc, "x-1", identity.Role("manager")).Token

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"kasir reads products", "/api/v1/products", kasir, http.StatusOK},
		{"kasir cannot open settings", "/api/v1/settings", kasir, http.StatusForbidden},
		{"admin opens settings", "/api/v1/settings", admin, http.StatusOK},
		{"kasir prints receipts", "/api/v1/receipts/pdf", kasir, http.StatusOK},
		{"unknown role is denied", "/api/v1/products", unknown, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
			}
		})
	}
}

func TestRequirePermission_WithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/api/v1/products", RequirePermission(identity.PermReadProduct), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := get(router, "/api/v1/products", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
}

func TestHasPermission(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"delete_sale": HasPermission(c, identity.PermDeleteSale),
			"create_sale": HasPermission(c, identity.PermCreateSale),
		})
	})

	w := get(router, "/check", BearerPrefix+issueToken(t, svc, "kasir-1", identity.RoleKasir).Token)
	assert.JSONEq(t, `{"delete_sale":false,"create_sale":true}`, w.Body.String())
}
