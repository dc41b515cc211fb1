package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/infrastructure/auth"
	"github.com/lababil/pos/internal/infrastructure/config"
	"github.com/lababil/pos/internal/interfaces/http/handler"
	"github.com/lababil/pos/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	products := NewDomainGroup("catalog", "/products")
	products.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
		POST("/:id/stock", func(c *gin.Context) { c.String(http.StatusOK, "adjusted") })
	sales := NewDomainGroup("sales", "/sales")
	sales.DELETE("/receipts/*receipt", func(c *gin.Context) { c.String(http.StatusOK, c.Param("receipt")) })

	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "v1")
		c.Next()
	})
	r.Register(products).Register(sales).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/products", "list"},
		{http.MethodGet, "/api/v1/products/p-1", "p-1"},
		{http.MethodPost, "/api/v1/products/p-1/stock", "adjusted"},
		{http.MethodDelete, "/api/v1/sales/receipts/0001/LS/22092025", "/0001/LS/22092025"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path, "")
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.body, w.Body.String())
		assert.Equal(t, "v1", w.Header().Get("X-Api"))
	}
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("settings", "/settings")
		assert.Equal(t, "settings", g.Name())
		assert.Equal(t, "/settings", g.Prefix())
	})

	t.Run("group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("receipts", "/receipts")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "receipts")
			c.Next()
		})
		archive := g.Group("archive", "/archive")
		archive.PATCH("/:key", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPatch, "/api/v1/receipts/archive/k", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "receipts", w.Header().Get("X-Group"))
	})
}

func TestRegisterAPI_Guards(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "router-test-secret-key-with-enough-length",
		AccessTokenExpiration: time.Hour,
		Issuer:                "lababil-pos-test",
	})
	kasir, err := jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      "kasir-1",
		Username:    "kasir",
		Role:        string(identity.RoleKasir),
		Permissions: identity.PermissionsFor(identity.RoleKasir),
	})
	require.NoError(t, err)

	engine := gin.New()
	r := NewRouter(engine)
	r.Use(middleware.JWTAuthMiddleware(jwtService))
	// Guards reject before any service is touched, so empty handlers suffice.
	RegisterAPI(r, Handlers{
		Auth:     handler.NewAuthHandler(nil),
		Products: handler.NewProductHandler(nil),
		Sales:    handler.NewSaleHandler(nil),
		Receipts: handler.NewReceiptHandler(nil),
		Users:    handler.NewUserHandler(nil),
		Settings: handler.NewSettingsHandler(nil),
		Health:   handler.NewHealthHandler(nil),
	}, APIOptions{})
	r.Setup()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health is public", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"products need a token", http.MethodGet, "/api/v1/products", "", http.StatusUnauthorized},
		{"kasir cannot read settings", http.MethodGet, "/api/v1/settings", kasir.Token, http.StatusForbidden},
		{"kasir cannot reset settings", http.MethodPost, "/api/v1/settings/reset", kasir.Token, http.StatusForbidden},
		{"kasir cannot delete products", http.MethodDelete, "/api/v1/products/p-1", kasir.Token, http.StatusForbidden},
		{"kasir cannot delete transactions", http.MethodDelete, "/api/v1/sales/receipts/0001/LS/22092025", kasir.Token, http.StatusForbidden},
		{"kasir cannot list users", http.MethodGet, "/api/v1/users", kasir.Token, http.StatusForbidden},
		{"kasir cannot set passwords", http.MethodPut, "/api/v1/users/u-1/password", kasir.Token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
