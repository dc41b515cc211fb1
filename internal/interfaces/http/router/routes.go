package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/interfaces/http/handler"
	"github.com/lababil/pos/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers behind the versioned API
type Handlers struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Sales    *handler.SaleHandler
	Receipts *handler.ReceiptHandler
	Users    *handler.UserHandler
	Settings *handler.SettingsHandler
	Health   *handler.HealthHandler
}

// APIOptions holds middleware attached to individual routes
type APIOptions struct {
	// LoginThrottle guards POST /auth/login. Nil leaves it unthrottled.
	LoginThrottle gin.HandlerFunc
}

// RegisterAPI registers every point-of-sale route group on r. Each route
// names the capability it needs; the role table decides who holds it.
func RegisterAPI(r *Router, h Handlers, opts APIOptions) {
	perm := middleware.RequirePermission

	authRoutes := NewDomainGroup("auth", "/auth")
	if opts.LoginThrottle != nil {
		authRoutes.POST("/login", opts.LoginThrottle, h.Auth.Login)
	} else {
		authRoutes.POST("/login", h.Auth.Login)
	}
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)

	productRoutes := NewDomainGroup("catalog", "/products")
	productRoutes.GET("", perm(identity.PermReadProduct), h.Products.List)
	productRoutes.GET("/search", perm(identity.PermReadProduct), h.Products.Search)
	productRoutes.GET("/low-stock", perm(identity.PermReadProduct), h.Products.LowStock)
	productRoutes.GET("/:id", perm(identity.PermReadProduct), h.Products.GetByID)
	productRoutes.POST("", perm(identity.PermCreateProduct), h.Products.Create)
	productRoutes.PUT("/:id", perm(identity.PermUpdateProduct), h.Products.Update)
	productRoutes.POST("/:id/stock", perm(identity.PermUpdateProduct), h.Products.AdjustStock)
	productRoutes.DELETE("/:id", perm(identity.PermDeleteProduct), h.Products.Delete)

	saleRoutes := NewDomainGroup("sales", "/sales")
	saleRoutes.POST("", perm(identity.PermCreateSale), h.Sales.Commit)
	saleRoutes.GET("", perm(identity.PermReadSale), h.Sales.ListLines)
	saleRoutes.GET("/report", perm(identity.PermReadSale), h.Sales.Report)
	saleRoutes.GET("/receipts", perm(identity.PermReadSale), h.Sales.ListReceipts)
	saleRoutes.GET("/receipts/*receipt", perm(identity.PermReadSale), h.Sales.GetReceipt)
	saleRoutes.DELETE("/receipts/*receipt", perm(identity.PermDeleteSale), h.Sales.DeleteTransaction)
	saleRoutes.DELETE("/lines/*id", perm(identity.PermDeleteSale), h.Sales.DeleteLine)

	receiptRoutes := NewDomainGroup("receipts", "/receipts")
	receiptRoutes.GET("/html", perm(identity.PermPrintReceipt), h.Receipts.HTML)
	receiptRoutes.GET("/pdf",
		middleware.RequireAnyPermission(identity.PermPrintReceipt, identity.PermDownloadReceipt),
		h.Receipts.PDF)
	receiptRoutes.POST("/archive", perm(identity.PermDownloadReceipt), h.Receipts.Archive)
	receiptRoutes.GET("/archive/*key", perm(identity.PermDownloadReceipt), h.Receipts.Download)

	userRoutes := NewDomainGroup("identity", "/users")
	userRoutes.GET("", perm(identity.PermReadUser), h.Users.List)
	userRoutes.POST("", perm(identity.PermCreateUser), h.Users.Create)
	userRoutes.GET("/:id", perm(identity.PermReadUser), h.Users.GetByID)
	userRoutes.PUT("/:id", perm(identity.PermUpdateUser), h.Users.Update)
	userRoutes.PUT("/:id/password", perm(identity.PermUpdateUser), h.Users.ChangePassword)
	userRoutes.DELETE("/:id", perm(identity.PermDeleteUser), h.Users.Delete)

	settingsRoutes := NewDomainGroup("settings", "/settings")
	settingsRoutes.Use(perm(identity.PermAccessSettings))
	settingsRoutes.GET("", h.Settings.Get)
	settingsRoutes.PUT("", h.Settings.Replace)
	settingsRoutes.POST("/reset", h.Settings.Reset)

	healthRoutes := NewDomainGroup("health", "/health")
	healthRoutes.GET("", h.Health.Health)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(saleRoutes).
		Register(receiptRoutes).
		Register(userRoutes).
		Register(settingsRoutes).
		Register(healthRoutes)
}
