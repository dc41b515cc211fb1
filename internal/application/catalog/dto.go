package catalog

import (
	"time"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Category      string           `json:"category" binding:"max=100"`
	Supplier      string           `json:"supplier" binding:"max=200"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a partial product update.
// Nil fields keep their current value.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Supplier      *string          `json:"supplier" binding:"omitempty,max=200"`
	Price         *decimal.Decimal `json:"price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=200"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Supplier      string          `json:"supplier"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	LowStock      bool            `json:"low_stock"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name category price stock created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	LowStock bool   `form:"low_stock"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product, lowStockThreshold int) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Supplier:      p.Supplier,
		Price:         p.Price,
		PurchasePrice: p.PurchasePrice,
		Stock:         p.Stock,
		LowStock:      p.IsLowStock(lowStockThreshold),
		ProfitMargin:  p.GetProfitMargin(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to ProductResponses
func ToProductResponses(products []catalog.Product, lowStockThreshold int) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], lowStockThreshold)
	}
	return responses
}
