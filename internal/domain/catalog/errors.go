package catalog

import (
	"fmt"

	"github.com/lababil/pos/internal/domain/shared"
)

// Catalog errors
var (
	ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
)

// InsufficientStockError reports a reservation that stock cannot cover
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

// NewInsufficientStockError builds the error from the product's current stock
func NewInsufficientStockError(p *Product, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Available:   p.Stock,
		Requested:   requested,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", e.ProductName, e.Available, e.Requested)
}

// Unwrap exposes the error as an INSUFFICIENT_STOCK DomainError with details
func (e *InsufficientStockError) Unwrap() error {
	return &shared.DomainError{
		Code:    shared.ErrInsufficientStock.Code,
		Message: e.Error(),
		Details: map[string]any{
			"product_id": e.ProductID,
			"available":  e.Available,
			"requested":  e.Requested,
		},
	}
}

// ProductNotFound returns a PRODUCT_NOT_FOUND error naming the id
func ProductNotFound(id string) *shared.DomainError {
	return &shared.DomainError{
		Code:    ErrProductNotFound.Code,
		Message: fmt.Sprintf("Product not found: %s", id),
		Details: map[string]any{"product_id": id},
	}
}
