package catalog

import (
	"fmt"
	"strings"

	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Category      string
	Supplier      string
	Price         decimal.Decimal // selling price
	PurchasePrice decimal.Decimal
	Stock         int
}

// NewProduct creates a new product with a generated ID
func NewProduct(name, category, supplier string, price, purchasePrice decimal.Decimal, stock int) (*Product, error) {
	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := product.apply(name, category, supplier, price, purchasePrice, stock); err != nil {
		return nil, err
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the product's editable fields
func (p *Product) Update(name, category, supplier string, price, purchasePrice decimal.Decimal, stock int) error {
	if err := p.apply(name, category, supplier, price, purchasePrice, stock); err != nil {
		return err
	}

	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

func (p *Product) apply(name, category, supplier string, price, purchasePrice decimal.Decimal, stock int) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validatePrice("price", price); err != nil {
		return err
	}
	if err := validatePrice("purchase price", purchasePrice); err != nil {
		return err
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Name = name
	p.Category = strings.TrimSpace(category)
	p.Supplier = strings.TrimSpace(supplier)
	p.Price = price
	p.PurchasePrice = purchasePrice
	p.Stock = stock
	return nil
}

// CanReserve reports whether quantity units can be taken from stock
func (p *Product) CanReserve(quantity int) bool {
	return quantity >= 1 && p.Stock >= quantity
}

// Reserve decrements stock by quantity. Stock is left untouched on failure.
func (p *Product) Reserve(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.Stock < quantity {
		return NewInsufficientStockError(p, quantity)
	}

	p.Stock -= quantity
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, -quantity, StockChangeReserved))

	return nil
}

// Restore returns previously reserved units to stock
func (p *Product) Restore(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	p.Stock += quantity
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity, StockChangeRestored))

	return nil
}

// AdjustStock applies a manual correction (restock or shrinkage)
func (p *Product) AdjustStock(delta int) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment cannot be zero")
	}
	if p.Stock+delta < 0 {
		return NewInsufficientStockError(p, -delta)
	}

	p.Stock += delta
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, delta, StockChangeAdjusted))

	return nil
}

// LineTotal returns price * quantity in exact decimal arithmetic
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Matches reports whether term is a case-insensitive substring of the
// name or category. An empty term matches everything.
func (p *Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// IsLowStock reports whether stock is at or below threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

// GetProfitMargin returns the margin percentage ((price - cost) / price * 100)
func (p *Product) GetProfitMargin() decimal.Decimal {
	if p.Price.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(p.PurchasePrice).Div(p.Price).Mul(decimal.NewFromInt(100)).Round(2)
}

// Validation functions

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Product %s cannot be negative", field))
	}
	return nil
}
