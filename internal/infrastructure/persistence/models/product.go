package models

import (
	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	AggregateModel
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Category      string          `gorm:"type:varchar(100);index"`
	Supplier      string          `gorm:"type:varchar(200)"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Stock         int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		Supplier:          m.Supplier,
		Price:             m.Price,
		PurchasePrice:     m.PurchasePrice,
		Stock:             m.Stock,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Category = p.Category
	m.Supplier = p.Supplier
	m.Price = p.Price
	m.PurchasePrice = p.PurchasePrice
	m.Stock = p.Stock
}

// ProductModelFromDomain creates a model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
