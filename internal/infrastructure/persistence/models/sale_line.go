package models

import (
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleLineModel is one row of the append-only sales ledger.
// BatchAt and LineNo preserve ledger order: lines saved together share
// BatchAt and keep their position in LineNo.
type SaleLineModel struct {
	ID            string           `gorm:"type:varchar(100);primaryKey"`
	ReceiptNumber string           `gorm:"type:varchar(50);index"`
	ProductID     string           `gorm:"type:varchar(64);index"`
	ProductName   string           `gorm:"type:varchar(200);not null"`
	Quantity      int              `gorm:"not null"`
	UnitPrice     decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Customer      string           `gorm:"type:varchar(200);index"`
	CustomerEmail string           `gorm:"type:varchar(200)"`
	CustomerPhone string           `gorm:"type:varchar(50)"`
	SaleDate      time.Time        `gorm:"not null;index"`
	Status        sales.SaleStatus `gorm:"type:varchar(20);not null"`
	PaymentMethod string           `gorm:"type:varchar(50)"`
	CreatedAt     time.Time        `gorm:"not null"`
	BatchAt       time.Time        `gorm:"not null;index"`
	LineNo        int              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the model to a domain SaleLine. The stored sale date is
// UTC and is moved back into loc.
func (m *SaleLineModel) ToDomain(loc *time.Location) sales.SaleLine {
	date := m.SaleDate
	if loc != nil {
		date = date.In(loc)
	}
	return sales.SaleLine{
		ID:            m.ID,
		ReceiptNumber: m.ReceiptNumber,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Total:         m.Total,
		Customer:      m.Customer,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		Date:          date,
		Status:        m.Status,
		PaymentMethod: m.PaymentMethod,
		CreatedAt:     m.CreatedAt,
	}
}

// SaleLineModelFromDomain creates a model for the line at position lineNo
// of a batch saved at batchAt
func SaleLineModelFromDomain(l *sales.SaleLine, batchAt time.Time, lineNo int) *SaleLineModel {
	return &SaleLineModel{
		ID:            l.ID,
		ReceiptNumber: l.ReceiptNumber,
		ProductID:     l.ProductID,
		ProductName:   l.ProductName,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		Total:         l.Total,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		CustomerPhone: l.CustomerPhone,
		SaleDate:      l.Date.UTC(),
		Status:        l.Status,
		PaymentMethod: l.PaymentMethod,
		CreatedAt:     l.CreatedAt,
		BatchAt:       batchAt.UTC(),
		LineNo:        lineNo,
	}
}
