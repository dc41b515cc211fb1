package models

import (
	"time"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// SettingsSingletonID is the primary key of the only settings row
const SettingsSingletonID = 1

// SettingsModel stores the single settings record
type SettingsModel struct {
	ID                 int    `gorm:"primaryKey;autoIncrement:false"`
	CompanyName        string `gorm:"type:varchar(200)"`
	CompanyAddress     string `gorm:"type:text"`
	CompanyPhone       string `gorm:"type:varchar(50)"`
	CompanyEmail       string `gorm:"type:varchar(200)"`
	CompanyWebsite     string `gorm:"type:varchar(200)"`
	CompanyBankAccount string `gorm:"type:varchar(200)"`

	PrinterName      string               `gorm:"type:varchar(200)"`
	PaperSize        settings.PaperSize   `gorm:"type:varchar(20);not null"`
	PaperOrientation settings.Orientation `gorm:"type:varchar(20);not null"`
	MarginTop        decimal.Decimal      `gorm:"type:decimal(6,2);not null"`
	MarginBottom     decimal.Decimal      `gorm:"type:decimal(6,2);not null"`
	MarginLeft       decimal.Decimal      `gorm:"type:decimal(6,2);not null"`
	MarginRight      decimal.Decimal      `gorm:"type:decimal(6,2);not null"`

	ShowLogo         bool            `gorm:"not null"`
	ShowCompanyInfo  bool            `gorm:"not null"`
	ShowCustomerInfo bool            `gorm:"not null"`
	ShowTax          bool            `gorm:"not null"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	Language         string          `gorm:"type:varchar(10);not null"`

	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "settings"
}

// ToDomain converts the model to domain Settings
func (m *SettingsModel) ToDomain() *settings.Settings {
	return &settings.Settings{
		CompanyName:        m.CompanyName,
		CompanyAddress:     m.CompanyAddress,
		CompanyPhone:       m.CompanyPhone,
		CompanyEmail:       m.CompanyEmail,
		CompanyWebsite:     m.CompanyWebsite,
		CompanyBankAccount: m.CompanyBankAccount,
		PrinterName:        m.PrinterName,
		PaperSize:          m.PaperSize,
		PaperOrientation:   m.PaperOrientation,
		MarginTop:          m.MarginTop,
		MarginBottom:       m.MarginBottom,
		MarginLeft:         m.MarginLeft,
		MarginRight:        m.MarginRight,
		ShowLogo:           m.ShowLogo,
		ShowCompanyInfo:    m.ShowCompanyInfo,
		ShowCustomerInfo:   m.ShowCustomerInfo,
		ShowTax:            m.ShowTax,
		TaxRate:            m.TaxRate,
		Currency:           m.Currency,
		Language:           m.Language,
	}
}

// SettingsModelFromDomain creates the singleton row from domain Settings
func SettingsModelFromDomain(s *settings.Settings) *SettingsModel {
	return &SettingsModel{
		ID:                 SettingsSingletonID,
		CompanyName:        s.CompanyName,
		CompanyAddress:     s.CompanyAddress,
		CompanyPhone:       s.CompanyPhone,
		CompanyEmail:       s.CompanyEmail,
		CompanyWebsite:     s.CompanyWebsite,
		CompanyBankAccount: s.CompanyBankAccount,
		PrinterName:        s.PrinterName,
		PaperSize:          s.PaperSize,
		PaperOrientation:   s.PaperOrientation,
		MarginTop:          s.MarginTop,
		MarginBottom:       s.MarginBottom,
		MarginLeft:         s.MarginLeft,
		MarginRight:        s.MarginRight,
		ShowLogo:           s.ShowLogo,
		ShowCompanyInfo:    s.ShowCompanyInfo,
		ShowCustomerInfo:   s.ShowCustomerInfo,
		ShowTax:            s.ShowTax,
		TaxRate:            s.TaxRate,
		Currency:           s.Currency,
		Language:           s.Language,
	}
}
