package settings

import (
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// SettingsRequest replaces the whole settings record
type SettingsRequest struct {
	CompanyName        string `json:"company_name" binding:"required,max=200"`
	CompanyAddress     string `json:"company_address" binding:"max=500"`
	CompanyPhone       string `json:"company_phone" binding:"max=50"`
	CompanyEmail       string `json:"company_email" binding:"omitempty,email,max=200"`
	CompanyWebsite     string `json:"company_website" binding:"max=200"`
	CompanyBankAccount string `json:"company_bank_account" binding:"max=200"`

	PrinterName      string          `json:"printer_name" binding:"max=200"`
	PaperSize        string          `json:"paper_size" binding:"required,paper_size"`
	PaperOrientation string          `json:"paper_orientation" binding:"required,oneof=portrait landscape"`
	MarginTop        decimal.Decimal `json:"margin_top"`
	MarginBottom     decimal.Decimal `json:"margin_bottom"`
	MarginLeft       decimal.Decimal `json:"margin_left"`
	MarginRight      decimal.Decimal `json:"margin_right"`

	ShowLogo         bool            `json:"show_logo"`
	ShowCompanyInfo  bool            `json:"show_company_info"`
	ShowCustomerInfo bool            `json:"show_customer_info"`
	ShowTax          bool            `json:"show_tax"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Currency         string          `json:"currency" binding:"required,len=3"`
	Language         string          `json:"language" binding:"omitempty,oneof=id en"`
}

// SettingsResponse represents settings in API responses
type SettingsResponse struct {
	CompanyName        string `json:"company_name"`
	CompanyAddress     string `json:"company_address"`
	CompanyPhone       string `json:"company_phone"`
	CompanyEmail       string `json:"company_email"`
	CompanyWebsite     string `json:"company_website"`
	CompanyBankAccount string `json:"company_bank_account"`

	PrinterName      string          `json:"printer_name"`
	PaperSize        string          `json:"paper_size"`
	PaperOrientation string          `json:"paper_orientation"`
	MarginTop        decimal.Decimal `json:"margin_top"`
	MarginBottom     decimal.Decimal `json:"margin_bottom"`
	MarginLeft       decimal.Decimal `json:"margin_left"`
	MarginRight      decimal.Decimal `json:"margin_right"`

	ShowLogo         bool            `json:"show_logo"`
	ShowCompanyInfo  bool            `json:"show_company_info"`
	ShowCustomerInfo bool            `json:"show_customer_info"`
	ShowTax          bool            `json:"show_tax"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Currency         string          `json:"currency"`
	Language         string          `json:"language"`
}

// ToDomain converts the request into a settings record
func (r SettingsRequest) ToDomain() settings.Settings {
	return settings.Settings{
		CompanyName:        r.CompanyName,
		CompanyAddress:     r.CompanyAddress,
		CompanyPhone:       r.CompanyPhone,
		CompanyEmail:       r.CompanyEmail,
		CompanyWebsite:     r.CompanyWebsite,
		CompanyBankAccount: r.CompanyBankAccount,
		PrinterName:        r.PrinterName,
		PaperSize:          settings.PaperSize(r.PaperSize),
		PaperOrientation:   settings.Orientation(r.PaperOrientation),
		MarginTop:          r.MarginTop,
		MarginBottom:       r.MarginBottom,
		MarginLeft:         r.MarginLeft,
		MarginRight:        r.MarginRight,
		ShowLogo:           r.ShowLogo,
		ShowCompanyInfo:    r.ShowCompanyInfo,
		ShowCustomerInfo:   r.ShowCustomerInfo,
		ShowTax:            r.ShowTax,
		TaxRate:            r.TaxRate,
		Currency:           r.Currency,
		Language:           r.Language,
	}
}

// ToSettingsResponse converts a settings record to SettingsResponse
func ToSettingsResponse(s *settings.Settings) SettingsResponse {
	return SettingsResponse{
		CompanyName:        s.CompanyName,
		CompanyAddress:     s.CompanyAddress,
		CompanyPhone:       s.CompanyPhone,
		CompanyEmail:       s.CompanyEmail,
		CompanyWebsite:     s.CompanyWebsite,
		CompanyBankAccount: s.CompanyBankAccount,
		PrinterName:        s.PrinterName,
		PaperSize:          string(s.PaperSize),
		PaperOrientation:   string(s.PaperOrientation),
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
