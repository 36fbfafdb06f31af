package models

import (
	"time"

	"backend/pricing"
)

// AppSettings is the process-wide configuration singleton (one row,
// id = 1). It is read by callers and passed into the pricing calculator
// and validator explicitly; the core never fetches it itself.
type AppSettings struct {
	ID                     int       `gorm:"primaryKey;column:id" json:"id"`
	DefaultGSTPercent      float64   `gorm:"column:default_gst_percent;type:numeric(5,2);default:18" json:"default_gst_percent"`
	DefaultDiscountPercent float64   `gorm:"column:default_discount_percent;type:numeric(5,2);default:0" json:"default_discount_percent"`
	RequiredAccessories    string    `gorm:"column:required_accessories" json:"required_accessories"`
	CompanyName            string    `gorm:"column:company_name" json:"company_name"`
	CompanyAddress         string    `gorm:"column:company_address" json:"company_address"`
	CompanyGSTNumber       string    `gorm:"column:company_gst_number" json:"company_gst_number"`
	CompanyPhone           string    `gorm:"column:company_phone" json:"company_phone"`
	UPIID                  string    `gorm:"column:upi_id" json:"upi_id"`
	QuoteTemplate          string    `gorm:"column:quote_template;default:'standard'" json:"quote_template"`
	EmailTemplate          string    `gorm:"column:email_template" json:"email_template"`
	QuoteValidityDays      int       `gorm:"column:quote_validity_days;default:30" json:"quote_validity_days"`
	UpdatedAt              time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for AppSettings
func (AppSettings) TableName() string {
	return "app_settings"
}

// DefaultAppSettings returns the settings used before the row is first
// written.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		ID:                     1,
		DefaultGSTPercent:      18,
		DefaultDiscountPercent: 0,
		RequiredAccessories:    pricing.DefaultRequiredAccessories,
		CompanyName:            "Urbanera Interiors",
		QuoteTemplate:          "standard",
		QuoteValidityDays:      30,
	}
}
