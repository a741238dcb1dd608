package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the canonical vendor listing.
type Product struct {
	ID             string          `gorm:"column:id;type:text;primaryKey"`
	VendorID       string          `gorm:"column:vendor_id;type:text;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	Description    *string         `gorm:"column:description"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity  int             `gorm:"column:stock_quantity;not null"`
	IsGSTInclusive bool            `gorm:"column:is_gst_inclusive;not null"`
	TaxRate        decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,2);not null"`
	HSNCode        *string         `gorm:"column:hsn_code"`
	ImageURL       *string         `gorm:"column:image_url"`
	IsActive       bool            `gorm:"column:is_active;not null"`
	Vendor         *VendorProfile  `gorm:"foreignKey:VendorID"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
