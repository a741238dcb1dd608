package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
)

// Order represents a per-vendor order produced from a checkout.
type Order struct {
	ID               string            `gorm:"column:id;type:text;primaryKey"`
	VendorID         string            `gorm:"column:vendor_id;type:text;not null;index"`
	CustomerID       *string           `gorm:"column:customer_id;type:text;index"`
	CustomerName     string            `gorm:"column:customer_name;not null"`
	CustomerEmail    string            `gorm:"column:customer_email;not null"`
	CustomerPhone    string            `gorm:"column:customer_phone;not null"`
	ShippingAddress  string            `gorm:"column:shipping_address;not null"`
	ShippingZip      *string           `gorm:"column:shipping_zip"`
	TotalAmount      decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	TaxAmount        decimal.Decimal   `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	PlatformFee      decimal.Decimal   `gorm:"column:platform_fee;type:numeric(12,2);not null;default:0"`
	VendorPayout     decimal.Decimal   `gorm:"column:vendor_payout;type:numeric(12,2);not null;default:0"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'PENDING_PAYMENT';index"`
	PaymentSessionID *string           `gorm:"column:payment_session_id;type:text;index"`
	TrackingNumber   *string           `gorm:"column:tracking_number"`
	CourierPartner   *string           `gorm:"column:courier_partner"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Vendor           *VendorProfile    `gorm:"foreignKey:VendorID"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
