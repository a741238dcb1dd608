package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem snapshots one product line at the moment of sale.
type OrderItem struct {
	ID          string          `gorm:"column:id;type:text;primaryKey"`
	OrderID     string          `gorm:"column:order_id;type:text;not null;index"`
	ProductID   string          `gorm:"column:product_id;type:text;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	PriceAtSale decimal.Decimal `gorm:"column:price_at_sale;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
