package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
)

// VendorProfile represents a seller's storefront application and payout identity.
type VendorProfile struct {
	ID                     string             `gorm:"column:id;type:text;primaryKey"`
	UserID                 string             `gorm:"column:user_id;type:text;not null;uniqueIndex"`
	StoreName              string             `gorm:"column:store_name;not null"`
	GSTNumber              *string            `gorm:"column:gst_number"`
	PANNumber              *string            `gorm:"column:pan_number"`
	BankAccountNumber      *string            `gorm:"column:bank_account_number"`
	BankIFSC               *string            `gorm:"column:bank_ifsc"`
	BankAccountHolder      *string            `gorm:"column:bank_account_holder"`
	Status                 enums.VendorStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	RejectionReason        *string            `gorm:"column:rejection_reason"`
	PlatformCommissionRate *decimal.Decimal   `gorm:"column:platform_commission_rate;type:numeric(5,2)"`
	User                   *User              `gorm:"foreignKey:UserID"`
	CreatedAt              time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
