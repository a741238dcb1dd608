package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByIDForVendor(ctx context.Context, orderID, vendorID string) (*models.Order, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Order, error)
	ConfirmBySession(ctx context.Context, sessionID string) (int64, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	LockPending(ctx context.Context, orderID string) (*models.Order, error)
	CancelPending(ctx context.Context, orderID string) (int64, error)
	UpdateFulfillment(ctx context.Context, orderID, vendorID string, updates map[string]any) (int64, error)
}

// UpdateInput captures the fields a vendor may change on their own order.
type UpdateInput struct {
	OrderID        string
	VendorID       string
	Status         *enums.OrderStatus
	TrackingNumber *string
	CourierPartner *string
}
