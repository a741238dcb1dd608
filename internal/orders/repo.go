package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByIDForVendor(ctx context.Context, orderID, vendorID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND vendor_id = ?", orderID, vendorID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ConfirmBySession flips every PENDING_PAYMENT order correlated with the
// session to PLACED and clears the correlator. The status precondition makes
// replays a no-op.
func (r *repository) ConfirmBySession(ctx context.Context, sessionID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_session_id = ? AND status = ?", sessionID, enums.OrderStatusPendingPayment).
		Updates(map[string]any{
			"status":             enums.OrderStatusPlaced,
			"payment_session_id": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPendingPayment, cutoff).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// LockPending re-reads one pending order under a non-waiting row lock. Rows
// held by a live checkout or webhook are surfaced as not found so the caller
// skips them instead of blocking.
func (r *repository) LockPending(ctx context.Context, orderID string) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{
			Strength: clause.LockingStrengthUpdate,
			Options:  clause.LockingOptionsSkipLocked,
		})
	}

	var order models.Order
	err := query.
		Preload("Items").
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPendingPayment).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pending order not available")
		}
		return nil, err
	}
	return &order, nil
}

// CancelPending marks a still-pending order cancelled. The status guard keeps
// it from racing a webhook confirmation.
func (r *repository) CancelPending(ctx context.Context, orderID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPendingPayment).
		Updates(map[string]any{
			"status":             enums.OrderStatusCancelled,
			"payment_session_id": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateFulfillment(ctx context.Context, orderID, vendorID string, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND vendor_id = ?", orderID, vendorID).
		Updates(updates)
	return res.RowsAffected, res.Error
}
