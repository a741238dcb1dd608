package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/internal/checkout/reservation"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

// defaultPendingPaymentTTL is how long a checkout may sit unpaid before its
// reservations are handed back to the shelves.
const defaultPendingPaymentTTL = 5 * time.Minute

// OrderExpiryJobParams configure the stale checkout sweeper.
type OrderExpiryJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	PendingReader pendingOrderReader
	RepoFactory   expiryRepoFactory
	LockProducts  productLockFunc
	PendingTTL    time.Duration
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pendingOrderReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

type expiryOrderRepo interface {
	LockPending(ctx context.Context, orderID string) (*models.Order, error)
	CancelPending(ctx context.Context, orderID string) (int64, error)
}

type expiryRepoFactory func(tx *gorm.DB) expiryOrderRepo

type productLockFunc func(ctx context.Context, tx *gorm.DB, productIDs []string) (bool, error)

func defaultExpiryRepo(tx *gorm.DB) expiryOrderRepo {
	return orders.NewRepository(tx)
}

// NewOrderExpiryJob builds the cron job that cancels abandoned checkouts and
// restores their reserved stock.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.PendingReader == nil {
		return nil, fmt.Errorf("pending orders reader required")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = defaultExpiryRepo
	}
	lockProducts := params.LockProducts
	if lockProducts == nil {
		lockProducts = reservation.LockForRestore
	}
	ttl := params.PendingTTL
	if ttl <= 0 {
		ttl = defaultPendingPaymentTTL
	}
	return &orderExpiryJob{
		logg:          params.Logger,
		db:            params.DB,
		pendingReader: params.PendingReader,
		repoFactory:   repoFactory,
		lockProducts:  lockProducts,
		ttl:           ttl,
		now:           time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg          *logger.Logger
	db            txRunner
	pendingReader pendingOrderReader
	repoFactory   expiryRepoFactory
	lockProducts  productLockFunc
	ttl           time.Duration
	now           func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.pendingReader.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	expired := 0
	for _, order := range stale {
		done, err := j.expireOrder(ctx, order.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		if done {
			expired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(stale),
		"expired":    expired,
	})
	j.logg.Info(logCtx, "order expiry sweep complete")
	return multierr.Combine(errs...)
}

// expireOrder cancels one stale order and restores its line items inside a
// single transaction. Orders that lost their pending status between the scan
// and the lock, or whose row is held by a concurrent writer, are skipped.
func (j *orderExpiryJob) expireOrder(ctx context.Context, orderID string) (bool, error) {
	expired := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repoFactory(tx)
		order, err := repo.LockPending(ctx, orderID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil
			}
			return err
		}
		productIDs := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		locked, err := j.lockProducts(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		if !locked {
			// a live checkout holds one of the product rows; the order
			// stays pending until the next sweep
			return nil
		}
		for _, item := range order.Items {
			if err := reservation.Restore(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock for product %s: %w", item.ProductID, err)
			}
		}
		affected, err := repo.CancelPending(ctx, order.ID)
		if err != nil {
			return err
		}
		expired = affected > 0
		return nil
	})
	return expired, err
}
