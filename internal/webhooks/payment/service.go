// Package paymentwebhook reconciles pending orders against asynchronous
// gateway confirmations.
package paymentwebhook

import (
	"context"

	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Event is the inbound confirmation shape.
type Event struct {
	Data EventData `json:"data"`
}

// EventData wraps the order block of a confirmation.
type EventData struct {
	Order *EventOrder `json:"order"`
}

// EventOrder carries the checkout session identifier the gateway echoes back.
type EventOrder struct {
	OrderID string `json:"order_id"`
}

// SessionID extracts the correlator or fails with a validation error.
func (e *Event) SessionID() (string, error) {
	if e == nil || e.Data.Order == nil || e.Data.Order.OrderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid payload structure")
	}
	return e.Data.Order.OrderID, nil
}

// ServiceParams wires the reconciler.
type ServiceParams struct {
	OrdersRepo        orders.Repository
	TransactionRunner txRunner
}

// Service flips confirmed checkouts from PENDING_PAYMENT to PLACED.
type Service struct {
	ordersRepo orders.Repository
	txRunner   txRunner
}

// NewService validates the wiring.
func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{ordersRepo: params.OrdersRepo, txRunner: params.TransactionRunner}, nil
}

// ConfirmPayment transitions every order correlated with the session that is
// still pending. Replays and unknown sessions affect zero rows and are
// reported as such, not as errors; the status guard in the repository makes
// the whole operation idempotent.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	var affected int64
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := s.ordersRepo.WithTx(tx).ConfirmBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		affected = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
