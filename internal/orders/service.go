package orders

import (
	"context"
	"fmt"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Service defines vendor-facing order operations.
type Service interface {
	ListForVendor(ctx context.Context, vendorID string) ([]models.Order, error)
	Update(ctx context.Context, input UpdateInput) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService wires an orders service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	if vendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	return s.repo.ListByVendor(ctx, vendorID)
}

// fulfillment transitions a vendor may perform; payment transitions belong to
// the webhook reconciler and the expiry sweeper
var vendorTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPlaced:  {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped: {enums.OrderStatusDelivered},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range vendorTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Order, error) {
	if input.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.VendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if input.Status == nil && input.TrackingNumber == nil && input.CourierPartner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	order, err := s.repo.FindByIDForVendor(ctx, input.OrderID, input.VendorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Status != nil {
		next := *input.Status
		if !next.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
				WithDetails(map[string]any{"status": next.String()})
		}
		if !transitionAllowed(order.Status, next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}
		updates["status"] = next
	}
	if input.TrackingNumber != nil {
		if order.Status == enums.OrderStatusPendingPayment {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is awaiting payment")
		}
		updates["tracking_number"] = *input.TrackingNumber
	}
	if input.CourierPartner != nil {
		if order.Status == enums.OrderStatusPendingPayment {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is awaiting payment")
		}
		updates["courier_partner"] = *input.CourierPartner
	}

	affected, err := s.repo.UpdateFulfillment(ctx, input.OrderID, input.VendorID, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	return s.repo.FindByIDForVendor(ctx, input.OrderID, input.VendorID)
}
