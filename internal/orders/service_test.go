package orders

import (
	"context"
	"testing"

	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

func statusPtr(s enums.OrderStatus) *enums.OrderStatus { return &s }

func TestUpdate_ShipPlacedOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	seedOrder(t, db, "100000040", "vendor_1", enums.OrderStatusPlaced, nil)

	updated, err := svc.Update(ctx, UpdateInput{
		OrderID:        "100000040",
		VendorID:       "vendor_1",
		Status:         statusPtr(enums.OrderStatusShipped),
		TrackingNumber: strptr("AWB123456"),
		CourierPartner: strptr("Delhivery"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("status = %s, want SHIPPED", updated.Status)
	}
	if updated.TrackingNumber == nil || *updated.TrackingNumber != "AWB123456" {
		t.Fatalf("tracking number not persisted: %+v", updated.TrackingNumber)
	}
	if updated.CourierPartner == nil || *updated.CourierPartner != "Delhivery" {
		t.Fatalf("courier partner not persisted: %+v", updated.CourierPartner)
	}
}

func TestUpdate_RejectsInvalidTransition(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	seedOrder(t, db, "100000050", "vendor_1", enums.OrderStatusPendingPayment, strptr("cf_session_y"))

	_, err = svc.Update(ctx, UpdateInput{
		OrderID:  "100000050",
		VendorID: "vendor_1",
		Status:   statusPtr(enums.OrderStatusShipped),
	})
	if err == nil {
		t.Fatal("expected transition error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}

	// pending orders cannot take fulfillment metadata either
	_, err = svc.Update(ctx, UpdateInput{
		OrderID:        "100000050",
		VendorID:       "vendor_1",
		TrackingNumber: strptr("AWB1"),
	})
	if err == nil {
		t.Fatal("expected state conflict for pending order")
	}
}

func TestUpdate_OwnershipScoped(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	seedOrder(t, db, "100000060", "vendor_1", enums.OrderStatusPlaced, nil)

	_, err = svc.Update(ctx, UpdateInput{
		OrderID:  "100000060",
		VendorID: "vendor_2",
		Status:   statusPtr(enums.OrderStatusShipped),
	})
	if err == nil {
		t.Fatal("expected not found for foreign vendor")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_RequiresAField(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Update(context.Background(), UpdateInput{OrderID: "100000070", VendorID: "vendor_1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
