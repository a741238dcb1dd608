package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	"github.com/shoplivedeals/livedeals-backend/internal/vendors"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.VendorProfile{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		gormTxRunner{db: db},
		orders.NewRepository(db),
		vendors.NewRepository(db),
		Config{
			Currency:              "INR",
			NotifyURL:             "https://api.example.com/api/v1/webhooks/payment",
			DefaultCommissionRate: dec("15"),
		},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedVendor(t *testing.T, db *gorm.DB, id string, commission *decimal.Decimal) {
	t.Helper()
	profile := &models.VendorProfile{
		ID:                     id,
		UserID:                 "user_" + id,
		StoreName:              "Store " + id,
		Status:                 enums.VendorStatusApproved,
		PlatformCommissionRate: commission,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
}

func seedProduct(t *testing.T, db *gorm.DB, id, vendorID, name string, price string, stock int, inclusive bool) {
	t.Helper()
	product := &models.Product{
		ID:             id,
		VendorID:       vendorID,
		Name:           name,
		Price:          dec(price),
		StockQuantity:  stock,
		IsGSTInclusive: inclusive,
		TaxRate:        dec("18"),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func stockOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.StockQuantity
}

func TestExecute_SingleVendorSettlement(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	rate := dec("10")
	seedVendor(t, db, "vendor_1", &rate)
	seedProduct(t, db, "prod_a", "vendor_1", "Silk Saree", "100", 10, false)
	seedProduct(t, db, "prod_b", "vendor_1", "Cotton Kurta", "50", 10, true)

	result, err := svc.Execute(context.Background(), Input{
		Customer: CustomerDetails{
			ID:      "user_9",
			Name:    "Asha",
			Email:   "asha@example.com",
			Phone:   "9876543210",
			Address: "12 MG Road, Pune",
		},
		Lines: []Line{
			{ProductID: "prod_a", Qty: 2},
			{ProductID: "prod_b", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(result.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(result.Orders))
	}
	order := result.Orders[0]
	if !order.TotalAmount.Equal(dec("286")) {
		t.Fatalf("order total = %s, want 286", order.TotalAmount)
	}
	if got := order.PlatformFee.Round(2); !got.Equal(dec("28.60")) {
		t.Fatalf("platform fee = %s, want 28.60", got)
	}
	if got := order.VendorPayout.Round(2); !got.Equal(dec("252.25")) {
		t.Fatalf("vendor payout = %s, want 252.25", got)
	}
	if order.Status != enums.OrderStatusPendingPayment {
		t.Fatalf("status = %s, want PENDING_PAYMENT", order.Status)
	}
	if order.PaymentSessionID == nil || *order.PaymentSessionID != result.SessionID {
		t.Fatal("order must carry the checkout session correlator")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	if result.Gateway.OrderAmount != "286.00" {
		t.Fatalf("gateway amount = %s, want 286.00", result.Gateway.OrderAmount)
	}
	if len(result.Gateway.OrderSplits) != 1 || result.Gateway.OrderSplits[0].Amount != 252.25 {
		t.Fatalf("unexpected splits %+v", result.Gateway.OrderSplits)
	}

	if got := stockOf(t, db, "prod_a"); got != 8 {
		t.Fatalf("prod_a stock = %d, want 8", got)
	}
	if got := stockOf(t, db, "prod_b"); got != 9 {
		t.Fatalf("prod_b stock = %d, want 9", got)
	}
}

func TestExecute_GroupsByVendorWithSharedSession(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	seedVendor(t, db, "vendor_1", nil)
	seedVendor(t, db, "vendor_2", nil)
	seedProduct(t, db, "prod_a", "vendor_1", "Saree", "100", 5, true)
	seedProduct(t, db, "prod_b", "vendor_2", "Kurta", "200", 5, true)

	result, err := svc.Execute(context.Background(), Input{
		Customer: CustomerDetails{Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000", Address: "Indore"},
		Lines: []Line{
			{ProductID: "prod_a", Qty: 1},
			{ProductID: "prod_b", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(result.Orders) != 2 {
		t.Fatalf("expected one order per vendor, got %d", len(result.Orders))
	}
	for _, order := range result.Orders {
		if order.PaymentSessionID == nil || *order.PaymentSessionID != result.SessionID {
			t.Fatalf("order %s missing shared session id", order.ID)
		}
	}
	if result.Orders[0].VendorID != "vendor_1" || result.Orders[1].VendorID != "vendor_2" {
		t.Fatalf("vendor partition order not preserved: %s, %s",
			result.Orders[0].VendorID, result.Orders[1].VendorID)
	}

	// default 15% commission applies when the profile has no override
	if got := result.Orders[0].PlatformFee.Round(2); !got.Equal(dec("15.00")) {
		t.Fatalf("vendor_1 fee = %s, want 15.00", got)
	}

	if result.Gateway.OrderAmount != "500.00" {
		t.Fatalf("gateway amount = %s, want 500.00", result.Gateway.OrderAmount)
	}
	if len(result.Gateway.OrderSplits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(result.Gateway.OrderSplits))
	}
}

func TestExecute_ShortfallRollsBackEverything(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	seedVendor(t, db, "vendor_1", nil)
	seedProduct(t, db, "prod_a", "vendor_1", "Saree", "100", 5, true)
	seedProduct(t, db, "prod_b", "vendor_1", "Kurta", "50", 1, true)

	_, err := svc.Execute(context.Background(), Input{
		Customer: CustomerDetails{Name: "Asha", Address: "Pune"},
		Lines: []Line{
			{ProductID: "prod_a", Qty: 2},
			{ProductID: "prod_b", Qty: 2},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders, got %d", orderCount)
	}
	if got := stockOf(t, db, "prod_a"); got != 5 {
		t.Fatalf("prod_a stock = %d, want 5 after rollback", got)
	}
	if got := stockOf(t, db, "prod_b"); got != 1 {
		t.Fatalf("prod_b stock = %d, want 1 after rollback", got)
	}
}

func TestExecute_GuestCheckout(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	seedVendor(t, db, "vendor_1", nil)
	seedProduct(t, db, "prod_a", "vendor_1", "Saree", "100", 5, true)

	result, err := svc.Execute(context.Background(), Input{
		Customer: CustomerDetails{Address: "Unknown"},
		Lines:    []Line{{ProductID: "prod_a", Qty: 1}},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Orders[0].CustomerName != "Guest" {
		t.Fatalf("customer name = %s, want Guest", result.Orders[0].CustomerName)
	}
	if result.Orders[0].CustomerID != nil {
		t.Fatal("guest order must not carry a customer id")
	}
	if result.Gateway.CustomerDetails.CustomerID != "guest_123" {
		t.Fatalf("gateway customer = %s, want guest_123", result.Gateway.CustomerDetails.CustomerID)
	}
}

func TestExecute_EmptyCart(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Execute(context.Background(), Input{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
