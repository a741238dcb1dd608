// Package checkout orchestrates the reservation, pricing and order creation
// flow. One call to Execute is one atomic unit: every product decrements and
// every order persists, or nothing does.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/internal/checkout/reservation"
	"github.com/shoplivedeals/livedeals-backend/internal/ledger"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	"github.com/shoplivedeals/livedeals-backend/internal/payments"
	"github.com/shoplivedeals/livedeals-backend/internal/vendors"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner interface {
	Reserve(ctx context.Context, tx *gorm.DB, lines []reservation.Line) ([]reservation.ReservedLine, error)
}

type reservationEngine struct{}

func (reservationEngine) Reserve(ctx context.Context, tx *gorm.DB, lines []reservation.Line) ([]reservation.ReservedLine, error) {
	return reservation.Reserve(ctx, tx, lines)
}

// Config carries the gateway and commission settings checkout needs.
type Config struct {
	Currency              string
	NotifyURL             string
	DefaultCommissionRate decimal.Decimal
}

// CustomerDetails is the buyer identity supplied with a checkout. All fields
// except name may be empty for guests.
type CustomerDetails struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
	Zip     string
}

// Line is one cart entry.
type Line struct {
	ProductID string
	Qty       int
}

// Input is the full checkout request.
type Input struct {
	Customer CustomerDetails
	Lines    []Line
}

// Result is what a successful checkout hands back: the persisted pending
// orders plus the ready-to-send gateway payload.
type Result struct {
	SessionID string
	Orders    []models.Order
	Gateway   *payments.SessionRequest
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	tx          txRunner
	ordersRepo  orders.Repository
	vendorsRepo vendors.Repository
	reservation reservationRunner
	cfg         Config
	now         func() time.Time
}

// NewService builds the checkout service.
func NewService(tx txRunner, ordersRepo orders.Repository, vendorsRepo vendors.Repository, cfg Config) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if vendorsRepo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("currency required")
	}
	if cfg.NotifyURL == "" {
		return nil, fmt.Errorf("notify url required")
	}
	if !cfg.DefaultCommissionRate.IsPositive() {
		return nil, fmt.Errorf("default commission rate must be positive")
	}
	return &service{
		tx:          tx,
		ordersRepo:  ordersRepo,
		vendorsRepo: vendorsRepo,
		reservation: reservationEngine{},
		cfg:         cfg,
		now:         time.Now,
	}, nil
}

// vendorGroup accumulates one vendor's share of the checkout.
type vendorGroup struct {
	vendorID string
	charged  decimal.Decimal
	tax      decimal.Decimal
	items    []models.OrderItem
}

func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one line")
	}

	requests := make([]reservation.Line, len(input.Lines))
	for i, line := range input.Lines {
		requests[i] = reservation.Line{ProductID: line.ProductID, Qty: line.Qty}
	}

	sessionID := newSessionID(s.now())
	var result *Result

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		vendorsRepo := s.vendorsRepo.WithTx(tx)

		reserved, err := s.reservation.Reserve(ctx, tx, requests)
		if err != nil {
			return err
		}

		groups, order, err := s.groupByVendor(reserved)
		if err != nil {
			return err
		}

		chargeTotal := decimal.Zero
		deductionTotal := decimal.Zero
		splits := make([]payments.VendorSplit, 0, len(order))
		created := make([]models.Order, 0, len(order))

		for _, vendorID := range order {
			group := groups[vendorID]

			rate, err := vendorsRepo.CommissionRateFor(ctx, vendorID, s.cfg.DefaultCommissionRate)
			if err != nil {
				return err
			}
			deduction, err := ledger.Commission(group.charged, rate)
			if err != nil {
				return err
			}
			payout := ledger.Payout(group.charged, deduction)

			orderRow := &models.Order{
				ID:               newOrderID(),
				VendorID:         vendorID,
				CustomerName:     customerName(input.Customer),
				CustomerEmail:    input.Customer.Email,
				CustomerPhone:    input.Customer.Phone,
				ShippingAddress:  input.Customer.Address,
				TotalAmount:      group.charged,
				TaxAmount:        group.tax,
				PlatformFee:      deduction.Fee,
				VendorPayout:     payout,
				Status:           enums.OrderStatusPendingPayment,
				PaymentSessionID: &sessionID,
			}
			if input.Customer.ID != "" {
				orderRow.CustomerID = &input.Customer.ID
			}
			if input.Customer.Zip != "" {
				orderRow.ShippingZip = &input.Customer.Zip
			}

			if _, err := ordersRepo.CreateOrder(ctx, orderRow); err != nil {
				return fmt.Errorf("create order for vendor %s: %w", vendorID, err)
			}
			for i := range group.items {
				group.items[i].OrderID = orderRow.ID
			}
			if err := ordersRepo.CreateOrderItems(ctx, group.items); err != nil {
				return fmt.Errorf("create order items for %s: %w", orderRow.ID, err)
			}
			orderRow.Items = group.items

			chargeTotal = chargeTotal.Add(group.charged)
			deductionTotal = deductionTotal.Add(deduction.Total())
			splits = append(splits, payments.VendorSplit{VendorID: vendorID, Amount: payout})
			created = append(created, *orderRow)
		}

		gateway, err := payments.Build(payments.BuildInput{
			SessionID:         sessionID,
			ChargeTotal:       chargeTotal,
			PlatformDeduction: deductionTotal,
			Currency:          s.cfg.Currency,
			NotifyURL:         s.cfg.NotifyURL,
			CustomerID:        input.Customer.ID,
			CustomerEmail:     input.Customer.Email,
			CustomerPhone:     input.Customer.Phone,
			Splits:            splits,
		})
		if err != nil {
			return err
		}

		result = &Result{SessionID: sessionID, Orders: created, Gateway: gateway}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// groupByVendor prices every reserved line and partitions it by vendor,
// preserving first-seen vendor order.
func (s *service) groupByVendor(reserved []reservation.ReservedLine) (map[string]*vendorGroup, []string, error) {
	groups := make(map[string]*vendorGroup)
	var order []string

	for _, line := range reserved {
		product := line.Product
		gross := product.Price.Mul(decimal.NewFromInt(int64(line.Qty)))
		amounts, err := ledger.SplitTax(gross, product.TaxRate, product.IsGSTInclusive)
		if err != nil {
			return nil, nil, fmt.Errorf("price line for product %s: %w", product.ID, err)
		}

		group, ok := groups[product.VendorID]
		if !ok {
			group = &vendorGroup{vendorID: product.VendorID, charged: decimal.Zero, tax: decimal.Zero}
			groups[product.VendorID] = group
			order = append(order, product.VendorID)
		}

		group.charged = group.charged.Add(amounts.Charged)
		group.tax = group.tax.Add(amounts.Tax)
		group.items = append(group.items, models.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   product.ID,
			ProductName: product.Name,
			PriceAtSale: product.Price,
			Quantity:    line.Qty,
			LineTotal:   gross,
		})
	}
	return groups, order, nil
}

func customerName(c CustomerDetails) string {
	if c.Name == "" {
		return "Guest"
	}
	return c.Name
}
