// Package payments builds the split-payment gateway request for a checkout.
// It is a pure transformation of the grouped vendor totals; nothing here
// talks to the gateway.
package payments

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/internal/ledger"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Fallbacks applied when a guest checks out without an account.
const (
	guestCustomerID = "guest_123"
	guestEmail      = "guest@example.com"
	guestPhone      = "9999999999"
)

// CustomerDetails identifies the payer to the gateway.
type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// OrderMeta carries the gateway's callback target.
type OrderMeta struct {
	NotifyURL string `json:"notify_url"`
}

// SplitEntry routes one vendor's net payout. Percentage stays null because
// splits are absolute amounts.
type SplitEntry struct {
	VendorID   string   `json:"vendor_id"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage"`
}

// SessionRequest is the outbound gateway payload.
type SessionRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     string          `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	OrderMeta       OrderMeta       `json:"order_meta"`
	OrderSplits     []SplitEntry    `json:"order_splits"`
}

// VendorSplit is one vendor's unrounded net payout.
type VendorSplit struct {
	VendorID string
	Amount   decimal.Decimal
}

// BuildInput carries everything the builder needs, all amounts unrounded.
type BuildInput struct {
	SessionID string
	// ChargeTotal is the full amount the buyer pays across all vendors.
	ChargeTotal decimal.Decimal
	// PlatformDeduction is the platform's total cut (fees plus fee GST).
	PlatformDeduction decimal.Decimal
	Currency          string
	NotifyURL         string
	CustomerID        string
	CustomerEmail     string
	CustomerPhone     string
	Splits            []VendorSplit
}

// Build assembles the gateway request. The splits plus the platform deduction
// must reconstruct the charge total exactly; a mismatch means the caller's
// money math is broken and the session must not be created.
func Build(input BuildInput) (*SessionRequest, error) {
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.Currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if input.NotifyURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notify url is required")
	}
	if !input.ChargeTotal.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge total must be positive")
	}
	if len(input.Splits) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one vendor split is required")
	}

	sum := decimal.Zero
	splits := make([]SplitEntry, 0, len(input.Splits))
	for _, split := range input.Splits {
		if split.VendorID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "split vendor id is required")
		}
		if split.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "split amount must not be negative").
				WithDetails(map[string]any{"vendor_id": split.VendorID})
		}
		sum = sum.Add(split.Amount)
		splits = append(splits, SplitEntry{
			VendorID: split.VendorID,
			Amount:   ledger.Round2(split.Amount).InexactFloat64(),
		})
	}

	if !sum.Add(input.PlatformDeduction).Equal(input.ChargeTotal) {
		return nil, fmt.Errorf("splits %s plus deduction %s do not reconcile to charge %s",
			sum, input.PlatformDeduction, input.ChargeTotal)
	}

	return &SessionRequest{
		OrderID:         input.SessionID,
		OrderAmount:     ledger.Round2(input.ChargeTotal).StringFixed(2),
		OrderCurrency:   input.Currency,
		CustomerDetails: customerOrGuest(input),
		OrderMeta:       OrderMeta{NotifyURL: input.NotifyURL},
		OrderSplits:     splits,
	}, nil
}

func customerOrGuest(input BuildInput) CustomerDetails {
	details := CustomerDetails{
		CustomerID:    input.CustomerID,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
	}
	if details.CustomerID == "" {
		details.CustomerID = guestCustomerID
	}
	if details.CustomerEmail == "" {
		details.CustomerEmail = guestEmail
	}
	if details.CustomerPhone == "" {
		details.CustomerPhone = guestPhone
	}
	return details
}
