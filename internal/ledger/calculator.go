// Package ledger holds the stateless money math shared by checkout, payouts,
// and reporting. All amounts stay as exact decimals until presentation; round
// once, at the edge, with Round2.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ServiceTaxRate is the fixed tax applied to the platform's own commission
// fee. It is independent of the product tax rate.
var ServiceTaxRate = decimal.NewFromFloat(0.18)

// DefaultProductTaxRate is the GST percentage assumed when a product does not
// carry an explicit rate.
var DefaultProductTaxRate = decimal.NewFromInt(18)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// LineAmounts is the tax split for one order line.
type LineAmounts struct {
	// Base is the pre-tax value of the line.
	Base decimal.Decimal
	// Tax is the GST portion.
	Tax decimal.Decimal
	// Charged is what the buyer actually pays for the line. Equal to the
	// stated gross when inclusive, gross plus tax when exclusive.
	Charged decimal.Decimal
}

// SplitTax decomposes a line's stated gross total into base, tax and charged
// amounts. ratePct is a percentage (18 means 18%). For inclusive pricing the
// tax is carved out of the gross, so Base+Tax always equals the gross. For
// exclusive pricing the tax is added on top of it.
func SplitTax(gross, ratePct decimal.Decimal, inclusive bool) (LineAmounts, error) {
	if gross.IsNegative() {
		return LineAmounts{}, fmt.Errorf("gross must not be negative, got %s", gross)
	}
	if ratePct.IsNegative() {
		return LineAmounts{}, fmt.Errorf("tax rate must not be negative, got %s", ratePct)
	}

	rate := ratePct.Div(hundred)
	if inclusive {
		tax := gross.Mul(rate).Div(one.Add(rate))
		return LineAmounts{
			Base:    gross.Sub(tax),
			Tax:     tax,
			Charged: gross,
		}, nil
	}

	tax := gross.Mul(rate)
	return LineAmounts{
		Base:    gross,
		Tax:     tax,
		Charged: gross.Add(tax),
	}, nil
}

// Deduction is the platform's cut of one vendor's charged gross.
type Deduction struct {
	Fee    decimal.Decimal
	FeeGST decimal.Decimal
}

// Total returns the full amount withheld from the vendor.
func (d Deduction) Total() decimal.Decimal {
	return d.Fee.Add(d.FeeGST)
}

// Commission computes the platform fee on a vendor's charged gross total plus
// the service tax the platform owes on that fee. commissionRatePct is a
// percentage (10 means 10%).
func Commission(chargedGross, commissionRatePct decimal.Decimal) (Deduction, error) {
	if chargedGross.IsNegative() {
		return Deduction{}, fmt.Errorf("charged gross must not be negative, got %s", chargedGross)
	}
	if commissionRatePct.IsNegative() {
		return Deduction{}, fmt.Errorf("commission rate must not be negative, got %s", commissionRatePct)
	}

	fee := chargedGross.Mul(commissionRatePct.Div(hundred))
	return Deduction{
		Fee:    fee,
		FeeGST: fee.Mul(ServiceTaxRate),
	}, nil
}

// Payout is what the vendor collects after the platform's deduction. The
// vendor is entitled to everything the buyer was charged for their lines,
// base plus any tax the vendor must remit, minus fee and fee GST. Computed
// this way everywhere so splits, ledgers and payout reports reconcile to the
// same figures.
func Payout(chargedGross decimal.Decimal, d Deduction) decimal.Decimal {
	return chargedGross.Sub(d.Total())
}

// Round2 rounds for presentation. Never round intermediate amounts.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
