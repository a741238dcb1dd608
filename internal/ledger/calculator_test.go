package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSplitTax_InclusiveRoundTrip(t *testing.T) {
	cases := []struct {
		gross string
		rate  string
	}{
		{"50", "18"},
		{"100", "18"},
		{"999.99", "12"},
		{"1", "5"},
		{"0", "18"},
	}

	for _, tc := range cases {
		amounts, err := SplitTax(dec(tc.gross), dec(tc.rate), true)
		if err != nil {
			t.Fatalf("SplitTax(%s, %s): %v", tc.gross, tc.rate, err)
		}
		sum := amounts.Base.Add(amounts.Tax)
		if !sum.Equal(dec(tc.gross)) {
			t.Fatalf("inclusive base+tax = %s, want %s", sum, tc.gross)
		}
		if !amounts.Charged.Equal(dec(tc.gross)) {
			t.Fatalf("inclusive charged = %s, want stated gross %s", amounts.Charged, tc.gross)
		}
	}
}

func TestSplitTax_Exclusive(t *testing.T) {
	amounts, err := SplitTax(dec("200"), dec("18"), false)
	if err != nil {
		t.Fatalf("SplitTax: %v", err)
	}
	if !amounts.Base.Equal(dec("200")) {
		t.Fatalf("exclusive base = %s, want 200", amounts.Base)
	}
	if !amounts.Tax.Equal(dec("36")) {
		t.Fatalf("exclusive tax = %s, want 36", amounts.Tax)
	}
	if !amounts.Charged.Equal(dec("236")) {
		t.Fatalf("exclusive charged = %s, want 236", amounts.Charged)
	}
}

func TestSplitTax_RejectsNegative(t *testing.T) {
	if _, err := SplitTax(dec("-1"), dec("18"), true); err == nil {
		t.Fatal("expected error for negative gross")
	}
	if _, err := SplitTax(dec("10"), dec("-18"), false); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestCommission_FixedServiceTax(t *testing.T) {
	d, err := Commission(dec("286"), dec("10"))
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if got := Round2(d.Fee); !got.Equal(dec("28.60")) {
		t.Fatalf("fee = %s, want 28.60", got)
	}
	if got := Round2(d.FeeGST); !got.Equal(dec("5.15")) {
		t.Fatalf("fee gst = %s, want 5.15", got)
	}
	if got := Round2(d.Total()); !got.Equal(dec("33.75")) {
		t.Fatalf("deduction total = %s, want 33.75", got)
	}

	// the service tax on the fee stays 18% no matter what the products tax at
	low, err := Commission(dec("100"), dec("10"))
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if !low.FeeGST.Equal(low.Fee.Mul(ServiceTaxRate)) {
		t.Fatalf("fee gst %s not derived from service tax rate", low.FeeGST)
	}
}

// Mixed cart from one vendor: product A priced 100 with exclusive 18% tax,
// quantity 2, and product B priced 50 with inclusive 18% tax, quantity 1,
// commission 10%.
func TestVendorSettlementScenario(t *testing.T) {
	lineA, err := SplitTax(dec("100").Mul(dec("2")), dec("18"), false)
	if err != nil {
		t.Fatalf("line A: %v", err)
	}
	lineB, err := SplitTax(dec("50"), dec("18"), true)
	if err != nil {
		t.Fatalf("line B: %v", err)
	}

	if !lineA.Charged.Equal(dec("236")) {
		t.Fatalf("line A charged = %s, want 236", lineA.Charged)
	}
	if got := Round2(lineB.Base); !got.Equal(dec("42.37")) {
		t.Fatalf("line B base = %s, want 42.37", got)
	}
	if got := Round2(lineB.Tax); !got.Equal(dec("7.63")) {
		t.Fatalf("line B tax = %s, want 7.63", got)
	}

	charged := lineA.Charged.Add(lineB.Charged)
	if !charged.Equal(dec("286")) {
		t.Fatalf("vendor charged gross = %s, want 286", charged)
	}

	deduction, err := Commission(charged, dec("10"))
	if err != nil {
		t.Fatalf("Commission: %v", err)
	}
	payout := Payout(charged, deduction)

	if got := Round2(deduction.Fee); !got.Equal(dec("28.60")) {
		t.Fatalf("platform fee = %s, want 28.60", got)
	}
	if got := Round2(deduction.FeeGST); !got.Equal(dec("5.15")) {
		t.Fatalf("fee gst = %s, want 5.15", got)
	}
	if got := Round2(payout); !got.Equal(dec("252.25")) {
		t.Fatalf("vendor payout = %s, want 252.25", got)
	}

	// payout plus deduction reconstructs the charge exactly
	if !payout.Add(deduction.Total()).Equal(charged) {
		t.Fatalf("payout %s + deduction %s != charged %s", payout, deduction.Total(), charged)
	}
}

func TestRound2_OnlyAtPresentation(t *testing.T) {
	// repeated unrounded computation of the same order yields identical figures
	first, err := SplitTax(dec("50"), dec("18"), true)
	if err != nil {
		t.Fatalf("SplitTax: %v", err)
	}
	second, err := SplitTax(dec("50"), dec("18"), true)
	if err != nil {
		t.Fatalf("SplitTax: %v", err)
	}
	if !first.Tax.Equal(second.Tax) || !first.Base.Equal(second.Base) {
		t.Fatal("identical inputs produced drifting amounts")
	}
}
