package validators

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// ParseDecimal converts a request money/rate string into a decimal value.
func ParseDecimal(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "must be a decimal number").
			WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
