package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/householderhq/householder/internal/apperrors"
)

// ParseAmount coerces raw caller input into a strictly positive whole amount.
// "300" and "300.00" are accepted, "300.5", "0", "-1", "1e99junk" are not.
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrValidation, raw)
	}
	if !d.IsInteger() || d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be a positive whole number", apperrors.ErrValidation)
	}
	return d.IntPart(), nil
}

// ParseInitialBalance coerces raw caller input into a non-negative whole
// amount, defaulting to 0 when omitted.
func ParseInitialBalance(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: balance %q is not a number", apperrors.ErrValidation, raw)
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: balance must be a non-negative whole number", apperrors.ErrValidation)
	}
	return d.IntPart(), nil
}
