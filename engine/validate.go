package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Field validators shared by the calculator adapters. Each returns an
// *InputError naming the field, or nil.

// Positive requires v > 0.
func Positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid(field, "must be greater than 0")
	}
	return nil
}

// NonNegative requires v >= 0.
func NonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

// PositiveInt requires n >= 1.
func PositiveInt(field string, n int) error {
	if n < 1 {
		return invalid(field, "must be at least 1")
	}
	return nil
}

// IntBetween requires lo <= n <= hi.
func IntBetween(field string, n, lo, hi int) error {
	if n < lo {
		return invalid(field, fmt.Sprintf("must be at least %d", lo))
	}
	if n > hi {
		return invalid(field, fmt.Sprintf("must be at most %d", hi))
	}
	return nil
}

// Years requires 1 <= n <= MaxYears.
func Years(field string, n int) error {
	return IntBetween(field, n, 1, MaxYears)
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
