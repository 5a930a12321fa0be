package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATION
// =============================================================================

// Summarize recomputes totals from schedule entries. The count is the
// number of entries, so it reflects early termination.
func Summarize(entries []PaymentScheduleEntry) PayoffSummary {
	s := PayoffSummary{
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
		TotalPaid:      decimal.Zero,
		PeriodCount:    len(entries),
	}
	for _, e := range entries {
		s.TotalInterest = s.TotalInterest.Add(e.InterestPortion)
		s.TotalPrincipal = s.TotalPrincipal.Add(e.PrincipalPortion)
		s.TotalPaid = s.TotalPaid.Add(e.Payment)
	}
	return s
}

// Sum adds values. An empty call returns zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...)
}

// ClampNonNegative returns d, or zero when d is negative.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatCurrency renders d as dollars with two decimals: "$1234.56",
// "-$12.50". Only presentation rounds to cents.
func FormatCurrency(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	if d.Round(2).IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

// FormatPercent renders a fraction as a percentage: 0.0525 -> "5.25%".
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).StringFixed(2) + "%"
}

// FormatDuration renders a month count as "2 Years, 3 Months".
func FormatDuration(months int) string {
	return fmt.Sprintf("%d Years, %d Months", months/12, months%12)
}
