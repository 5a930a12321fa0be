/*
payoff.go - Payoff-time search

PURPOSE:
  Given a balance and a fixed payment, find how many periods it takes to
  reach zero and how much interest is paid on the way. Used by the credit
  card and debt payoff calculators.

  The search is bounded by MaxPayoffPeriods so a payment that barely
  exceeds interest still terminates with ErrUnpayable instead of looping.

SEE ALSO:
  - balance.go: the shared loop
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// MaxPayoffPeriods is the iteration ceiling for payoff searches
// (100 years of monthly payments).
const MaxPayoffPeriods = 1200

// SolvePayoffTime returns the totals for paying balance down with a fixed
// payment per period. TotalPaid is always balance + TotalInterest.
func SolvePayoffTime(balance, periodicRate, payment decimal.Decimal) (PayoffSummary, error) {
	sched, err := PayoffSchedule(balance, periodicRate, payment)
	if err != nil {
		return PayoffSummary{}, err
	}
	return sched.Summary, nil
}

// PayoffSchedule is SolvePayoffTime that also returns the per-period entries.
func PayoffSchedule(balance, periodicRate, payment decimal.Decimal) (Schedule, error) {
	if !balance.IsPositive() {
		return Schedule{}, invalid("balance", "must be greater than 0")
	}
	if periodicRate.IsNegative() {
		return Schedule{}, invalid("periodic_rate", "must not be negative")
	}
	if !payment.IsPositive() {
		return Schedule{}, invalid("payment", "must be greater than 0")
	}

	firstInterest := balance.Mul(periodicRate)
	if periodicRate.IsPositive() && payment.LessThanOrEqual(firstInterest) {
		return Schedule{}, &UnpayableError{
			Balance:  balance,
			Payment:  payment,
			Interest: firstInterest,
		}
	}

	run, st := runBalance(balance, periodicRate, payment, MaxPayoffPeriods, false, true)
	if st != nil || run.remaining.IsPositive() {
		return Schedule{}, &UnpayableError{
			Balance:  balance,
			Payment:  payment,
			Interest: firstInterest,
			Periods:  MaxPayoffPeriods,
		}
	}

	run.summary.TotalPrincipal = balance
	run.summary.TotalPaid = balance.Add(run.summary.TotalInterest)
	return Schedule{
		Payment: payment,
		Entries: run.entries,
		Summary: run.summary,
	}, nil
}

// PayoffComparison contrasts a baseline payment with the same payment plus
// an extra amount.
type PayoffComparison struct {
	Baseline          PayoffSummary   `json:"baseline"`
	Accelerated       PayoffSummary   `json:"accelerated"`
	InterestSaved     decimal.Decimal `json:"interest_saved"`
	PeriodsSaved      int             `json:"periods_saved"`
	BaselineUnpayable bool            `json:"baseline_unpayable"`
}

// ComparePayoff solves the payoff time for payment and for payment+extra.
//
// Savings are clamped at zero. When only the baseline is unpayable the
// comparison reports BaselineUnpayable and leaves savings at zero; when the
// accelerated payment is unpayable too, ErrUnpayable is returned.
func ComparePayoff(balance, periodicRate, payment, extra decimal.Decimal) (PayoffComparison, error) {
	if extra.IsNegative() {
		return PayoffComparison{}, invalid("extra_payment", "must not be negative")
	}

	accelerated, err := SolvePayoffTime(balance, periodicRate, payment.Add(extra))
	if err != nil {
		return PayoffComparison{}, err
	}

	cmp := PayoffComparison{
		Accelerated:   accelerated,
		InterestSaved: decimal.Zero,
	}
	baseline, err := SolvePayoffTime(balance, periodicRate, payment)
	switch {
	case err == nil:
		cmp.Baseline = baseline
		cmp.InterestSaved = ClampNonNegative(baseline.TotalInterest.Sub(accelerated.TotalInterest))
		cmp.PeriodsSaved = max(0, baseline.PeriodCount-accelerated.PeriodCount)
	case IsUnprocessable(err):
		cmp.BaselineUnpayable = true
	default:
		return PayoffComparison{}, err
	}
	return cmp, nil
}
