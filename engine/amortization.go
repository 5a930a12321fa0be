/*
amortization.go - Fixed-term schedule generation

PURPOSE:
  Produces the level payment for a loan and the period-by-period table of
  how each payment splits into interest and principal.

ALGORITHM:
  payment = P·r·(1+r)^n / ((1+r)^n − 1), or P/n when r = 0.
  Then runBalance with the final period absorbing any residual, so the
  table always closes at exactly zero and principal portions sum to P.

SEE ALSO:
  - balance.go: the shared loop
  - payoff.go: same loop, solving for the number of periods instead
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// PeriodicPayment returns the level payment that retires terms.Principal in
// terms.Periods periods at terms.PeriodicRate.
func PeriodicPayment(terms LoanTerms) (decimal.Decimal, error) {
	if err := terms.Validate(); err != nil {
		return decimal.Zero, err
	}
	n := decimal.NewFromInt(int64(terms.Periods))
	if terms.PeriodicRate.IsZero() {
		return terms.Principal.Div(n), nil
	}
	f := growthFactor(terms.PeriodicRate, terms.Periods)
	return terms.Principal.Mul(terms.PeriodicRate).Mul(f).Div(f.Sub(one)), nil
}

// GenerateSchedule computes the level payment and the full amortization
// table for terms.
//
// The schedule has at most terms.Periods entries, ends with a zero closing
// balance, and its principal portions sum to terms.Principal.
func GenerateSchedule(terms LoanTerms) (Schedule, error) {
	payment, err := PeriodicPayment(terms)
	if err != nil {
		return Schedule{}, err
	}
	return amortize(terms, payment)
}

// AmortizeWithPayment runs a fixed-term table with a caller-chosen payment.
// Whatever the payment leaves outstanding is absorbed by the final period.
func AmortizeWithPayment(terms LoanTerms, payment decimal.Decimal) (Schedule, error) {
	if err := terms.Validate(); err != nil {
		return Schedule{}, err
	}
	if !payment.IsPositive() {
		return Schedule{}, invalid("payment", "must be greater than 0")
	}
	return amortize(terms, payment)
}

func amortize(terms LoanTerms, payment decimal.Decimal) (Schedule, error) {
	run, st := runBalance(terms.Principal, terms.PeriodicRate, payment, terms.Periods, true, true)
	if st != nil {
		return Schedule{}, &NonAmortizingError{
			Period:   st.period,
			Payment:  payment,
			Interest: st.interest,
		}
	}
	return Schedule{
		Payment: payment,
		Entries: run.entries,
		Summary: run.summary,
	}, nil
}
