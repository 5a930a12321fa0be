/*
accumulation.go - Contribution + compounding growth

PURPOSE:
  One loop serves compound interest, high-yield savings, retirement,
  college savings and annuity future value. The only knob that differs
  between "annuity due" and "ordinary annuity" is Timing.

ALGORITHM (per period):
  StartOfPeriod: balance += contribution; balance += balance·rate
  EndOfPeriod:   balance += balance·rate; balance += contribution

SEE ALSO:
  - inflation.go: converting the nominal result to today's dollars
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// Accumulate grows terms.OpeningBalance over terms.Periods periods.
//
// TotalPrincipal counts every dollar contributed including the opening
// balance; TotalInterest is the growth beyond that, never negative.
func Accumulate(terms AccumulationTerms) (AccumulationResult, error) {
	if err := terms.Validate(); err != nil {
		return AccumulationResult{}, err
	}

	balances := make([]decimal.Decimal, 0, terms.Periods)
	balance := terms.OpeningBalance
	for i := 0; i < terms.Periods; i++ {
		if terms.Timing == StartOfPeriod {
			balance = balance.Add(terms.PeriodicContribution)
		}
		balance = balance.Add(balance.Mul(terms.PeriodicRate).Round(InternalScale))
		if terms.Timing == EndOfPeriod {
			balance = balance.Add(terms.PeriodicContribution)
		}
		balances = append(balances, balance)
	}

	principal := terms.OpeningBalance.Add(
		terms.PeriodicContribution.Mul(decimal.NewFromInt(int64(terms.Periods))))
	return AccumulationResult{
		EndingBalance:  balance,
		TotalPrincipal: principal,
		TotalInterest:  ClampNonNegative(balance.Sub(principal)),
		Balances:       balances,
	}, nil
}

// AnnuityFutureValue is the value after periods of a level payment with no
// opening balance. EndOfPeriod gives an ordinary annuity, StartOfPeriod an
// annuity due.
func AnnuityFutureValue(payment, periodicRate decimal.Decimal, periods int, timing Timing) (AccumulationResult, error) {
	return Accumulate(AccumulationTerms{
		OpeningBalance:       decimal.Zero,
		PeriodicContribution: payment,
		PeriodicRate:         periodicRate,
		Periods:              periods,
		Timing:               timing,
	})
}

// RequiredContribution returns the level contribution needed for the
// opening balance to grow to target. The result is zero when the opening
// balance alone already reaches target.
//
// The loop is linear in the contribution, so the answer is the shortfall
// divided by what a contribution of 1 grows into.
func RequiredContribution(target, opening, periodicRate decimal.Decimal, periods int, timing Timing) (decimal.Decimal, error) {
	if !target.IsPositive() {
		return decimal.Zero, invalid("target", "must be greater than 0")
	}
	base, err := Accumulate(AccumulationTerms{
		OpeningBalance:       opening,
		PeriodicContribution: decimal.Zero,
		PeriodicRate:         periodicRate,
		Periods:              periods,
		Timing:               timing,
	})
	if err != nil {
		return decimal.Zero, err
	}
	shortfall := target.Sub(base.EndingBalance)
	if !shortfall.IsPositive() {
		return decimal.Zero, nil
	}
	unit, err := AnnuityFutureValue(one, periodicRate, periods, timing)
	if err != nil {
		return decimal.Zero, err
	}
	return shortfall.Div(unit.EndingBalance), nil
}
