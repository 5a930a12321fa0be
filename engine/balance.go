package engine

import (
	"github.com/shopspring/decimal"
)

// balanceRun is the outcome of running the amortizing-balance loop.
type balanceRun struct {
	entries   []PaymentScheduleEntry
	summary   PayoffSummary
	remaining decimal.Decimal
}

// stall is raised by runBalance when the payment no longer exceeds the
// period's interest. Callers translate it into their own error kind.
type stall struct {
	period   int
	interest decimal.Decimal
}

// runBalance is the single amortizing-balance loop shared by the fixed-term
// engine and the payoff solver.
//
// Each period: interest accrues on the opening balance, the remainder of the
// payment reduces principal (never below zero), and a closing balance under
// Epsilon is absorbed into that period. With absorbLast set, period limit
// absorbs whatever is left. keep controls whether entries are retained.
func runBalance(principal, rate, payment decimal.Decimal, limit int, absorbLast, keep bool) (balanceRun, *stall) {
	run := balanceRun{
		summary: PayoffSummary{
			TotalInterest:  decimal.Zero,
			TotalPrincipal: decimal.Zero,
			TotalPaid:      decimal.Zero,
		},
	}
	if keep {
		run.entries = make([]PaymentScheduleEntry, 0, min(limit, MaxPayoffPeriods))
	}

	balance := principal
	for i := 1; i <= limit && balance.IsPositive(); i++ {
		opening := balance
		interest := opening.Mul(rate).Round(InternalScale)
		if payment.LessThanOrEqual(interest) {
			return run, &stall{period: i, interest: interest}
		}

		toPrincipal := payment.Sub(interest)
		if toPrincipal.GreaterThan(opening) {
			toPrincipal = opening
		}
		closing := opening.Sub(toPrincipal)
		if closing.LessThan(Epsilon) || (absorbLast && i == limit) {
			toPrincipal = opening
			closing = decimal.Zero
		}
		paid := interest.Add(toPrincipal)

		run.summary.TotalInterest = run.summary.TotalInterest.Add(interest)
		run.summary.TotalPrincipal = run.summary.TotalPrincipal.Add(toPrincipal)
		run.summary.TotalPaid = run.summary.TotalPaid.Add(paid)
		run.summary.PeriodCount = i

		if keep {
			run.entries = append(run.entries, PaymentScheduleEntry{
				Index:            i,
				OpeningBalance:   opening,
				Payment:          paid,
				InterestPortion:  interest,
				PrincipalPortion: toPrincipal,
				ClosingBalance:   closing,
			})
		}
		balance = closing
	}
	run.remaining = balance
	return run, nil
}

// growthFactor returns (1+rate)^n.
func growthFactor(rate decimal.Decimal, n int) decimal.Decimal {
	return one.Add(rate).Pow(decimal.NewFromInt(int64(n))).Round(powScale)
}
