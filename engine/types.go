/*
Package engine provides the shared numeric core behind every calculator.

PURPOSE:
  Mortgage, loan, credit-card and debt calculators all run the same
  amortizing-balance loop; savings, retirement, college and annuity
  calculators all run the same contribution + compounding loop. This package
  holds exactly one copy of each, plus the inflation adjuster and the
  summary/formatting helpers the calculators render through.

KEY CONCEPTS IN THIS FILE (types.go):
  - LoanTerms: principal, periodic rate and period count of a loan
  - PaymentScheduleEntry: one period of an amortization table
  - PayoffSummary: totals derived from a schedule
  - AccumulationTerms: opening balance, contribution, rate, timing

DESIGN PRINCIPLES:
  1. Pure functions: no I/O, no clocks, no shared state
  2. Precision: all money and rates are decimal.Decimal
  3. Total: every call returns a result or one of the errors in errors.go
  4. Rates are PER PERIOD here. Adapters convert annual percentages.

USAGE:
  sched, err := engine.GenerateSchedule(engine.LoanTerms{
      Principal:    decimal.NewFromInt(200000),
      PeriodicRate: decimal.RequireFromString("0.005"),
      Periods:      360,
  })

SEE ALSO:
  - amortization.go: fixed-term schedule generation
  - payoff.go: payoff-time search with iteration ceiling
  - accumulation.go: contribution + compounding growth
  - inflation.go: real value / future cost
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRECISION
// =============================================================================

// Epsilon is the rounding tolerance for balances: one cent. A closing
// balance below Epsilon is treated as paid off.
var Epsilon = decimal.New(1, -2)

// InternalScale is the number of fractional digits kept for per-period
// interest. Display rounding to cents happens only when formatting.
const InternalScale int32 = 10

// powScale bounds the digits kept for (1+r)^n growth factors.
const powScale int32 = 24

// =============================================================================
// RANGE LIMITS
// =============================================================================

const (
	// MaxYears bounds every term or horizon expressed in years.
	MaxYears = 100
	// MaxAge bounds every age input.
	MaxAge = 120
	// MaxPeriods bounds the period count of a schedule or accumulation
	// (MaxYears of daily compounding).
	MaxPeriods = MaxYears * int(Daily)
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// =============================================================================
// LOAN TERMS & SCHEDULE
// =============================================================================

// LoanTerms describes a fixed-term loan. PeriodicRate is the rate per
// period (e.g. monthly), not an annual percentage.
type LoanTerms struct {
	Principal    decimal.Decimal `json:"principal"`
	PeriodicRate decimal.Decimal `json:"periodic_rate"`
	Periods      int             `json:"periods"`
}

// Validate checks principal > 0, rate >= 0, 1 <= periods <= MaxPeriods.
func (t LoanTerms) Validate() error {
	if !t.Principal.IsPositive() {
		return invalid("principal", "must be greater than 0")
	}
	if t.PeriodicRate.IsNegative() {
		return invalid("periodic_rate", "must not be negative")
	}
	return IntBetween("periods", t.Periods, 1, MaxPeriods)
}

// PaymentScheduleEntry is one period of an amortization table.
// ClosingBalance = OpeningBalance - PrincipalPortion always holds.
type PaymentScheduleEntry struct {
	Index            int             `json:"index"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Payment          decimal.Decimal `json:"payment"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
}

// PayoffSummary holds totals derived by summation over a schedule.
type PayoffSummary struct {
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PeriodCount    int             `json:"period_count"`
}

// Schedule is the output of the amortization engine: the nominal periodic
// payment, the per-period entries and their totals.
type Schedule struct {
	Payment decimal.Decimal        `json:"payment"`
	Entries []PaymentScheduleEntry `json:"entries"`
	Summary PayoffSummary          `json:"summary"`
}

// Final returns the last entry of the schedule.
func (s Schedule) Final() (PaymentScheduleEntry, bool) {
	if len(s.Entries) == 0 {
		return PaymentScheduleEntry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// =============================================================================
// ACCUMULATION
// =============================================================================

// Timing says when a period's contribution lands relative to that period's
// growth.
type Timing string

const (
	// StartOfPeriod contributions earn interest in the period they are made
	// (annuity due).
	StartOfPeriod Timing = "start"
	// EndOfPeriod contributions earn nothing in the period they are made
	// (ordinary annuity).
	EndOfPeriod Timing = "end"
)

// ParseTiming accepts "start"/"due" and "end"/"ordinary".
func ParseTiming(s string) (Timing, error) {
	switch s {
	case "start", "due", "start_of_period", "annuity_due":
		return StartOfPeriod, nil
	case "end", "ordinary", "end_of_period", "ordinary_annuity":
		return EndOfPeriod, nil
	}
	return "", invalid("timing", "must be start or end")
}

// AccumulationTerms describes a savings balance growing by contributions
// and compounding.
type AccumulationTerms struct {
	OpeningBalance       decimal.Decimal `json:"opening_balance"`
	PeriodicContribution decimal.Decimal `json:"periodic_contribution"`
	PeriodicRate         decimal.Decimal `json:"periodic_rate"`
	Periods              int             `json:"periods"`
	Timing               Timing          `json:"timing"`
}

// Validate checks the accumulation preconditions. Timing must be explicit.
func (t AccumulationTerms) Validate() error {
	if t.OpeningBalance.IsNegative() {
		return invalid("opening_balance", "must not be negative")
	}
	if t.PeriodicContribution.IsNegative() {
		return invalid("periodic_contribution", "must not be negative")
	}
	if t.PeriodicRate.IsNegative() {
		return invalid("periodic_rate", "must not be negative")
	}
	if err := IntBetween("periods", t.Periods, 1, MaxPeriods); err != nil {
		return err
	}
	if t.Timing != StartOfPeriod && t.Timing != EndOfPeriod {
		return invalid("timing", "must be start or end")
	}
	return nil
}

// AccumulationResult is the output of Accumulate. Balances holds the
// closing balance of every period, in order.
type AccumulationResult struct {
	EndingBalance  decimal.Decimal   `json:"ending_balance"`
	TotalPrincipal decimal.Decimal   `json:"total_principal"`
	TotalInterest  decimal.Decimal   `json:"total_interest"`
	Balances       []decimal.Decimal `json:"balances,omitempty"`
}
