/*
Package savings implements the calculators that grow money over time:
compound interest, high-yield savings, retirement, college savings,
savings goals, annuity future value, inflation and the rule of 72.

PURPOSE:
  Every growth calculation here is one call to engine.Accumulate with a
  different opening balance, contribution, period length and timing. The
  calculators only translate user-facing inputs (years, annual
  percentages, compounding frequency) into those per-period terms.

TIMING CONVENTIONS:
  compound-interest, hysa, retirement, college  -> StartOfPeriod
  savings-goal                                  -> EndOfPeriod
  annuity                                       -> chosen by annuity_type

SEE ALSO:
  - engine/accumulation.go: the loop
  - engine/inflation.go: real value / future cost
*/
package savings

import (
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

const monthsPerYear = 12

func perYear(f engine.Frequency) decimal.Decimal {
	return decimal.NewFromInt(int64(f))
}

// Growth is the common shape of an accumulation result: what went in, what
// came out, and the balance after every period.
type Growth struct {
	EndingBalance  decimal.Decimal   `json:"ending_balance"`
	TotalPrincipal decimal.Decimal   `json:"total_principal"`
	TotalInterest  decimal.Decimal   `json:"total_interest"`
	Balances       []decimal.Decimal `json:"balances"`
	PeriodUnit     string            `json:"period_unit"`
}

func growthFrom(res engine.AccumulationResult, unit string) Growth {
	return Growth{
		EndingBalance:  res.EndingBalance,
		TotalPrincipal: res.TotalPrincipal,
		TotalInterest:  res.TotalInterest,
		Balances:       res.Balances,
		PeriodUnit:     unit,
	}
}

func (g Growth) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Total Principal", Value: engine.FormatCurrency(g.TotalPrincipal)},
		{Label: "Total Interest", Value: engine.FormatCurrency(g.TotalInterest)},
		{Label: "Ending Balance", Value: engine.FormatCurrency(g.EndingBalance)},
	}
}

func (g Growth) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Principal vs Interest",
			engine.Slice{Label: "Principal", Value: g.TotalPrincipal},
			engine.Slice{Label: "Interest", Value: g.TotalInterest},
		),
		engine.GrowthChart("Balance Growth", g.PeriodUnit, g.Balances),
	}
}

func periodUnit(f engine.Frequency) string {
	switch f {
	case engine.Annually:
		return "Year"
	case engine.Quarterly:
		return "Quarter"
	case engine.Daily:
		return "Day"
	}
	return "Month"
}

// =============================================================================
// COMPOUND INTEREST
// =============================================================================

// CompoundInterestInput grows an initial amount plus a yearly contribution
// spread evenly over the compounding periods.
type CompoundInterestInput struct {
	Initial            decimal.Decimal  `json:"initial"`
	AnnualContribution decimal.Decimal  `json:"annual_contribution"`
	AnnualRate         decimal.Decimal  `json:"annual_rate"`
	Frequency          engine.Frequency `json:"frequency"`
	Years              int              `json:"years"`
}

func (in CompoundInterestInput) Validate() error {
	if err := engine.FirstError(
		engine.NonNegative("initial", in.Initial),
		engine.NonNegative("annual_contribution", in.AnnualContribution),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("years", in.Years),
	); err != nil {
		return err
	}
	if !in.Frequency.Valid() {
		return engine.Invalid("frequency", "must be annually, quarterly, monthly or daily")
	}
	return nil
}

// CompoundInterestResult is the growth of the investment.
type CompoundInterestResult struct {
	Growth
}

// CompoundInterest contributes at the start of each compounding period.
func CompoundInterest(in CompoundInterestInput) (*CompoundInterestResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       in.Initial,
		PeriodicContribution: in.AnnualContribution.Div(perYear(in.Frequency)),
		PeriodicRate:         engine.RateFromPercent(in.AnnualRate, in.Frequency),
		Periods:              in.Years * int(in.Frequency),
		Timing:               engine.StartOfPeriod,
	})
	if err != nil {
		return nil, err
	}
	return &CompoundInterestResult{Growth: growthFrom(res, periodUnit(in.Frequency))}, nil
}

// =============================================================================
// HIGH-YIELD SAVINGS
// =============================================================================

// HYSAInput is a savings account with a monthly deposit. Interest is
// credited at the chosen frequency; daily crediting is not offered.
type HYSAInput struct {
	InitialDeposit decimal.Decimal  `json:"initial_deposit"`
	MonthlyDeposit decimal.Decimal  `json:"monthly_deposit"`
	AnnualRate     decimal.Decimal  `json:"annual_rate"`
	Frequency      engine.Frequency `json:"frequency"`
	Years          int              `json:"years"`
}

func (in HYSAInput) Validate() error {
	if err := engine.FirstError(
		engine.NonNegative("initial_deposit", in.InitialDeposit),
		engine.NonNegative("monthly_deposit", in.MonthlyDeposit),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("years", in.Years),
	); err != nil {
		return err
	}
	switch in.Frequency {
	case engine.Monthly, engine.Quarterly, engine.Annually:
		return nil
	}
	return engine.Invalid("frequency", "must be monthly, quarterly or annually")
}

// HYSAResult is the growth of the account.
type HYSAResult struct {
	Growth
}

// HYSA deposits monthly and credits interest once per compounding period.
// The deposits made during a period all land before that period's interest,
// so each period is one start-of-period contribution of
// deposit × months-per-period.
func HYSA(in HYSAInput) (*HYSAResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	monthsPerPeriod := monthsPerYear / int(in.Frequency)
	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       in.InitialDeposit,
		PeriodicContribution: in.MonthlyDeposit.Mul(decimal.NewFromInt(int64(monthsPerPeriod))),
		PeriodicRate:         engine.RateFromPercent(in.AnnualRate, in.Frequency),
		Periods:              in.Years * int(in.Frequency),
		Timing:               engine.StartOfPeriod,
	})
	if err != nil {
		return nil, err
	}
	return &HYSAResult{Growth: growthFrom(res, periodUnit(in.Frequency))}, nil
}

// =============================================================================
// ANNUITY
// =============================================================================

// AnnuityInput is a level payment made Frequency times a year.
type AnnuityInput struct {
	Payment     decimal.Decimal  `json:"payment"`
	AnnualRate  decimal.Decimal  `json:"annual_rate"`
	Years       int              `json:"years"`
	Frequency   engine.Frequency `json:"frequency"`
	AnnuityType string           `json:"annuity_type"`
}

func (in AnnuityInput) Validate() error {
	if err := engine.FirstError(
		engine.NonNegative("payment", in.Payment),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("years", in.Years),
	); err != nil {
		return err
	}
	if !in.Frequency.Valid() {
		return engine.Invalid("frequency", "must be annually, quarterly, monthly or daily")
	}
	_, err := engine.ParseTiming(in.AnnuityType)
	if err != nil {
		return engine.Invalid("annuity_type", "must be ordinary or due")
	}
	return nil
}

// AnnuityResult is the future value of the payments.
type AnnuityResult struct {
	Growth
	Timing engine.Timing `json:"timing"`
}

// Annuity computes the future value of an ordinary annuity or an annuity due.
func Annuity(in AnnuityInput) (*AnnuityResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	timing, _ := engine.ParseTiming(in.AnnuityType)
	res, err := engine.AnnuityFutureValue(
		in.Payment,
		engine.RateFromPercent(in.AnnualRate, in.Frequency),
		in.Years*int(in.Frequency),
		timing,
	)
	if err != nil {
		return nil, err
	}
	return &AnnuityResult{Growth: growthFrom(res, periodUnit(in.Frequency)), Timing: timing}, nil
}

func (r *AnnuityResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Future Value", Value: engine.FormatCurrency(r.EndingBalance)},
		{Label: "Total Contributions", Value: engine.FormatCurrency(r.TotalPrincipal)},
		{Label: "Total Interest", Value: engine.FormatCurrency(r.TotalInterest)},
	}
}
