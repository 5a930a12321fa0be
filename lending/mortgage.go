/*
Package lending implements the borrowing calculators: mortgage, loan
payment, amortization table, credit card payoff, debt payoff and rent vs
buy.

PURPOSE:
  Each calculator validates its own inputs, converts annual percentages
  into per-month rates, and delegates the arithmetic to the engine. No
  calculator carries its own amortization loop.

CALCULATORS:
  Mortgage         home price, down payment, PMI, PITI
  LoanPayment      level payment for an amount and a term in months
  Amortization     full period-by-period table
  CreditCardPayoff payoff time and savings from paying extra
  DebtPayoff       same, starting from a minimum payment
  RentVsBuy        total cost of renting vs owning over a horizon

SEE ALSO:
  - engine/amortization.go: GenerateSchedule
  - engine/payoff.go: SolvePayoffTime, ComparePayoff
*/
package lending

import (
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

const monthsPerYear = 12

var (
	pmiThreshold   = decimal.RequireFromString("0.20")
	pmiBracket     = decimal.NewFromInt(100000)
	pmiPerBracket  = decimal.NewFromInt(100)
	monthsPerYearD = decimal.NewFromInt(monthsPerYear)
)

// MonthlyPMI returns the private mortgage insurance charged per month:
// $100 a year for every started $100,000 borrowed, when the down payment is
// under 20% of the price. Otherwise zero.
func MonthlyPMI(price, down, principal decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || down.Div(price).GreaterThanOrEqual(pmiThreshold) {
		return decimal.Zero
	}
	brackets := principal.Div(pmiBracket).Ceil()
	return brackets.Mul(pmiPerBracket).Div(monthsPerYearD)
}

// =============================================================================
// MORTGAGE
// =============================================================================

// MortgageInput are the inputs of the mortgage calculator. AnnualRate is a
// percentage (6.5 means 6.5%).
type MortgageInput struct {
	HomePrice         decimal.Decimal `json:"home_price"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	TermYears         int             `json:"term_years"`
	PropertyTaxAnnual decimal.Decimal `json:"property_tax_annual"`
	InsuranceAnnual   decimal.Decimal `json:"insurance_annual"`
	HOAMonthly        decimal.Decimal `json:"hoa_monthly"`
}

// Validate checks the mortgage preconditions.
func (in MortgageInput) Validate() error {
	if err := engine.FirstError(
		engine.Positive("home_price", in.HomePrice),
		engine.NonNegative("down_payment", in.DownPayment),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("term_years", in.TermYears),
		engine.NonNegative("property_tax_annual", in.PropertyTaxAnnual),
		engine.NonNegative("insurance_annual", in.InsuranceAnnual),
		engine.NonNegative("hoa_monthly", in.HOAMonthly),
	); err != nil {
		return err
	}
	if in.DownPayment.GreaterThanOrEqual(in.HomePrice) {
		return engine.Invalid("down_payment", "must be less than home_price")
	}
	return nil
}

// MortgageResult is the monthly cost breakdown and schedule of a mortgage.
type MortgageResult struct {
	Principal                decimal.Decimal `json:"principal"`
	MonthlyPrincipalInterest decimal.Decimal `json:"monthly_principal_interest"`
	MonthlyPropertyTax       decimal.Decimal `json:"monthly_property_tax"`
	MonthlyInsurance         decimal.Decimal `json:"monthly_insurance"`
	MonthlyHOA               decimal.Decimal `json:"monthly_hoa"`
	MonthlyPMI               decimal.Decimal `json:"monthly_pmi"`
	TotalMonthlyPayment      decimal.Decimal `json:"total_monthly_payment"`
	TotalInterest            decimal.Decimal `json:"total_interest"`
	TotalCost                decimal.Decimal `json:"total_cost"`
	Schedule                 engine.Schedule `json:"schedule"`
}

// Mortgage computes the monthly payment (principal, interest, taxes,
// insurance, HOA and PMI) and the loan's amortization schedule.
func Mortgage(in MortgageInput) (*MortgageResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	principal := in.HomePrice.Sub(in.DownPayment)
	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    principal,
		PeriodicRate: engine.RateFromPercent(in.AnnualRate, engine.Monthly),
		Periods:      in.TermYears * monthsPerYear,
	})
	if err != nil {
		return nil, err
	}

	res := &MortgageResult{
		Principal:                principal,
		MonthlyPrincipalInterest: sched.Payment,
		MonthlyPropertyTax:       in.PropertyTaxAnnual.Div(monthsPerYearD),
		MonthlyInsurance:         in.InsuranceAnnual.Div(monthsPerYearD),
		MonthlyHOA:               in.HOAMonthly,
		MonthlyPMI:               MonthlyPMI(in.HomePrice, in.DownPayment, principal),
		TotalInterest:            sched.Summary.TotalInterest,
		TotalCost:                sched.Summary.TotalPaid,
		Schedule:                 sched,
	}
	res.TotalMonthlyPayment = engine.Sum(
		res.MonthlyPrincipalInterest,
		res.MonthlyPropertyTax,
		res.MonthlyInsurance,
		res.MonthlyHOA,
		res.MonthlyPMI,
	)
	return res, nil
}

func (r *MortgageResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Loan Amount", Value: engine.FormatCurrency(r.Principal)},
		{Label: "Monthly Principal & Interest", Value: engine.FormatCurrency(r.MonthlyPrincipalInterest)},
		{Label: "Monthly Property Tax", Value: engine.FormatCurrency(r.MonthlyPropertyTax)},
		{Label: "Monthly Insurance", Value: engine.FormatCurrency(r.MonthlyInsurance)},
		{Label: "Monthly HOA", Value: engine.FormatCurrency(r.MonthlyHOA)},
		{Label: "Monthly PMI", Value: engine.FormatCurrency(r.MonthlyPMI)},
		{Label: "Total Monthly Payment", Value: engine.FormatCurrency(r.TotalMonthlyPayment)},
		{Label: "Total Interest", Value: engine.FormatCurrency(r.TotalInterest)},
		{Label: "Total Cost of Loan", Value: engine.FormatCurrency(r.TotalCost)},
	}
}

func (r *MortgageResult) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Monthly Payment Breakdown",
			engine.Slice{Label: "Principal & Interest", Value: r.MonthlyPrincipalInterest},
			engine.Slice{Label: "Property Tax", Value: r.MonthlyPropertyTax},
			engine.Slice{Label: "Insurance", Value: r.MonthlyInsurance},
			engine.Slice{Label: "HOA", Value: r.MonthlyHOA},
			engine.Slice{Label: "PMI", Value: r.MonthlyPMI},
		),
		engine.ScheduleChart("Loan Balance Over Time", r.Schedule.Entries),
	}
}

// AmortizationSchedule exposes the loan table for exports.
func (r *MortgageResult) AmortizationSchedule() engine.Schedule {
	return r.Schedule
}
