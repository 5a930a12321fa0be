package lending

import (
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

// =============================================================================
// LOAN PAYMENT
// =============================================================================

// LoanPaymentInput is an amount borrowed over a term in months.
type LoanPaymentInput struct {
	Amount     decimal.Decimal `json:"amount"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TermMonths int             `json:"term_months"`
}

func (in LoanPaymentInput) Validate() error {
	return engine.FirstError(
		engine.Positive("amount", in.Amount),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.IntBetween("term_months", in.TermMonths, 1, engine.MaxYears*monthsPerYear),
	)
}

// LoanPaymentResult is the level payment and its totals.
type LoanPaymentResult struct {
	MonthlyPayment decimal.Decimal      `json:"monthly_payment"`
	TotalInterest  decimal.Decimal      `json:"total_interest"`
	TotalPaid      decimal.Decimal      `json:"total_paid"`
	Summary        engine.PayoffSummary `json:"summary"`
	Principal      decimal.Decimal      `json:"principal"`
}

// LoanPayment computes the monthly payment of a fixed-term loan.
func LoanPayment(in LoanPaymentInput) (*LoanPaymentResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    in.Amount,
		PeriodicRate: engine.RateFromPercent(in.AnnualRate, engine.Monthly),
		Periods:      in.TermMonths,
	})
	if err != nil {
		return nil, err
	}
	return &LoanPaymentResult{
		MonthlyPayment: sched.Payment,
		TotalInterest:  sched.Summary.TotalInterest,
		TotalPaid:      sched.Summary.TotalPaid,
		Summary:        sched.Summary,
		Principal:      in.Amount,
	}, nil
}

func (r *LoanPaymentResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Monthly Payment", Value: engine.FormatCurrency(r.MonthlyPayment)},
		{Label: "Total Interest", Value: engine.FormatCurrency(r.TotalInterest)},
		{Label: "Total Cost", Value: engine.FormatCurrency(r.TotalPaid)},
		{Label: "Loan Duration", Value: engine.FormatDuration(r.Summary.PeriodCount)},
	}
}

func (r *LoanPaymentResult) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Principal vs Interest",
			engine.Slice{Label: "Principal", Value: r.Principal},
			engine.Slice{Label: "Interest", Value: r.TotalInterest},
		),
	}
}

// =============================================================================
// AMORTIZATION TABLE
// =============================================================================

// AmortizationInput is an amount borrowed over a term in years.
type AmortizationInput struct {
	Amount     decimal.Decimal `json:"amount"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TermYears  int             `json:"term_years"`
}

func (in AmortizationInput) Validate() error {
	return engine.FirstError(
		engine.Positive("amount", in.Amount),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("term_years", in.TermYears),
	)
}

// AmortizationResult carries the full table.
type AmortizationResult struct {
	Schedule engine.Schedule `json:"schedule"`
}

// Amortization builds the monthly amortization table of a loan.
func Amortization(in AmortizationInput) (*AmortizationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    in.Amount,
		PeriodicRate: engine.RateFromPercent(in.AnnualRate, engine.Monthly),
		Periods:      in.TermYears * monthsPerYear,
	})
	if err != nil {
		return nil, err
	}
	return &AmortizationResult{Schedule: sched}, nil
}

func (r *AmortizationResult) Figures() []engine.Figure {
	s := r.Schedule.Summary
	return []engine.Figure{
		{Label: "Monthly Payment", Value: engine.FormatCurrency(r.Schedule.Payment)},
		{Label: "Total Interest Paid", Value: engine.FormatCurrency(s.TotalInterest)},
		{Label: "Total Principal Paid", Value: engine.FormatCurrency(s.TotalPrincipal)},
		{Label: "Total Paid", Value: engine.FormatCurrency(s.TotalPaid)},
		{Label: "Payments", Value: engine.FormatDuration(s.PeriodCount)},
	}
}

func (r *AmortizationResult) Charts() []engine.Chart {
	return []engine.Chart{engine.ScheduleChart("Amortization", r.Schedule.Entries)}
}

func (r *AmortizationResult) AmortizationSchedule() engine.Schedule {
	return r.Schedule
}
