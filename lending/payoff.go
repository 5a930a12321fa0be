package lending

import (
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

// PayoffPlan is the outcome of paying a revolving balance down with and
// without an extra monthly amount.
type PayoffPlan struct {
	Comparison     engine.PayoffComparison `json:"comparison"`
	Payment        decimal.Decimal         `json:"payment"`
	ExtraPayment   decimal.Decimal         `json:"extra_payment"`
	AcceleratedPay decimal.Decimal         `json:"accelerated_payment"`
	Schedule       engine.Schedule         `json:"schedule"`
}

func comparePlan(balance, annualRate, payment, extra decimal.Decimal) (*PayoffPlan, error) {
	rate := engine.RateFromPercent(annualRate, engine.Monthly)
	cmp, err := engine.ComparePayoff(balance, rate, payment, extra)
	if err != nil {
		return nil, err
	}
	accelerated := payment.Add(extra)
	sched, err := engine.PayoffSchedule(balance, rate, accelerated)
	if err != nil {
		return nil, err
	}
	return &PayoffPlan{
		Comparison:     cmp,
		Payment:        payment,
		ExtraPayment:   extra,
		AcceleratedPay: accelerated,
		Schedule:       sched,
	}, nil
}

func (p *PayoffPlan) Figures() []engine.Figure {
	c := p.Comparison
	figs := make([]engine.Figure, 0, 8)
	if c.BaselineUnpayable {
		figs = append(figs, engine.Figure{Label: "Without Extra Payment", Value: "Never (payment does not cover interest)"})
	} else {
		figs = append(figs,
			engine.Figure{Label: "Payoff Time", Value: engine.FormatDuration(c.Baseline.PeriodCount)},
			engine.Figure{Label: "Total Interest", Value: engine.FormatCurrency(c.Baseline.TotalInterest)},
			engine.Figure{Label: "Total Paid", Value: engine.FormatCurrency(c.Baseline.TotalPaid)},
		)
	}
	if p.ExtraPayment.IsPositive() {
		figs = append(figs,
			engine.Figure{Label: "Payoff Time With Extra", Value: engine.FormatDuration(c.Accelerated.PeriodCount)},
			engine.Figure{Label: "Total Interest With Extra", Value: engine.FormatCurrency(c.Accelerated.TotalInterest)},
			engine.Figure{Label: "Interest Saved", Value: engine.FormatCurrency(c.InterestSaved)},
			engine.Figure{Label: "Time Saved", Value: engine.FormatDuration(c.PeriodsSaved)},
		)
	}
	return figs
}

func (p *PayoffPlan) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Total Paid",
			engine.Slice{Label: "Principal", Value: p.Comparison.Accelerated.TotalPrincipal},
			engine.Slice{Label: "Interest", Value: p.Comparison.Accelerated.TotalInterest},
		),
		engine.ScheduleChart("Balance Over Time", p.Schedule.Entries),
	}
}

func (p *PayoffPlan) AmortizationSchedule() engine.Schedule {
	return p.Schedule
}

// =============================================================================
// CREDIT CARD
// =============================================================================

// CreditCardInput is a card balance paid with a fixed monthly amount.
type CreditCardInput struct {
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	ExtraPayment   decimal.Decimal `json:"extra_payment"`
}

func (in CreditCardInput) Validate() error {
	return engine.FirstError(
		engine.Positive("balance", in.Balance),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Positive("monthly_payment", in.MonthlyPayment),
		engine.NonNegative("extra_payment", in.ExtraPayment),
	)
}

// CreditCardPayoff finds how long a card takes to pay off and what an
// extra monthly amount saves.
func CreditCardPayoff(in CreditCardInput) (*PayoffPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return comparePlan(in.Balance, in.AnnualRate, in.MonthlyPayment, in.ExtraPayment)
}

// =============================================================================
// DEBT
// =============================================================================

// DebtInput is a debt paid at its minimum payment, optionally with extra.
type DebtInput struct {
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	ExtraPayment   decimal.Decimal `json:"extra_payment"`
}

func (in DebtInput) Validate() error {
	return engine.FirstError(
		engine.Positive("balance", in.Balance),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Positive("minimum_payment", in.MinimumPayment),
		engine.NonNegative("extra_payment", in.ExtraPayment),
	)
}

// DebtPayoff is CreditCardPayoff where the minimum payment alone must
// already retire the debt.
func DebtPayoff(in DebtInput) (*PayoffPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rate := engine.RateFromPercent(in.AnnualRate, engine.Monthly)
	if _, err := engine.SolvePayoffTime(in.Balance, rate, in.MinimumPayment); err != nil {
		return nil, err
	}
	return comparePlan(in.Balance, in.AnnualRate, in.MinimumPayment, in.ExtraPayment)
}
