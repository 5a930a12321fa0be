package savings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

// minimumWorkingAge is the youngest current age the retirement planner accepts.
const minimumWorkingAge = 18

// =============================================================================
// RETIREMENT
// =============================================================================

// RetirementInput projects savings to a retirement age with a yearly
// contribution made at the start of each year.
type RetirementInput struct {
	CurrentAge         int             `json:"current_age"`
	RetirementAge      int             `json:"retirement_age"`
	CurrentSavings     decimal.Decimal `json:"current_savings"`
	AnnualContribution decimal.Decimal `json:"annual_contribution"`
	AnnualReturn       decimal.Decimal `json:"annual_return"`
	Inflation          decimal.Decimal `json:"inflation"`
}

func (in RetirementInput) Validate() error {
	if in.CurrentAge < minimumWorkingAge {
		return engine.Invalid("current_age", fmt.Sprintf("must be at least %d", minimumWorkingAge))
	}
	if in.RetirementAge <= in.CurrentAge {
		return engine.Invalid("retirement_age", "must be greater than current_age")
	}
	if err := engine.IntBetween("retirement_age", in.RetirementAge, 1, engine.MaxAge); err != nil {
		return err
	}
	return engine.FirstError(
		engine.NonNegative("current_savings", in.CurrentSavings),
		engine.NonNegative("annual_contribution", in.AnnualContribution),
		engine.NonNegative("annual_return", in.AnnualReturn),
		engine.NonNegative("inflation", in.Inflation),
	)
}

// RetirementResult holds the nominal projection and its value in today's
// dollars.
type RetirementResult struct {
	Growth
	YearsToRetirement int             `json:"years_to_retirement"`
	RealBalance       decimal.Decimal `json:"real_balance"`
}

// Retirement projects the nominal balance at retirement and deflates it by
// the expected inflation.
func Retirement(in RetirementInput) (*RetirementResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	years := in.RetirementAge - in.CurrentAge
	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       in.CurrentSavings,
		PeriodicContribution: in.AnnualContribution,
		PeriodicRate:         engine.PercentToRate(in.AnnualReturn),
		Periods:              years,
		Timing:               engine.StartOfPeriod,
	})
	if err != nil {
		return nil, err
	}
	worth, err := engine.ToRealValue(res.EndingBalance, engine.PercentToRate(in.Inflation), years)
	if err != nil {
		return nil, err
	}
	return &RetirementResult{
		Growth:            growthFrom(res, "Year"),
		YearsToRetirement: years,
		RealBalance:       worth,
	}, nil
}

func (r *RetirementResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Years Until Retirement", Value: fmt.Sprintf("%d", r.YearsToRetirement)},
		{Label: "Total Principal Invested", Value: engine.FormatCurrency(r.TotalPrincipal)},
		{Label: "Total Interest Earned", Value: engine.FormatCurrency(r.TotalInterest)},
		{Label: "Projected Balance (Nominal)", Value: engine.FormatCurrency(r.EndingBalance)},
		{Label: "Projected Balance (Today's Dollars)", Value: engine.FormatCurrency(r.RealBalance)},
	}
}

// =============================================================================
// COLLEGE SAVINGS
// =============================================================================

// CollegeInput projects a college fund against inflating tuition. AnnualCost
// is in today's dollars.
type CollegeInput struct {
	ChildAge           int             `json:"child_age"`
	CollegeAge         int             `json:"college_age"`
	CurrentSavings     decimal.Decimal `json:"current_savings"`
	AnnualContribution decimal.Decimal `json:"annual_contribution"`
	AnnualCost         decimal.Decimal `json:"annual_cost"`
	CostInflation      decimal.Decimal `json:"cost_inflation"`
	AnnualReturn       decimal.Decimal `json:"annual_return"`
	YearsInCollege     int             `json:"years_in_college"`
}

func (in CollegeInput) Validate() error {
	if in.ChildAge < 0 {
		return engine.Invalid("child_age", "must not be negative")
	}
	if in.CollegeAge <= in.ChildAge {
		return engine.Invalid("college_age", "must be greater than child_age")
	}
	if err := engine.IntBetween("college_age", in.CollegeAge, 1, engine.MaxAge); err != nil {
		return err
	}
	return engine.FirstError(
		engine.NonNegative("current_savings", in.CurrentSavings),
		engine.NonNegative("annual_contribution", in.AnnualContribution),
		engine.Positive("annual_cost", in.AnnualCost),
		engine.NonNegative("cost_inflation", in.CostInflation),
		engine.NonNegative("annual_return", in.AnnualReturn),
		engine.Years("years_in_college", in.YearsInCollege),
	)
}

// CollegeResult compares the projected fund with the projected cost.
type CollegeResult struct {
	Growth
	YearsToCollege         int               `json:"years_to_college"`
	YearlyCosts            []decimal.Decimal `json:"yearly_costs"`
	TotalCost              decimal.Decimal   `json:"total_cost"`
	Shortfall              decimal.Decimal   `json:"shortfall"`
	Surplus                decimal.Decimal   `json:"surplus"`
	RequiredContribution   decimal.Decimal   `json:"required_contribution"`
	AdditionalContribution decimal.Decimal   `json:"additional_contribution"`
}

// College projects savings to the first year of college and the inflated
// cost of every college year, then solves the yearly contribution that
// would cover the total.
func College(in CollegeInput) (*CollegeResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	years := in.CollegeAge - in.ChildAge
	rate := engine.PercentToRate(in.AnnualReturn)
	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       in.CurrentSavings,
		PeriodicContribution: in.AnnualContribution,
		PeriodicRate:         rate,
		Periods:              years,
		Timing:               engine.StartOfPeriod,
	})
	if err != nil {
		return nil, err
	}

	out := &CollegeResult{
		Growth:         growthFrom(res, "Year"),
		YearsToCollege: years,
		TotalCost:      decimal.Zero,
		Shortfall:      decimal.Zero,
		Surplus:        decimal.Zero,
	}
	costGrowth := engine.PercentToRate(in.CostInflation)
	for k := 0; k < in.YearsInCollege; k++ {
		cost, err := engine.ToFutureCost(in.AnnualCost, costGrowth, years+k)
		if err != nil {
			return nil, err
		}
		out.YearlyCosts = append(out.YearlyCosts, cost)
		out.TotalCost = out.TotalCost.Add(cost)
	}

	gap := out.TotalCost.Sub(res.EndingBalance)
	if gap.IsPositive() {
		out.Shortfall = gap
	} else {
		out.Surplus = gap.Neg()
	}

	out.RequiredContribution, err = engine.RequiredContribution(
		out.TotalCost, in.CurrentSavings, rate, years, engine.StartOfPeriod)
	if err != nil {
		return nil, err
	}
	out.AdditionalContribution = engine.ClampNonNegative(out.RequiredContribution.Sub(in.AnnualContribution))
	return out, nil
}

func (r *CollegeResult) Figures() []engine.Figure {
	figs := []engine.Figure{
		{Label: "Years Until College", Value: fmt.Sprintf("%d", r.YearsToCollege)},
		{Label: "Projected Savings", Value: engine.FormatCurrency(r.EndingBalance)},
		{Label: "Projected Total Cost", Value: engine.FormatCurrency(r.TotalCost)},
	}
	if r.Shortfall.IsPositive() {
		figs = append(figs,
			engine.Figure{Label: "Shortfall", Value: engine.FormatCurrency(r.Shortfall)},
			engine.Figure{Label: "Required Yearly Contribution", Value: engine.FormatCurrency(r.RequiredContribution)},
			engine.Figure{Label: "Additional Yearly Contribution", Value: engine.FormatCurrency(r.AdditionalContribution)},
		)
	} else {
		figs = append(figs, engine.Figure{Label: "Surplus", Value: engine.FormatCurrency(r.Surplus)})
	}
	return figs
}

func (r *CollegeResult) Charts() []engine.Chart {
	labels := make([]string, len(r.YearlyCosts))
	costs := make([]decimal.Decimal, len(r.YearlyCosts))
	for i, c := range r.YearlyCosts {
		labels[i] = fmt.Sprintf("College Year %d", i+1)
		costs[i] = c.Round(2)
	}
	return []engine.Chart{
		engine.GrowthChart("College Fund Growth", "Year", r.Balances),
		{
			Kind:   engine.ChartBar,
			Title:  "Projected College Costs",
			Labels: labels,
			Series: []engine.Series{{Label: "Cost", Values: costs}},
		},
	}
}

// =============================================================================
// SAVINGS GOAL
// =============================================================================

// SavingsGoalInput asks how much to save monthly to reach Target in Years.
type SavingsGoalInput struct {
	Target         decimal.Decimal `json:"target"`
	Years          int             `json:"years"`
	CurrentSavings decimal.Decimal `json:"current_savings"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
}

func (in SavingsGoalInput) Validate() error {
	return engine.FirstError(
		engine.Positive("target", in.Target),
		engine.Years("years", in.Years),
		engine.NonNegative("current_savings", in.CurrentSavings),
		engine.NonNegative("annual_rate", in.AnnualRate),
	)
}

// SavingsGoalResult is the monthly saving and how the goal is reached.
type SavingsGoalResult struct {
	MonthlySaving      decimal.Decimal `json:"monthly_saving"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	InterestEarned     decimal.Decimal `json:"interest_earned"`
	Target             decimal.Decimal `json:"target"`
	CurrentSavings     decimal.Decimal `json:"current_savings"`
	Months             int             `json:"months"`
}

// SavingsGoal solves the end-of-month deposit that, with the current
// savings compounding monthly, reaches the target.
func SavingsGoal(in SavingsGoalInput) (*SavingsGoalResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	months := in.Years * monthsPerYear
	rate := engine.RateFromPercent(in.AnnualRate, engine.Monthly)
	pmt, err := engine.RequiredContribution(in.Target, in.CurrentSavings, rate, months, engine.EndOfPeriod)
	if err != nil {
		return nil, err
	}
	contributions := pmt.Mul(decimal.NewFromInt(int64(months)))
	return &SavingsGoalResult{
		MonthlySaving:      pmt,
		TotalContributions: contributions,
		InterestEarned:     engine.ClampNonNegative(in.Target.Sub(in.CurrentSavings).Sub(contributions)),
		Target:             in.Target,
		CurrentSavings:     in.CurrentSavings,
		Months:             months,
	}, nil
}

func (r *SavingsGoalResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Required Monthly Saving", Value: engine.FormatCurrency(r.MonthlySaving)},
		{Label: "Total Contributions", Value: engine.FormatCurrency(r.TotalContributions)},
		{Label: "Interest Earned", Value: engine.FormatCurrency(r.InterestEarned)},
		{Label: "Time Frame", Value: engine.FormatDuration(r.Months)},
	}
}

func (r *SavingsGoalResult) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("How the Goal Is Reached",
			engine.Slice{Label: "Current Savings", Value: r.CurrentSavings},
			engine.Slice{Label: "Contributions", Value: r.TotalContributions},
			engine.Slice{Label: "Interest", Value: r.InterestEarned},
		),
	}
}

// =============================================================================
// INFLATION
// =============================================================================

// InflationInput is an amount today and an inflation rate in percent.
type InflationInput struct {
	Amount     decimal.Decimal `json:"amount"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Years      int             `json:"years"`
}

func (in InflationInput) Validate() error {
	return engine.FirstError(
		engine.NonNegative("amount", in.Amount),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("years", in.Years),
	)
}

// InflationResult is what the amount costs later and what it will be worth.
type InflationResult struct {
	Years           int             `json:"years"`
	FutureCost      decimal.Decimal `json:"future_cost"`
	PurchasingPower decimal.Decimal `json:"purchasing_power"`
}

// Inflation projects the future cost of today's amount and the future
// purchasing power of the same nominal amount.
func Inflation(in InflationInput) (*InflationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rate := engine.PercentToRate(in.AnnualRate)
	future, err := engine.ToFutureCost(in.Amount, rate, in.Years)
	if err != nil {
		return nil, err
	}
	power, err := engine.ToRealValue(in.Amount, rate, in.Years)
	if err != nil {
		return nil, err
	}
	return &InflationResult{Years: in.Years, FutureCost: future, PurchasingPower: power}, nil
}

func (r *InflationResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Years", Value: fmt.Sprintf("%d", r.Years)},
		{Label: "Future Cost", Value: engine.FormatCurrency(r.FutureCost)},
		{Label: "Purchasing Power", Value: engine.FormatCurrency(r.PurchasingPower)},
	}
}

func (r *InflationResult) Charts() []engine.Chart {
	return nil
}

// =============================================================================
// RULE OF 72
// =============================================================================

var seventyTwo = decimal.NewFromInt(72)

// RuleOf72Input takes exactly one of an annual rate (percent) or a number
// of years.
type RuleOf72Input struct {
	AnnualRate decimal.NullDecimal `json:"annual_rate"`
	Years      decimal.NullDecimal `json:"years"`
}

func (in RuleOf72Input) Validate() error {
	switch {
	case in.AnnualRate.Valid && in.Years.Valid:
		return engine.Invalid("", "provide either annual_rate or years, not both")
	case in.AnnualRate.Valid:
		return engine.Positive("annual_rate", in.AnnualRate.Decimal)
	case in.Years.Valid:
		return engine.Positive("years", in.Years.Decimal)
	}
	return engine.Invalid("", "provide annual_rate or years")
}

// RuleOf72Result carries whichever side was solved.
type RuleOf72Result struct {
	YearsToDouble decimal.NullDecimal `json:"years_to_double"`
	RequiredRate  decimal.NullDecimal `json:"required_rate"`
}

// RuleOf72 estimates doubling time from a rate, or the rate needed to
// double in a given time.
func RuleOf72(in RuleOf72Input) (*RuleOf72Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.AnnualRate.Valid {
		return &RuleOf72Result{YearsToDouble: decimal.NewNullDecimal(seventyTwo.Div(in.AnnualRate.Decimal))}, nil
	}
	return &RuleOf72Result{RequiredRate: decimal.NewNullDecimal(seventyTwo.Div(in.Years.Decimal))}, nil
}

func (r *RuleOf72Result) Figures() []engine.Figure {
	years, rate := "---", "---"
	if r.YearsToDouble.Valid {
		years = r.YearsToDouble.Decimal.StringFixed(2) + " years"
	}
	if r.RequiredRate.Valid {
		rate = r.RequiredRate.Decimal.StringFixed(2) + "%"
	}
	return []engine.Figure{
		{Label: "Years to Double", Value: years},
		{Label: "Required Rate", Value: rate},
	}
}

func (r *RuleOf72Result) Charts() []engine.Chart {
	return nil
}
