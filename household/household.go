/*
Package household implements the everyday money calculators that need no
compounding: an illustrative income tax estimate, a monthly budget, net
worth and an emergency fund target.

SEE ALSO:
  - engine/summary.go: Sum, FormatCurrency, BreakdownChart
*/
package household

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

// Item is one labelled amount in a list of incomes, expenses, assets or
// liabilities.
type Item struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

func validateItems(field string, items []Item) error {
	for i, it := range items {
		if it.Amount.IsNegative() {
			return engine.Invalid(fmt.Sprintf("%s[%d].amount", field, i), "must not be negative")
		}
	}
	return nil
}

func total(items []Item) decimal.Decimal {
	values := make([]decimal.Decimal, len(items))
	for i, it := range items {
		values[i] = it.Amount
	}
	return engine.Sum(values...)
}

func toSlices(items []Item) []engine.Slice {
	out := make([]engine.Slice, len(items))
	for i, it := range items {
		label := it.Label
		if label == "" {
			label = fmt.Sprintf("Item %d", i+1)
		}
		out[i] = engine.Slice{Label: label, Value: it.Amount}
	}
	return out
}

// =============================================================================
// TAX ESTIMATE
// =============================================================================

// Bracket taxes income up to UpTo at Rate. A zero UpTo means no limit.
type Bracket struct {
	UpTo decimal.Decimal
	Rate decimal.Decimal
}

// IllustrativeBrackets is a simplified progressive schedule. It does not
// represent any real tax law.
var IllustrativeBrackets = []Bracket{
	{UpTo: decimal.NewFromInt(15000), Rate: decimal.Zero},
	{UpTo: decimal.NewFromInt(50000), Rate: decimal.RequireFromString("0.10")},
	{UpTo: decimal.NewFromInt(100000), Rate: decimal.RequireFromString("0.20")},
	{UpTo: decimal.Zero, Rate: decimal.RequireFromString("0.25")},
}

// TaxInput is gross yearly income and total deductions.
type TaxInput struct {
	GrossIncome decimal.Decimal `json:"gross_income"`
	Deductions  decimal.Decimal `json:"deductions"`
}

func (in TaxInput) Validate() error {
	return engine.FirstError(
		engine.NonNegative("gross_income", in.GrossIncome),
		engine.NonNegative("deductions", in.Deductions),
	)
}

// TaxResult is the estimate.
type TaxResult struct {
	GrossIncome    decimal.Decimal `json:"gross_income"`
	TaxableIncome  decimal.Decimal `json:"taxable_income"`
	EstimatedTax   decimal.Decimal `json:"estimated_tax"`
	AfterTaxIncome decimal.Decimal `json:"after_tax_income"`
	EffectiveRate  decimal.Decimal `json:"effective_rate"`
	MarginalRate   decimal.Decimal `json:"marginal_rate"`
}

// ProgressiveTax applies brackets to taxable income and returns the tax and
// the marginal rate of the last bracket reached.
func ProgressiveTax(taxable decimal.Decimal, brackets []Bracket) (tax, marginal decimal.Decimal) {
	tax, marginal = decimal.Zero, decimal.Zero
	lower := decimal.Zero
	for _, b := range brackets {
		if !taxable.GreaterThan(lower) {
			break
		}
		upper := taxable
		if !b.UpTo.IsZero() {
			upper = decimal.Min(taxable, b.UpTo)
		}
		tax = tax.Add(upper.Sub(lower).Mul(b.Rate))
		marginal = b.Rate
		if b.UpTo.IsZero() {
			break
		}
		lower = b.UpTo
	}
	return tax, marginal
}

// Tax estimates income tax with IllustrativeBrackets. Taxable income never
// goes below zero.
func Tax(in TaxInput) (*TaxResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	taxable := engine.ClampNonNegative(in.GrossIncome.Sub(in.Deductions))
	tax, marginal := ProgressiveTax(taxable, IllustrativeBrackets)
	res := &TaxResult{
		GrossIncome:    in.GrossIncome,
		TaxableIncome:  taxable,
		EstimatedTax:   tax,
		AfterTaxIncome: in.GrossIncome.Sub(tax),
		EffectiveRate:  decimal.Zero,
		MarginalRate:   marginal,
	}
	if in.GrossIncome.IsPositive() {
		res.EffectiveRate = tax.Div(in.GrossIncome)
	}
	return res, nil
}

func (r *TaxResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Taxable Income", Value: engine.FormatCurrency(r.TaxableIncome)},
		{Label: "Estimated Tax", Value: engine.FormatCurrency(r.EstimatedTax)},
		{Label: "After-Tax Income", Value: engine.FormatCurrency(r.AfterTaxIncome)},
		{Label: "Effective Rate", Value: engine.FormatPercent(r.EffectiveRate)},
		{Label: "Marginal Rate", Value: engine.FormatPercent(r.MarginalRate)},
	}
}

func (r *TaxResult) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Where Your Income Goes",
			engine.Slice{Label: "Tax", Value: r.EstimatedTax},
			engine.Slice{Label: "After Tax", Value: r.AfterTaxIncome},
		),
	}
}

// =============================================================================
// BUDGET
// =============================================================================

// BudgetInput lists monthly incomes and expenses.
type BudgetInput struct {
	Incomes  []Item `json:"incomes"`
	Expenses []Item `json:"expenses"`
}

func (in BudgetInput) Validate() error {
	return engine.FirstError(
		validateItems("incomes", in.Incomes),
		validateItems("expenses", in.Expenses),
	)
}

// BudgetResult is the monthly surplus or deficit.
type BudgetResult struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	Positive      bool            `json:"positive"`
	expenses      []Item
}

// Budget totals incomes and expenses. The net may be negative.
func Budget(in BudgetInput) (*BudgetResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	income, expenses := total(in.Incomes), total(in.Expenses)
	net := income.Sub(expenses)
	return &BudgetResult{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetBalance:    net,
		Positive:      !net.IsNegative(),
		expenses:      in.Expenses,
	}, nil
}

func (r *BudgetResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Total Income", Value: engine.FormatCurrency(r.TotalIncome)},
		{Label: "Total Expenses", Value: engine.FormatCurrency(r.TotalExpenses)},
		{Label: "Net Balance", Value: engine.FormatCurrency(r.NetBalance)},
	}
}

func (r *BudgetResult) Charts() []engine.Chart {
	return []engine.Chart{engine.BreakdownChart("Expense Breakdown", toSlices(r.expenses)...)}
}

// =============================================================================
// NET WORTH
// =============================================================================

// NetWorthInput lists what is owned and what is owed.
type NetWorthInput struct {
	Assets      []Item `json:"assets"`
	Liabilities []Item `json:"liabilities"`
}

func (in NetWorthInput) Validate() error {
	return engine.FirstError(
		validateItems("assets", in.Assets),
		validateItems("liabilities", in.Liabilities),
	)
}

// NetWorthResult is assets minus liabilities.
type NetWorthResult struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	assets           []Item
	liabilities      []Item
}

func NetWorth(in NetWorthInput) (*NetWorthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	assets, liabilities := total(in.Assets), total(in.Liabilities)
	return &NetWorthResult{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
		assets:           in.Assets,
		liabilities:      in.Liabilities,
	}, nil
}

func (r *NetWorthResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Total Assets", Value: engine.FormatCurrency(r.TotalAssets)},
		{Label: "Total Liabilities", Value: engine.FormatCurrency(r.TotalLiabilities)},
		{Label: "Net Worth", Value: engine.FormatCurrency(r.NetWorth)},
	}
}

func (r *NetWorthResult) Charts() []engine.Chart {
	return []engine.Chart{
		engine.BreakdownChart("Assets", toSlices(r.assets)...),
		engine.BreakdownChart("Liabilities", toSlices(r.liabilities)...),
	}
}

// =============================================================================
// EMERGENCY FUND
// =============================================================================

// EmergencyFundInput lists monthly essential expenses and the months of
// coverage wanted.
type EmergencyFundInput struct {
	Expenses []Item `json:"expenses"`
	Months   int    `json:"months"`
}

func (in EmergencyFundInput) Validate() error {
	return engine.FirstError(
		validateItems("expenses", in.Expenses),
		engine.IntBetween("months", in.Months, 1, engine.MaxYears*12),
	)
}

// EmergencyFundResult is the recommended fund size.
type EmergencyFundResult struct {
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	Months          int             `json:"months"`
	RecommendedFund decimal.Decimal `json:"recommended_fund"`
	expenses        []Item
}

func EmergencyFund(in EmergencyFundInput) (*EmergencyFundResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	monthly := total(in.Expenses)
	return &EmergencyFundResult{
		MonthlyExpenses: monthly,
		Months:          in.Months,
		RecommendedFund: monthly.Mul(decimal.NewFromInt(int64(in.Months))),
		expenses:        in.Expenses,
	}, nil
}

func (r *EmergencyFundResult) Figures() []engine.Figure {
	return []engine.Figure{
		{Label: "Total Monthly Expenses", Value: engine.FormatCurrency(r.MonthlyExpenses)},
		{Label: "Months of Coverage", Value: fmt.Sprintf("%d", r.Months)},
		{Label: "Recommended Emergency Fund", Value: engine.FormatCurrency(r.RecommendedFund)},
	}
}

func (r *EmergencyFundResult) Charts() []engine.Chart {
	return []engine.Chart{engine.BreakdownChart("Monthly Expenses", toSlices(r.expenses)...)}
}
