/*
Package factory turns a calculator kind plus a JSON document into a
calculation result.

PURPOSE:
  The API, the CLI and the scenario runner all receive calculator input
  as JSON. The factory owns the catalog of calculator kinds, decodes the
  JSON into the right typed input, rejects malformed documents with
  field-named errors, and runs the calculator.

JSON RULES:
  - The document must be a JSON object
  - Unknown fields are rejected
  - Every required field must be present and not null
  - Amounts may be JSON numbers or numeric strings ("1199.10")
  - Percentages are annual and written as percents (6.5 means 6.5%)

  {
    "home_price": 400000,
    "down_payment": 80000,
    "annual_rate": 6.5,
    "term_years": 30
  }

USAGE:
  f := factory.NewCalculatorFactory()
  out, err := f.Run("mortgage", []byte(jsonStr))
  if errors.Is(err, engine.ErrInvalidInput) { ... }
  for _, fig := range out.Result.Figures() { ... }

SEE ALSO:
  - lending/, savings/, household/: the calculators
  - scenarios.go: ready-made example inputs
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/warp/finance-engine/engine"
	"github.com/warp/finance-engine/household"
	"github.com/warp/finance-engine/lending"
	"github.com/warp/finance-engine/savings"
)

// ErrUnknownCalculator is returned when a kind is not in the catalog.
var ErrUnknownCalculator = errors.New("unknown calculator")

// Categories group calculators in listings.
const (
	CategoryLending   = "lending"
	CategorySavings   = "savings"
	CategoryHousehold = "household"
)

// Descriptor describes one calculator kind.
type Descriptor struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
	Schedule    bool     `json:"schedule"`
}

// Outcome is the result of running one calculator.
type Outcome struct {
	Kind   string             `json:"kind"`
	Result engine.Presentable `json:"result"`
}

// Schedule returns the amortization table of the result, if it has one.
func (o *Outcome) Schedule() (engine.Schedule, bool) {
	s, ok := o.Result.(engine.Scheduled)
	if !ok {
		return engine.Schedule{}, false
	}
	return s.AmortizationSchedule(), true
}

type runner func(raw []byte) (engine.Presentable, error)

type calculator struct {
	desc Descriptor
	run  runner
}

// =============================================================================
// CALCULATOR FACTORY
// =============================================================================

// CalculatorFactory holds the calculator catalog.
type CalculatorFactory struct {
	calculators map[string]calculator
}

// NewCalculatorFactory creates a factory with every calculator registered.
func NewCalculatorFactory() *CalculatorFactory {
	f := &CalculatorFactory{calculators: make(map[string]calculator)}

	// Lending
	register(f, Descriptor{
		Kind: "mortgage", Name: "Mortgage", Category: CategoryLending,
		Description: "Monthly payment with taxes, insurance, HOA and PMI",
		Required:    []string{"home_price", "down_payment", "annual_rate", "term_years"},
		Optional:    []string{"property_tax_annual", "insurance_annual", "hoa_monthly"},
		Schedule:    true,
	}, lending.Mortgage)
	register(f, Descriptor{
		Kind: "loan-payment", Name: "Loan Payment", Category: CategoryLending,
		Description: "Level monthly payment for a loan",
		Required:    []string{"amount", "annual_rate", "term_months"},
	}, lending.LoanPayment)
	register(f, Descriptor{
		Kind: "amortization", Name: "Amortization Schedule", Category: CategoryLending,
		Description: "Month-by-month split of each payment into interest and principal",
		Required:    []string{"amount", "annual_rate", "term_years"},
		Schedule:    true,
	}, lending.Amortization)
	register(f, Descriptor{
		Kind: "credit-card-payoff", Name: "Credit Card Payoff", Category: CategoryLending,
		Description: "Time to pay off a card and the savings from paying extra",
		Required:    []string{"balance", "annual_rate", "monthly_payment"},
		Optional:    []string{"extra_payment"},
		Schedule:    true,
	}, lending.CreditCardPayoff)
	register(f, Descriptor{
		Kind: "debt-payoff", Name: "Debt Payoff", Category: CategoryLending,
		Description: "Payoff time at the minimum payment, with and without extra",
		Required:    []string{"balance", "annual_rate", "minimum_payment"},
		Optional:    []string{"extra_payment"},
		Schedule:    true,
	}, lending.DebtPayoff)
	register(f, Descriptor{
		Kind: "rent-vs-buy", Name: "Rent vs Buy", Category: CategoryLending,
		Description: "Total cost of renting against owning over a horizon",
		Required:    []string{"years", "monthly_rent", "home_price", "down_payment", "annual_rate", "term_years"},
		Optional: []string{"rent_increase", "closing_costs", "property_tax_annual", "insurance_annual",
			"hoa_monthly", "maintenance_annual", "appreciation"},
	}, lending.RentVsBuy)

	// Savings
	register(f, Descriptor{
		Kind: "compound-interest", Name: "Compound Interest", Category: CategorySavings,
		Description: "Growth of an investment with yearly contributions",
		Required:    []string{"initial", "annual_rate", "frequency", "years"},
		Optional:    []string{"annual_contribution"},
	}, savings.CompoundInterest)
	register(f, Descriptor{
		Kind: "hysa", Name: "High-Yield Savings", Category: CategorySavings,
		Description: "Savings account with monthly deposits",
		Required:    []string{"initial_deposit", "monthly_deposit", "annual_rate", "frequency", "years"},
	}, savings.HYSA)
	register(f, Descriptor{
		Kind: "retirement", Name: "Retirement", Category: CategorySavings,
		Description: "Projected retirement savings in nominal and today's dollars",
		Required: []string{"current_age", "retirement_age", "current_savings", "annual_contribution",
			"annual_return", "inflation"},
	}, savings.Retirement)
	register(f, Descriptor{
		Kind: "college-savings", Name: "College Savings", Category: CategorySavings,
		Description: "College fund against inflating tuition",
		Required: []string{"child_age", "college_age", "current_savings", "annual_contribution",
			"annual_cost", "cost_inflation", "annual_return", "years_in_college"},
	}, savings.College)
	register(f, Descriptor{
		Kind: "savings-goal", Name: "Savings Goal", Category: CategorySavings,
		Description: "Monthly saving needed to reach a target",
		Required:    []string{"target", "years"},
		Optional:    []string{"current_savings", "annual_rate"},
	}, savings.SavingsGoal)
	register(f, Descriptor{
		Kind: "annuity", Name: "Annuity Future Value", Category: CategorySavings,
		Description: "Future value of an ordinary annuity or annuity due",
		Required:    []string{"payment", "annual_rate", "years", "frequency", "annuity_type"},
	}, savings.Annuity)
	register(f, Descriptor{
		Kind: "inflation", Name: "Inflation", Category: CategorySavings,
		Description: "Future cost and purchasing power of an amount",
		Required:    []string{"amount", "annual_rate", "years"},
	}, savings.Inflation)
	register(f, Descriptor{
		Kind: "rule-of-72", Name: "Rule of 72", Category: CategorySavings,
		Description: "Years to double at a rate, or the rate to double in a time",
		Optional:    []string{"annual_rate", "years"},
	}, savings.RuleOf72)

	// Household
	register(f, Descriptor{
		Kind: "tax-estimate", Name: "Tax Estimate", Category: CategoryHousehold,
		Description: "Illustrative progressive income tax estimate",
		Required:    []string{"gross_income"},
		Optional:    []string{"deductions"},
	}, household.Tax)
	register(f, Descriptor{
		Kind: "budget", Name: "Budget", Category: CategoryHousehold,
		Description: "Monthly incomes against expenses",
		Optional:    []string{"incomes", "expenses"},
	}, household.Budget)
	register(f, Descriptor{
		Kind: "net-worth", Name: "Net Worth", Category: CategoryHousehold,
		Description: "Assets minus liabilities",
		Optional:    []string{"assets", "liabilities"},
	}, household.NetWorth)
	register(f, Descriptor{
		Kind: "emergency-fund", Name: "Emergency Fund", Category: CategoryHousehold,
		Description: "Recommended emergency fund from monthly expenses",
		Required:    []string{"expenses", "months"},
	}, household.EmergencyFund)

	return f
}

// register adds a calculator whose typed input In is decoded from JSON.
func register[In any, Out engine.Presentable](f *CalculatorFactory, d Descriptor, calc func(In) (Out, error)) {
	f.calculators[d.Kind] = calculator{
		desc: d,
		run: func(raw []byte) (engine.Presentable, error) {
			var in In
			if err := decode(raw, d.Required, &in); err != nil {
				return nil, err
			}
			out, err := calc(in)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// Kinds lists every calculator, sorted by category then kind.
func (f *CalculatorFactory) Kinds() []Descriptor {
	out := make([]Descriptor, 0, len(f.calculators))
	for _, c := range f.calculators {
		out = append(out, c.desc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Describe returns the descriptor of one kind.
func (f *CalculatorFactory) Describe(kind string) (Descriptor, error) {
	c, ok := f.calculators[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownCalculator, kind)
	}
	return c.desc, nil
}

// Run decodes input for kind and runs the calculator.
func (f *CalculatorFactory) Run(kind string, input []byte) (*Outcome, error) {
	c, ok := f.calculators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCalculator, kind)
	}
	result, err := c.run(input)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: kind, Result: result}, nil
}

// =============================================================================
// DECODING
// =============================================================================

// decode checks required keys on the raw object, then decodes strictly into
// dst. Every failure is an engine.ErrInvalidInput.
func decode(raw []byte, required []string, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return engine.Invalid("", "input must be a JSON object")
	}
	for _, name := range required {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return engine.Invalid(name, "is required")
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	if errors.Is(err, engine.ErrInvalidInput) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return engine.Invalid(typeErr.Field, fmt.Sprintf("must be a %s", typeErr.Type))
	}
	return engine.Invalid("", err.Error())
}
