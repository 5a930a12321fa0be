package factory

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Scenario is a ready-made calculator input, used for demos and smoke tests.
type Scenario struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        string          `json:"kind"`
	Input       json.RawMessage `json:"input"`
}

// ErrUnknownScenario is returned when a scenario ID is not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

var scenarios = []Scenario{
	{
		ID:          "first-home",
		Name:        "First Home",
		Description: "$350k home with 10% down at 6.5%: PMI applies",
		Kind:        "mortgage",
		Input: json.RawMessage(`{
			"home_price": 350000,
			"down_payment": 35000,
			"annual_rate": 6.5,
			"term_years": 30,
			"property_tax_annual": 4200,
			"insurance_annual": 1500,
			"hoa_monthly": 0
		}`),
	},
	{
		ID:          "car-loan",
		Name:        "Car Loan",
		Description: "$28k over 60 months at 7.9%",
		Kind:        "loan-payment",
		Input:       json.RawMessage(`{"amount": 28000, "annual_rate": 7.9, "term_months": 60}`),
	},
	{
		ID:          "zero-percent-loan",
		Name:        "Zero Percent Loan",
		Description: "$10k interest-free over 2 years",
		Kind:        "amortization",
		Input:       json.RawMessage(`{"amount": 10000, "annual_rate": 0, "term_years": 2}`),
	},
	{
		ID:          "card-extra-100",
		Name:        "Credit Card +$100",
		Description: "$6,500 at 22.9% paying $200/month, plus $100 extra",
		Kind:        "credit-card-payoff",
		Input: json.RawMessage(`{
			"balance": 6500,
			"annual_rate": 22.9,
			"monthly_payment": 200,
			"extra_payment": 100
		}`),
	},
	{
		ID:          "minimum-trap",
		Name:        "Minimum Payment Trap",
		Description: "A minimum payment below the monthly interest never pays off",
		Kind:        "debt-payoff",
		Input: json.RawMessage(`{
			"balance": 1000,
			"annual_rate": 12,
			"minimum_payment": 9.99
		}`),
	},
	{
		ID:          "rent-or-buy-7y",
		Name:        "Rent or Buy (7 years)",
		Description: "$2,200 rent growing 3% against a $400k home appreciating 3.5%",
		Kind:        "rent-vs-buy",
		Input: json.RawMessage(`{
			"years": 7,
			"monthly_rent": 2200,
			"rent_increase": 3,
			"home_price": 400000,
			"down_payment": 80000,
			"annual_rate": 6.5,
			"term_years": 30,
			"closing_costs": 12000,
			"property_tax_annual": 4800,
			"insurance_annual": 1600,
			"hoa_monthly": 0,
			"maintenance_annual": 4000,
			"appreciation": 3.5
		}`),
	},
	{
		ID:          "hysa-quarterly",
		Name:        "HYSA Quarterly",
		Description: "$5k plus $250/month at 4.5%, credited quarterly",
		Kind:        "hysa",
		Input: json.RawMessage(`{
			"initial_deposit": 5000,
			"monthly_deposit": 250,
			"annual_rate": 4.5,
			"frequency": "quarterly",
			"years": 5
		}`),
	},
	{
		ID:          "retire-at-65",
		Name:        "Retire at 65",
		Description: "Age 35 with $40k saved, $7k/year at 7% with 2.5% inflation",
		Kind:        "retirement",
		Input: json.RawMessage(`{
			"current_age": 35,
			"retirement_age": 65,
			"current_savings": 40000,
			"annual_contribution": 7000,
			"annual_return": 7,
			"inflation": 2.5
		}`),
	},
	{
		ID:          "college-newborn",
		Name:        "College Fund for a Newborn",
		Description: "$3k/year from birth against $25k/year tuition rising 5%",
		Kind:        "college-savings",
		Input: json.RawMessage(`{
			"child_age": 0,
			"college_age": 18,
			"current_savings": 0,
			"annual_contribution": 3000,
			"annual_cost": 25000,
			"cost_inflation": 5,
			"annual_return": 6,
			"years_in_college": 4
		}`),
	},
	{
		ID:          "annuity-due",
		Name:        "Annuity Due",
		Description: "$500/month for 20 years at 5%, paid at the start of each month",
		Kind:        "annuity",
		Input: json.RawMessage(`{
			"payment": 500,
			"annual_rate": 5,
			"years": 20,
			"frequency": "monthly",
			"annuity_type": "due"
		}`),
	},
	{
		ID:          "household-budget",
		Name:        "Household Budget",
		Description: "Two incomes against the usual monthly expenses",
		Kind:        "budget",
		Input: json.RawMessage(`{
			"incomes": [{"label": "Salary", "amount": 4200}, {"label": "Side job", "amount": 600}],
			"expenses": [
				{"label": "Rent", "amount": 1800},
				{"label": "Groceries", "amount": 650},
				{"label": "Utilities", "amount": 220},
				{"label": "Transport", "amount": 300}
			]
		}`),
	},
}

// Scenarios lists the scenario catalog.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// FindScenario returns the scenario with the given ID.
func FindScenario(id string) (Scenario, error) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, id)
}

// RunScenario runs a scenario's calculator with its stored input.
func (f *CalculatorFactory) RunScenario(id string) (*Outcome, error) {
	s, err := FindScenario(id)
	if err != nil {
		return nil, err
	}
	return f.Run(s.Kind, s.Input)
}
