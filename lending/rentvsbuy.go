package lending

import (
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

// RentVsBuyInput compares renting with buying the same home over Years.
// Percentages (annual_rate, rent_increase, appreciation) are annual.
type RentVsBuyInput struct {
	Years             int             `json:"years"`
	MonthlyRent       decimal.Decimal `json:"monthly_rent"`
	RentIncrease      decimal.Decimal `json:"rent_increase"`
	HomePrice         decimal.Decimal `json:"home_price"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	TermYears         int             `json:"term_years"`
	ClosingCosts      decimal.Decimal `json:"closing_costs"`
	PropertyTaxAnnual decimal.Decimal `json:"property_tax_annual"`
	InsuranceAnnual   decimal.Decimal `json:"insurance_annual"`
	HOAMonthly        decimal.Decimal `json:"hoa_monthly"`
	MaintenanceAnnual decimal.Decimal `json:"maintenance_annual"`
	Appreciation      decimal.Decimal `json:"appreciation"`
}

func (in RentVsBuyInput) Validate() error {
	if err := engine.FirstError(
		engine.Years("years", in.Years),
		engine.Positive("monthly_rent", in.MonthlyRent),
		engine.NonNegative("rent_increase", in.RentIncrease),
		engine.Positive("home_price", in.HomePrice),
		engine.NonNegative("down_payment", in.DownPayment),
		engine.NonNegative("annual_rate", in.AnnualRate),
		engine.Years("term_years", in.TermYears),
		engine.NonNegative("closing_costs", in.ClosingCosts),
		engine.NonNegative("property_tax_annual", in.PropertyTaxAnnual),
		engine.NonNegative("insurance_annual", in.InsuranceAnnual),
		engine.NonNegative("hoa_monthly", in.HOAMonthly),
		engine.NonNegative("maintenance_annual", in.MaintenanceAnnual),
	); err != nil {
		return err
	}
	if in.DownPayment.GreaterThanOrEqual(in.HomePrice) {
		return engine.Invalid("down_payment", "must be less than home_price")
	}
	if in.Appreciation.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return engine.Invalid("appreciation", "must be greater than -100")
	}
	return nil
}

var pmiCutoff = decimal.RequireFromString("0.80")

// Recommendation is the cheaper option over the horizon.
type Recommendation string

const (
	RecommendRent Recommendation = "rent"
	RecommendBuy  Recommendation = "buy"
)

// RentVsBuyResult holds both sides of the comparison.
type RentVsBuyResult struct {
	TotalRent         decimal.Decimal `json:"total_rent"`
	MonthlyMortgage   decimal.Decimal `json:"monthly_mortgage"`
	MonthlyPMI        decimal.Decimal `json:"monthly_pmi"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	PMIPaid           decimal.Decimal `json:"pmi_paid"`
	OwnershipCosts    decimal.Decimal `json:"ownership_costs"`
	UpfrontCosts      decimal.Decimal `json:"upfront_costs"`
	TotalBuyingOutlay decimal.Decimal `json:"total_buying_outlay"`
	HomeValue         decimal.Decimal `json:"home_value"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
	Equity            decimal.Decimal `json:"equity"`
	NetBuyingCost     decimal.Decimal `json:"net_buying_cost"`
	Difference        decimal.Decimal `json:"difference"`
	Recommendation    Recommendation  `json:"recommendation"`
}

// RentVsBuy totals what renting costs over the horizon and what owning
// costs net of the equity built. PMI is charged while the balance is above
// 80% of the purchase price.
func RentVsBuy(in RentVsBuyInput) (*RentVsBuyResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res := &RentVsBuyResult{TotalRent: decimal.Zero}

	rentGrowth := engine.PercentToRate(in.RentIncrease)
	annualRent := in.MonthlyRent.Mul(monthsPerYearD)
	for y := 0; y < in.Years; y++ {
		yearRent, err := engine.ToFutureCost(annualRent, rentGrowth, y)
		if err != nil {
			return nil, err
		}
		res.TotalRent = res.TotalRent.Add(yearRent)
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
	res.MonthlyMortgage = sched.Payment
	res.MonthlyPMI = MonthlyPMI(in.HomePrice, in.DownPayment, principal)

	held := in.Years * monthsPerYear
	owned := sched.Entries
	if len(owned) > held {
		owned = owned[:held]
	}
	paid := engine.Summarize(owned)
	res.InterestPaid = paid.TotalInterest
	res.PrincipalPaid = paid.TotalPrincipal
	res.RemainingBalance = principal.Sub(paid.TotalPrincipal)

	res.PMIPaid = decimal.Zero
	if res.MonthlyPMI.IsPositive() {
		cutoff := in.HomePrice.Mul(pmiCutoff)
		for _, e := range owned {
			if e.OpeningBalance.LessThanOrEqual(cutoff) {
				break
			}
			res.PMIPaid = res.PMIPaid.Add(res.MonthlyPMI)
		}
	}

	yearsD := decimal.NewFromInt(int64(in.Years))
	res.OwnershipCosts = engine.Sum(
		in.PropertyTaxAnnual,
		in.InsuranceAnnual,
		in.MaintenanceAnnual,
		in.HOAMonthly.Mul(monthsPerYearD),
	).Mul(yearsD)
	res.UpfrontCosts = in.DownPayment.Add(in.ClosingCosts)
	res.TotalBuyingOutlay = engine.Sum(
		res.UpfrontCosts,
		paid.TotalPaid,
		res.PMIPaid,
		res.OwnershipCosts,
	)

	res.HomeValue, err = engine.ToFutureCost(in.HomePrice, engine.PercentToRate(in.Appreciation), in.Years)
	if err != nil {
		return nil, err
	}
	res.Equity = res.HomeValue.Sub(res.RemainingBalance)
	res.NetBuyingCost = res.TotalBuyingOutlay.Sub(res.Equity)

	res.Difference = res.TotalRent.Sub(res.NetBuyingCost).Abs()
	res.Recommendation = RecommendRent
	if res.NetBuyingCost.LessThan(res.TotalRent) {
		res.Recommendation = RecommendBuy
	}
	return res, nil
}

func (r *RentVsBuyResult) Figures() []engine.Figure {
	verdict := "Renting is cheaper"
	if r.Recommendation == RecommendBuy {
		verdict = "Buying is cheaper"
	}
	return []engine.Figure{
		{Label: "Total Cost of Renting", Value: engine.FormatCurrency(r.TotalRent)},
		{Label: "Monthly Mortgage Payment", Value: engine.FormatCurrency(r.MonthlyMortgage)},
		{Label: "Monthly PMI", Value: engine.FormatCurrency(r.MonthlyPMI)},
		{Label: "Total Buying Outlay", Value: engine.FormatCurrency(r.TotalBuyingOutlay)},
		{Label: "Home Value at Horizon", Value: engine.FormatCurrency(r.HomeValue)},
		{Label: "Equity", Value: engine.FormatCurrency(r.Equity)},
		{Label: "Net Cost of Buying", Value: engine.FormatCurrency(r.NetBuyingCost)},
		{Label: "Recommendation", Value: verdict},
		{Label: "Difference", Value: engine.FormatCurrency(r.Difference)},
	}
}

func (r *RentVsBuyResult) Charts() []engine.Chart {
	return []engine.Chart{
		{
			Kind:   engine.ChartBar,
			Title:  "Rent vs Buy",
			Labels: []string{"Renting", "Buying (net)"},
			Series: []engine.Series{{
				Label:  "Total Cost",
				Values: []decimal.Decimal{r.TotalRent.Round(2), r.NetBuyingCost.Round(2)},
			}},
		},
		engine.BreakdownChart("Buying Outlay",
			engine.Slice{Label: "Down Payment & Closing", Value: r.UpfrontCosts},
			engine.Slice{Label: "Interest", Value: r.InterestPaid},
			engine.Slice{Label: "Principal", Value: r.PrincipalPaid},
			engine.Slice{Label: "PMI", Value: r.PMIPaid},
			engine.Slice{Label: "Taxes, Insurance, HOA & Upkeep", Value: r.OwnershipCosts},
		),
	}
}
