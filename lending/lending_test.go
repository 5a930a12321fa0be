package lending_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-engine/engine"
	"github.com/warp/finance-engine/lending"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want float64, got decimal.Decimal, tolerance float64) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), tolerance, "got %s", got.String())
}

// =============================================================================
// MORTGAGE
// =============================================================================

func TestMortgage_TwentyPercentDownHasNoPMI(t *testing.T) {
	// GIVEN: $250,000 home, $50,000 down, 6% for 30 years
	// THEN: P&I ≈ 1199.10 and no PMI

	res, err := lending.Mortgage(lending.MortgageInput{
		HomePrice:   dec("250000"),
		DownPayment: dec("50000"),
		AnnualRate:  dec("6"),
		TermYears:   30,
	})
	require.NoError(t, err)

	assertMoney(t, 1199.10, res.MonthlyPrincipalInterest, 0.005)
	assert.True(t, res.MonthlyPMI.IsZero())
	assertMoney(t, 231676.38, res.TotalInterest, 0.5)
	assert.Len(t, res.Schedule.Entries, 360)
}

func TestMortgage_PITIWithPMI(t *testing.T) {
	// GIVEN: 10% down on $250,000 (principal $225,000)
	// THEN: PMI = ceil(2.25)·$100/12 = $25/month
	//       and the total adds tax, insurance and HOA

	res, err := lending.Mortgage(lending.MortgageInput{
		HomePrice:         dec("250000"),
		DownPayment:       dec("25000"),
		AnnualRate:        dec("6"),
		TermYears:         30,
		PropertyTaxAnnual: dec("3000"),
		InsuranceAnnual:   dec("1200"),
		HOAMonthly:        dec("50"),
	})
	require.NoError(t, err)

	assert.True(t, res.MonthlyPMI.Equal(dec("25")))
	assert.True(t, res.MonthlyPropertyTax.Equal(dec("250")))
	assert.True(t, res.MonthlyInsurance.Equal(dec("100")))
	want := res.MonthlyPrincipalInterest.Add(dec("425"))
	assert.True(t, res.TotalMonthlyPayment.Equal(want))

	charts := res.Charts()
	require.Len(t, charts, 2)
	assert.Equal(t, []string{"Principal & Interest", "Property Tax", "Insurance", "HOA", "PMI"}, charts[0].Labels)
}

func TestMortgage_DownPaymentMustBeBelowPrice(t *testing.T) {
	_, err := lending.Mortgage(lending.MortgageInput{
		HomePrice:   dec("100000"),
		DownPayment: dec("100000"),
		AnnualRate:  dec("5"),
		TermYears:   15,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
	assert.Contains(t, err.Error(), "down_payment")
}

func TestMonthlyPMI(t *testing.T) {
	assert.True(t, lending.MonthlyPMI(dec("300000"), dec("30000"), dec("270000")).Equal(dec("25")))
	assert.True(t, lending.MonthlyPMI(dec("300000"), dec("60000"), dec("240000")).IsZero())
	assertMoney(t, 8.33, lending.MonthlyPMI(dec("90000"), dec("0"), dec("90000")), 0.005)
}

// =============================================================================
// LOANS
// =============================================================================

func TestLoanPayment(t *testing.T) {
	res, err := lending.LoanPayment(lending.LoanPaymentInput{
		Amount:     dec("20000"),
		AnnualRate: dec("0"),
		TermMonths: 48,
	})
	require.NoError(t, err)

	assertMoney(t, 416.67, res.MonthlyPayment, 0.005)
	assert.True(t, res.TotalInterest.IsZero())
	assert.Equal(t, "$416.67", res.Figures()[0].Value)
}

func TestAmortization_TableIsExportable(t *testing.T) {
	res, err := lending.Amortization(lending.AmortizationInput{
		Amount:     dec("10000"),
		AnnualRate: dec("5"),
		TermYears:  2,
	})
	require.NoError(t, err)

	var scheduled engine.Scheduled = res
	sched := scheduled.AmortizationSchedule()
	assert.Len(t, sched.Entries, 24)
	last, _ := sched.Final()
	assert.True(t, last.ClosingBalance.IsZero())
	assertMoney(t, 438.71, sched.Payment, 0.005)
}

func TestAmortization_InvalidTerm(t *testing.T) {
	_, err := lending.Amortization(lending.AmortizationInput{
		Amount:     dec("10000"),
		AnnualRate: dec("5"),
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

// =============================================================================
// PAYOFF
// =============================================================================

func TestCreditCardPayoff_ExtraPaymentSavesInterest(t *testing.T) {
	// GIVEN: $5,000 at 18% paid $150/month, plus $100 extra
	// THEN: the extra payment finishes sooner and saves interest

	plan, err := lending.CreditCardPayoff(lending.CreditCardInput{
		Balance:        dec("5000"),
		AnnualRate:     dec("18"),
		MonthlyPayment: dec("150"),
		ExtraPayment:   dec("100"),
	})
	require.NoError(t, err)

	c := plan.Comparison
	assert.False(t, c.BaselineUnpayable)
	assert.Less(t, c.Accelerated.PeriodCount, c.Baseline.PeriodCount)
	assert.True(t, c.InterestSaved.IsPositive())
	assert.Len(t, plan.Schedule.Entries, c.Accelerated.PeriodCount)
}

func TestCreditCardPayoff_PaymentBelowInterest(t *testing.T) {
	// GIVEN: $1,000 at 12% (interest $10/month) and a $9.99 payment
	// THEN: Unpayable

	_, err := lending.CreditCardPayoff(lending.CreditCardInput{
		Balance:        dec("1000"),
		AnnualRate:     dec("12"),
		MonthlyPayment: dec("9.99"),
	})
	assert.ErrorIs(t, err, engine.ErrUnpayable)
}

func TestCreditCardPayoff_ExtraRescuesUnpayableBaseline(t *testing.T) {
	plan, err := lending.CreditCardPayoff(lending.CreditCardInput{
		Balance:        dec("1000"),
		AnnualRate:     dec("12"),
		MonthlyPayment: dec("5"),
		ExtraPayment:   dec("95"),
	})
	require.NoError(t, err)
	assert.True(t, plan.Comparison.BaselineUnpayable)
	assert.Equal(t, "Without Extra Payment", plan.Figures()[0].Label)
}

func TestDebtPayoff_MinimumMustCoverInterest(t *testing.T) {
	// GIVEN: a minimum payment under the first month's interest
	// THEN: Unpayable even though the extra would pay it off

	_, err := lending.DebtPayoff(lending.DebtInput{
		Balance:        dec("1000"),
		AnnualRate:     dec("12"),
		MinimumPayment: dec("5"),
		ExtraPayment:   dec("95"),
	})
	assert.ErrorIs(t, err, engine.ErrUnpayable)
}

func TestDebtPayoff_NoExtra(t *testing.T) {
	plan, err := lending.DebtPayoff(lending.DebtInput{
		Balance:        dec("1200"),
		AnnualRate:     dec("0"),
		MinimumPayment: dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, plan.Comparison.Baseline.PeriodCount)
	assert.Equal(t, 0, plan.Comparison.PeriodsSaved)
	assert.True(t, plan.Comparison.InterestSaved.IsZero())
}

// =============================================================================
// RENT VS BUY
// =============================================================================

func TestRentVsBuy_InterestFreeLoanBeatsRent(t *testing.T) {
	// GIVEN: 5 years at $2,000 rent, flat
	// AND: a $300,000 home with 20% down at 0% and no appreciation
	// THEN: renting costs $120,000
	//       buying costs nothing net (payments become equity)

	res, err := lending.RentVsBuy(lending.RentVsBuyInput{
		Years:       5,
		MonthlyRent: dec("2000"),
		HomePrice:   dec("300000"),
		DownPayment: dec("60000"),
		AnnualRate:  dec("0"),
		TermYears:   30,
	})
	require.NoError(t, err)

	assertMoney(t, 120000, res.TotalRent, 1e-6)
	assertMoney(t, 0, res.NetBuyingCost, 1e-6)
	assert.True(t, res.MonthlyPMI.IsZero())
	assert.Equal(t, lending.RecommendBuy, res.Recommendation)
}

func TestRentVsBuy_PMIStopsAtEightyPercent(t *testing.T) {
	// GIVEN: 10% down, 0% interest, payments of $750/month on $270,000
	// THEN: PMI is charged until the balance reaches $240,000 (40 months)

	res, err := lending.RentVsBuy(lending.RentVsBuyInput{
		Years:       10,
		MonthlyRent: dec("1500"),
		HomePrice:   dec("300000"),
		DownPayment: dec("30000"),
		AnnualRate:  dec("0"),
		TermYears:   30,
	})
	require.NoError(t, err)

	assert.True(t, res.MonthlyPMI.Equal(dec("25")))
	assertMoney(t, 40*25, res.PMIPaid, 1e-9)
}

func TestRentVsBuy_RentGrowsYearly(t *testing.T) {
	res, err := lending.RentVsBuy(lending.RentVsBuyInput{
		Years:        2,
		MonthlyRent:  dec("1000"),
		RentIncrease: dec("10"),
		HomePrice:    dec("200000"),
		DownPayment:  dec("40000"),
		AnnualRate:   dec("5"),
		TermYears:    30,
	})
	require.NoError(t, err)

	assertMoney(t, 12000+13200, res.TotalRent, 1e-9)
}
