/*
engine_test.go - Behavioural tests for the calculation engine

ORGANIZATION:
  1. Amortization - payment formula, schedule shape, zero rate, clamping
  2. Payoff solver - ceiling, unpayable, monotonicity
  3. Accumulation - timing, totals
  4. Inflation - round trip, validation

Each test has GIVEN/WHEN/THEN comments describing the scenario.
*/
package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-engine/engine"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want float64, got decimal.Decimal, tolerance float64) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), tolerance, "got %s", got.String())
}

func mortgageTerms() engine.LoanTerms {
	return engine.LoanTerms{
		Principal:    dec("200000"),
		PeriodicRate: dec("0.005"),
		Periods:      360,
	}
}

// =============================================================================
// 1: AMORTIZATION
// =============================================================================

func TestGenerateSchedule_StandardMortgage(t *testing.T) {
	// GIVEN: $200,000 at 0.5% per month over 360 months
	// WHEN: generating the schedule
	// THEN: payment ≈ 1199.10, total interest ≈ 231676.38, 360 entries

	sched, err := engine.GenerateSchedule(mortgageTerms())
	require.NoError(t, err)

	assertMoney(t, 1199.10, sched.Payment, 0.005)
	assertMoney(t, 231676.38, sched.Summary.TotalInterest, 0.5)
	assert.Len(t, sched.Entries, 360)
	assert.Equal(t, 360, sched.Summary.PeriodCount)
}

func TestGenerateSchedule_EntriesAreContiguousAndClose(t *testing.T) {
	// GIVEN: a standard mortgage schedule
	// THEN: each entry opens where the previous one closed,
	//       closing = opening - principal, and the last entry closes at zero

	sched, err := engine.GenerateSchedule(mortgageTerms())
	require.NoError(t, err)

	for i, e := range sched.Entries {
		assert.Equal(t, i+1, e.Index)
		assert.True(t, e.ClosingBalance.Equal(e.OpeningBalance.Sub(e.PrincipalPortion)),
			"period %d: closing %s != opening %s - principal %s",
			e.Index, e.ClosingBalance, e.OpeningBalance, e.PrincipalPortion)
		assert.False(t, e.ClosingBalance.IsNegative(), "period %d closes negative", e.Index)
		if i > 0 {
			assert.True(t, e.OpeningBalance.Equal(sched.Entries[i-1].ClosingBalance))
		}
	}

	last, ok := sched.Final()
	require.True(t, ok)
	assert.True(t, last.ClosingBalance.IsZero(), "final closing balance %s", last.ClosingBalance)
}

func TestGenerateSchedule_PrincipalPortionsSumToPrincipal(t *testing.T) {
	cases := []engine.LoanTerms{
		mortgageTerms(),
		{Principal: dec("10000"), PeriodicRate: decimal.Zero, Periods: 24},
		{Principal: dec("5000"), PeriodicRate: dec("0.0125"), Periods: 36},
		{Principal: dec("123456.78"), PeriodicRate: dec("0.0054166666666667"), Periods: 180},
	}
	for _, terms := range cases {
		sched, err := engine.GenerateSchedule(terms)
		require.NoError(t, err)

		var principal []decimal.Decimal
		for _, e := range sched.Entries {
			principal = append(principal, e.PrincipalPortion)
		}
		assert.True(t, engine.Sum(principal...).Equal(terms.Principal),
			"principal portions sum to %s, want %s", engine.Sum(principal...), terms.Principal)
		assert.True(t, sched.Summary.TotalPrincipal.Equal(terms.Principal))
	}
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	// GIVEN: $10,000 at 0% over 24 periods
	// THEN: payment = 10000/24, every interest portion is zero, 24 entries

	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    dec("10000"),
		PeriodicRate: decimal.Zero,
		Periods:      24,
	})
	require.NoError(t, err)

	assertMoney(t, 416.6666667, sched.Payment, 1e-6)
	assert.Len(t, sched.Entries, 24)
	for _, e := range sched.Entries {
		assert.True(t, e.InterestPortion.IsZero())
	}
	assert.True(t, sched.Summary.TotalInterest.IsZero())
	assert.True(t, sched.Summary.TotalPaid.Equal(dec("10000")))
}

func TestGenerateSchedule_SinglePeriod(t *testing.T) {
	// GIVEN: a one-period loan
	// THEN: the single payment is principal plus one period of interest

	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    dec("1000"),
		PeriodicRate: dec("0.01"),
		Periods:      1,
	})
	require.NoError(t, err)

	require.Len(t, sched.Entries, 1)
	assertMoney(t, 1010, sched.Payment, 1e-9)
	assert.True(t, sched.Entries[0].ClosingBalance.IsZero())
	assertMoney(t, 10, sched.Summary.TotalInterest, 1e-9)
}

func TestGenerateSchedule_SummaryMatchesEntries(t *testing.T) {
	sched, err := engine.GenerateSchedule(mortgageTerms())
	require.NoError(t, err)

	recomputed := engine.Summarize(sched.Entries)
	assert.True(t, recomputed.TotalInterest.Equal(sched.Summary.TotalInterest))
	assert.True(t, recomputed.TotalPrincipal.Equal(sched.Summary.TotalPrincipal))
	assert.True(t, recomputed.TotalPaid.Equal(sched.Summary.TotalPaid))
	assert.Equal(t, recomputed.PeriodCount, sched.Summary.PeriodCount)
}

func TestGenerateSchedule_InvalidInput(t *testing.T) {
	cases := map[string]engine.LoanTerms{
		"zero principal":     {Principal: decimal.Zero, PeriodicRate: dec("0.01"), Periods: 12},
		"negative principal": {Principal: dec("-1"), PeriodicRate: dec("0.01"), Periods: 12},
		"negative rate":      {Principal: dec("1000"), PeriodicRate: dec("-0.01"), Periods: 12},
		"zero periods":       {Principal: dec("1000"), PeriodicRate: dec("0.01"), Periods: 0},
		"too many periods":   {Principal: dec("1000"), PeriodicRate: dec("0.01"), Periods: engine.MaxPeriods + 1},
		"overflowed periods": {Principal: dec("1000"), PeriodicRate: dec("0.01"), Periods: 1 << 40},
	}
	for name, terms := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := engine.GenerateSchedule(terms)
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrInvalidInput)
			assert.True(t, engine.IsClientError(err))

			var ie *engine.InputError
			assert.True(t, errors.As(err, &ie))
			assert.NotEmpty(t, ie.Field)
		})
	}
}

func TestAmortizeWithPayment_NonAmortizing(t *testing.T) {
	// GIVEN: $1000 at 1% per period with a payment equal to the interest
	// WHEN: running a fixed-term table
	// THEN: NonAmortizing, reported at period 1

	_, err := engine.AmortizeWithPayment(engine.LoanTerms{
		Principal:    dec("1000"),
		PeriodicRate: dec("0.01"),
		Periods:      12,
	}, dec("10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNonAmortizing)

	var nae *engine.NonAmortizingError
	require.True(t, errors.As(err, &nae))
	assert.Equal(t, 1, nae.Period)
}

func TestAmortizeWithPayment_FinalPeriodAbsorbsBalloon(t *testing.T) {
	// GIVEN: a payment too small to retire the loan in 12 periods
	// THEN: the 12th period pays off everything left

	sched, err := engine.AmortizeWithPayment(engine.LoanTerms{
		Principal:    dec("1200"),
		PeriodicRate: decimal.Zero,
		Periods:      12,
	}, dec("50"))
	require.NoError(t, err)

	require.Len(t, sched.Entries, 12)
	last, _ := sched.Final()
	assertMoney(t, 650, last.PrincipalPortion, 1e-9)
	assert.True(t, last.ClosingBalance.IsZero())
}

func TestAmortizeWithPayment_OverpaymentClampsPrincipal(t *testing.T) {
	// GIVEN: a payment larger than the whole balance plus interest
	// THEN: one entry, principal clamped to the opening balance

	sched, err := engine.AmortizeWithPayment(engine.LoanTerms{
		Principal:    dec("500"),
		PeriodicRate: dec("0.01"),
		Periods:      12,
	}, dec("10000"))
	require.NoError(t, err)

	require.Len(t, sched.Entries, 1)
	assert.True(t, sched.Entries[0].PrincipalPortion.Equal(dec("500")))
	assert.True(t, sched.Entries[0].Payment.Equal(dec("505")))
}

// =============================================================================
// 2: PAYOFF SOLVER
// =============================================================================

func TestSolvePayoffTime_PaymentBelowInterestIsUnpayable(t *testing.T) {
	// GIVEN: $1000 at 1% (interest $10) and a $9.99 payment
	// THEN: Unpayable immediately

	_, err := engine.SolvePayoffTime(dec("1000"), dec("0.01"), dec("9.99"))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUnpayable)

	var ue *engine.UnpayableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 0, ue.Periods)
}

func TestSolvePayoffTime_PaymentEqualToInterestIsUnpayable(t *testing.T) {
	_, err := engine.SolvePayoffTime(dec("1000"), dec("0.01"), dec("10"))
	assert.ErrorIs(t, err, engine.ErrUnpayable)
}

func TestSolvePayoffTime_CeilingReached(t *testing.T) {
	// GIVEN: a payment a hair above interest
	// THEN: the balance is still positive after 1200 periods, so Unpayable

	_, err := engine.SolvePayoffTime(dec("100000"), dec("0.01"), dec("1000.001"))
	require.Error(t, err)

	var ue *engine.UnpayableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, engine.MaxPayoffPeriods, ue.Periods)
}

func TestSolvePayoffTime_TotalsAreConsistent(t *testing.T) {
	summary, err := engine.SolvePayoffTime(dec("5000"), dec("0.015"), dec("150"))
	require.NoError(t, err)

	assert.True(t, summary.TotalPaid.Equal(dec("5000").Add(summary.TotalInterest)))
	assert.True(t, summary.TotalPrincipal.Equal(dec("5000")))
	assert.Greater(t, summary.PeriodCount, 0)
	assert.LessOrEqual(t, summary.PeriodCount, engine.MaxPayoffPeriods)
}

func TestSolvePayoffTime_ZeroRate(t *testing.T) {
	summary, err := engine.SolvePayoffTime(dec("1000"), decimal.Zero, dec("100"))
	require.NoError(t, err)

	assert.Equal(t, 10, summary.PeriodCount)
	assert.True(t, summary.TotalInterest.IsZero())
}

func TestSolvePayoffTime_LargerPaymentIsNeverWorse(t *testing.T) {
	// GIVEN: the same balance and rate
	// WHEN: the payment increases
	// THEN: periods and total interest never increase

	balance, rate := dec("8000"), dec("0.0183333333333333")
	prev, err := engine.SolvePayoffTime(balance, rate, dec("200"))
	require.NoError(t, err)

	for _, p := range []string{"250", "300", "450", "800", "2000", "9000"} {
		next, err := engine.SolvePayoffTime(balance, rate, dec(p))
		require.NoError(t, err)
		assert.LessOrEqual(t, next.PeriodCount, prev.PeriodCount, "payment %s", p)
		assert.True(t, next.TotalInterest.LessThanOrEqual(prev.TotalInterest), "payment %s", p)
		prev = next
	}
}

func TestPayoffSchedule_EndsAtZero(t *testing.T) {
	sched, err := engine.PayoffSchedule(dec("2500"), dec("0.02"), dec("100"))
	require.NoError(t, err)

	last, ok := sched.Final()
	require.True(t, ok)
	assert.True(t, last.ClosingBalance.IsZero())
	assert.Len(t, sched.Entries, sched.Summary.PeriodCount)
}

func TestComparePayoff_ExtraPaymentSaves(t *testing.T) {
	cmp, err := engine.ComparePayoff(dec("5000"), dec("0.015"), dec("150"), dec("100"))
	require.NoError(t, err)

	assert.False(t, cmp.BaselineUnpayable)
	assert.True(t, cmp.InterestSaved.IsPositive())
	assert.Greater(t, cmp.PeriodsSaved, 0)
	assert.True(t, cmp.InterestSaved.Equal(
		cmp.Baseline.TotalInterest.Sub(cmp.Accelerated.TotalInterest)))
}

func TestComparePayoff_UnpayableBaseline(t *testing.T) {
	// GIVEN: a baseline payment under the first-period interest
	// AND: an extra payment that makes it payable
	// THEN: comparison succeeds with BaselineUnpayable set

	cmp, err := engine.ComparePayoff(dec("1000"), dec("0.01"), dec("5"), dec("50"))
	require.NoError(t, err)

	assert.True(t, cmp.BaselineUnpayable)
	assert.True(t, cmp.InterestSaved.IsZero())
	assert.Greater(t, cmp.Accelerated.PeriodCount, 0)
}

func TestComparePayoff_BothUnpayable(t *testing.T) {
	_, err := engine.ComparePayoff(dec("1000"), dec("0.01"), dec("2"), dec("3"))
	assert.ErrorIs(t, err, engine.ErrUnpayable)
}

// =============================================================================
// 3: ACCUMULATION
// =============================================================================

func TestAccumulate_AnnuityDueExceedsOrdinary(t *testing.T) {
	// GIVEN: identical contributions and positive rate
	// THEN: start-of-period timing ends strictly higher

	due, err := engine.AnnuityFutureValue(dec("100"), dec("0.005"), 120, engine.StartOfPeriod)
	require.NoError(t, err)
	ordinary, err := engine.AnnuityFutureValue(dec("100"), dec("0.005"), 120, engine.EndOfPeriod)
	require.NoError(t, err)

	assert.True(t, due.EndingBalance.GreaterThan(ordinary.EndingBalance))
	// FV due = FV ordinary · (1+r)
	assertMoney(t, ordinary.EndingBalance.Mul(dec("1.005")).InexactFloat64(), due.EndingBalance, 1e-4)
	// FV ordinary = PMT·((1+r)^n − 1)/r = 16387.93
	assertMoney(t, 16387.93, ordinary.EndingBalance, 0.01)
}

func TestAccumulate_ZeroRate(t *testing.T) {
	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       dec("1000"),
		PeriodicContribution: dec("50"),
		PeriodicRate:         decimal.Zero,
		Periods:              10,
		Timing:               engine.EndOfPeriod,
	})
	require.NoError(t, err)

	assert.True(t, res.EndingBalance.Equal(dec("1500")))
	assert.True(t, res.TotalPrincipal.Equal(dec("1500")))
	assert.True(t, res.TotalInterest.IsZero())
	assert.Len(t, res.Balances, 10)
}

func TestAccumulate_OpeningBalanceCompounds(t *testing.T) {
	// GIVEN: $1000 at 5% for 10 years, no contributions
	// THEN: 1000·1.05^10 = 1628.89

	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       dec("1000"),
		PeriodicContribution: decimal.Zero,
		PeriodicRate:         dec("0.05"),
		Periods:              10,
		Timing:               engine.StartOfPeriod,
	})
	require.NoError(t, err)

	assertMoney(t, 1628.89, res.EndingBalance, 0.005)
	assertMoney(t, 628.89, res.TotalInterest, 0.005)
}

func TestAccumulate_RequiresExplicitTiming(t *testing.T) {
	_, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance: dec("1000"),
		PeriodicRate:   dec("0.01"),
		Periods:        12,
	})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestAccumulate_PeriodCeiling(t *testing.T) {
	// GIVEN: A century of daily compounding, the longest accepted horizon
	terms := engine.AccumulationTerms{
		OpeningBalance: dec("1000"),
		PeriodicRate:   dec("0.0001"),
		Periods:        engine.MaxPeriods,
		Timing:         engine.EndOfPeriod,
	}

	// WHEN: Accumulating at and one past the ceiling
	res, err := engine.Accumulate(terms)
	require.NoError(t, err)
	assert.Len(t, res.Balances, engine.MaxPeriods)

	terms.Periods = engine.MaxPeriods + 1
	_, err = engine.Accumulate(terms)

	// THEN: Only the ceiling itself is accepted
	require.ErrorIs(t, err, engine.ErrInvalidInput)
	var ie *engine.InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "periods", ie.Field)
}

func TestRequiredContribution_ReachesTarget(t *testing.T) {
	// GIVEN: a $50,000 target in 60 months at 0.4%/month with $5,000 saved
	// WHEN: solving the monthly contribution
	// THEN: accumulating with it lands on the target

	target, opening, rate := dec("50000"), dec("5000"), dec("0.004")
	pmt, err := engine.RequiredContribution(target, opening, rate, 60, engine.EndOfPeriod)
	require.NoError(t, err)
	require.True(t, pmt.IsPositive())

	res, err := engine.Accumulate(engine.AccumulationTerms{
		OpeningBalance:       opening,
		PeriodicContribution: pmt,
		PeriodicRate:         rate,
		Periods:              60,
		Timing:               engine.EndOfPeriod,
	})
	require.NoError(t, err)
	assertMoney(t, 50000, res.EndingBalance, 0.01)
}

func TestRequiredContribution_AlreadyFunded(t *testing.T) {
	pmt, err := engine.RequiredContribution(dec("1000"), dec("2000"), dec("0.01"), 12, engine.EndOfPeriod)
	require.NoError(t, err)
	assert.True(t, pmt.IsZero())
}

// =============================================================================
// 4: INFLATION
// =============================================================================

func TestInflation_RoundTrip(t *testing.T) {
	cases := []struct {
		amount string
		rate   string
		years  int
	}{
		{"1000", "0.03", 10},
		{"250000", "0.025", 30},
		{"99.99", "-0.02", 5},
		{"1", "0", 40},
	}
	for _, c := range cases {
		future, err := engine.ToFutureCost(dec(c.amount), dec(c.rate), c.years)
		require.NoError(t, err)
		back, err := engine.ToRealValue(future, dec(c.rate), c.years)
		require.NoError(t, err)
		assertMoney(t, dec(c.amount).InexactFloat64(), back, 1e-9)
	}
}

func TestInflation_KnownValue(t *testing.T) {
	future, err := engine.ToFutureCost(dec("1000"), dec("0.03"), 10)
	require.NoError(t, err)
	assertMoney(t, 1343.92, future, 0.005)

	worth, err := engine.ToRealValue(dec("1000"), dec("0.03"), 10)
	require.NoError(t, err)
	assertMoney(t, 744.09, worth, 0.005)
}

func TestInflation_RateMustExceedMinusOne(t *testing.T) {
	_, err := engine.ToRealValue(dec("1000"), dec("-1"), 10)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	_, err = engine.ToFutureCost(dec("1000"), dec("0.03"), -1)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestInflation_YearsCeiling(t *testing.T) {
	_, err := engine.ToFutureCost(dec("1000"), dec("0.03"), engine.MaxPeriods+1)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	_, err = engine.ToRealValue(dec("1000"), dec("0.03"), 100000000)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}
