package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToRealValue deflates a nominal amount received years from now into
// today's purchasing power: nominal / (1+rate)^years.
func ToRealValue(nominal, annualRate decimal.Decimal, years int) (decimal.Decimal, error) {
	f, err := inflationFactor(annualRate, years)
	if err != nil {
		return decimal.Zero, err
	}
	return nominal.Div(f), nil
}

// ToFutureCost is the inverse of ToRealValue: present · (1+rate)^years.
func ToFutureCost(present, annualRate decimal.Decimal, years int) (decimal.Decimal, error) {
	f, err := inflationFactor(annualRate, years)
	if err != nil {
		return decimal.Zero, err
	}
	return present.Mul(f), nil
}

func inflationFactor(annualRate decimal.Decimal, years int) (decimal.Decimal, error) {
	if annualRate.LessThanOrEqual(one.Neg()) {
		return decimal.Zero, invalid("annual_rate", "must be greater than -100%")
	}
	if years < 0 {
		return decimal.Zero, invalid("years", "must not be negative")
	}
	if years > MaxPeriods {
		return decimal.Zero, invalid("years", fmt.Sprintf("must be at most %d", MaxPeriods))
	}
	return growthFactor(annualRate, years), nil
}
