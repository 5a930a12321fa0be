package engine

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is a number of compounding (or payment) periods per year.
type Frequency int

const (
	Annually  Frequency = 1
	Quarterly Frequency = 4
	Monthly   Frequency = 12
	Daily     Frequency = 365
)

var frequencyNames = map[string]Frequency{
	"annually":  Annually,
	"annual":    Annually,
	"yearly":    Annually,
	"quarterly": Quarterly,
	"monthly":   Monthly,
	"daily":     Daily,
}

// ParseFrequency accepts a name ("monthly") or a count ("12").
func ParseFrequency(s string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := frequencyNames[key]; ok {
		return f, nil
	}
	if n, err := strconv.Atoi(key); err == nil && Frequency(n).Valid() {
		return Frequency(n), nil
	}
	return 0, invalid("frequency", "must be annually, quarterly, monthly or daily")
}

func (f Frequency) String() string {
	switch f {
	case Annually:
		return "annually"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	case Daily:
		return "daily"
	}
	return "unknown"
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	return f == Annually || f == Quarterly || f == Monthly || f == Daily
}

// RateFromPercent converts an annual percentage (6.5) into the rate per
// period at frequency f.
func RateFromPercent(annualPercent decimal.Decimal, f Frequency) decimal.Decimal {
	return annualPercent.Div(hundred).Div(decimal.NewFromInt(int64(f)))
}

// PercentToRate converts a percentage (3.2) into a fraction (0.032).
func PercentToRate(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// UnmarshalJSON accepts either a name ("quarterly") or a count (4).
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return invalid("frequency", "must be a name or a number of periods per year")
		}
		s = strconv.Itoa(n)
	}
	parsed, err := ParseFrequency(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalJSON writes the frequency name.
func (f Frequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}
