package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ChartKind names how a chart should be drawn by whoever renders it.
type ChartKind string

const (
	ChartPie  ChartKind = "pie"
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Series is one named sequence of values aligned with a chart's labels.
type Series struct {
	Label  string            `json:"label"`
	Values []decimal.Decimal `json:"values"`
}

// Chart is render-ready chart data. It owns no drawing surface; every
// calculation produces a fresh value.
type Chart struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Series []Series  `json:"series"`
}

// Slice is one labelled part of a breakdown.
type Slice struct {
	Label string
	Value decimal.Decimal
}

// NoDataLabel labels the placeholder slice of an empty breakdown.
const NoDataLabel = "No Data"

// BreakdownChart builds a pie chart from slices, dropping any slice that is
// not positive. When nothing remains a single "No Data" slice is emitted.
func BreakdownChart(title string, slices ...Slice) Chart {
	c := Chart{Kind: ChartPie, Title: title}
	values := make([]decimal.Decimal, 0, len(slices))
	for _, s := range slices {
		if !s.Value.IsPositive() {
			continue
		}
		c.Labels = append(c.Labels, s.Label)
		values = append(values, s.Value)
	}
	if len(values) == 0 {
		c.Labels = []string{NoDataLabel}
		values = []decimal.Decimal{one}
	}
	c.Series = []Series{{Label: title, Values: values}}
	return c
}

// ScheduleChart plots the closing balance and cumulative interest of a
// schedule, sampling the first period, every 12th period and the last.
func ScheduleChart(title string, entries []PaymentScheduleEntry) Chart {
	c := Chart{Kind: ChartLine, Title: title}
	balance := Series{Label: "Remaining Balance"}
	interest := Series{Label: "Cumulative Interest"}

	cumulative := decimal.Zero
	for i, e := range entries {
		cumulative = cumulative.Add(e.InterestPortion)
		if i != 0 && e.Index%12 != 0 && i != len(entries)-1 {
			continue
		}
		c.Labels = append(c.Labels, fmt.Sprintf("Period %d", e.Index))
		balance.Values = append(balance.Values, e.ClosingBalance.Round(2))
		interest.Values = append(interest.Values, cumulative.Round(2))
	}
	c.Series = []Series{balance, interest}
	return c
}

// GrowthChart plots a series of period balances, one point per label.
func GrowthChart(title, unit string, balances []decimal.Decimal) Chart {
	c := Chart{Kind: ChartLine, Title: title}
	s := Series{Label: "Balance", Values: make([]decimal.Decimal, 0, len(balances))}
	for i, b := range balances {
		c.Labels = append(c.Labels, fmt.Sprintf("%s %d", unit, i+1))
		s.Values = append(s.Values, b.Round(2))
	}
	c.Series = []Series{s}
	return c
}
