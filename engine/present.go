package engine

// Figure is one labelled, formatted output value ("Monthly Payment",
// "$1199.10").
type Figure struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Presentable is implemented by every calculator result so that the API,
// the CLI and the PDF report can render it without knowing its type.
type Presentable interface {
	Figures() []Figure
	Charts() []Chart
}

// Scheduled is implemented by results that carry an amortization table.
type Scheduled interface {
	AmortizationSchedule() Schedule
}
