/*
Package report exports amortization schedules as CSV and PDF.

PURPOSE:
  A saved calculation that carries a schedule (mortgage, amortization,
  payoff plans) can be downloaded as a spreadsheet-friendly CSV or as a
  printable A4 PDF with the headline figures above the table.

COLUMNS:
  Period, Opening Balance, Payment, Interest, Principal, Closing Balance.
  Amounts are written with two decimals and no currency symbol in CSV,
  and as formatted currency in PDF.

SEE ALSO:
  - engine/types.go: Schedule and PaymentScheduleEntry
  - api/handlers.go: /api/calculations/{id}/schedule.{csv|pdf}
*/
package report

import (
	"strconv"

	"github.com/warp/finance-engine/engine"
)

// Columns is the header row shared by both formats.
var Columns = []string{
	"Period",
	"Opening Balance",
	"Payment",
	"Interest",
	"Principal",
	"Closing Balance",
}

// row renders one entry with format applied to every amount.
func row(e engine.PaymentScheduleEntry, format func(string) string) []string {
	return []string{
		strconv.Itoa(e.Index),
		format(e.OpeningBalance.StringFixed(2)),
		format(e.Payment.StringFixed(2)),
		format(e.InterestPortion.StringFixed(2)),
		format(e.PrincipalPortion.StringFixed(2)),
		format(e.ClosingBalance.StringFixed(2)),
	}
}

func plain(s string) string { return s }
