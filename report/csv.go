package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/warp/finance-engine/engine"
)

// WriteScheduleCSV writes the header row followed by one row per entry and
// a closing totals row.
func WriteScheduleCSV(w io.Writer, s engine.Schedule) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range s.Entries {
		if err := cw.Write(row(e, plain)); err != nil {
			return fmt.Errorf("failed to write period %d: %w", e.Index, err)
		}
	}
	totals := []string{
		"Total",
		"",
		s.Summary.TotalPaid.StringFixed(2),
		s.Summary.TotalInterest.StringFixed(2),
		s.Summary.TotalPrincipal.StringFixed(2),
		"",
	}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("failed to write csv totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
