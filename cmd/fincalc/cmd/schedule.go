package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/finance-engine/engine"
	"github.com/warp/finance-engine/report"
)

type scheduleOptions struct {
	amount  string
	rate    string
	years   int
	csvPath string
	pdfPath string
	rows    int
}

func newScheduleCmd() *cobra.Command {
	var opts scheduleOptions

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print or export a monthly amortization schedule",
		Long: `Build the monthly amortization schedule of a fixed-rate loan.

Examples:
  fincalc schedule --amount 200000 --rate 6 --years 30
  fincalc schedule --amount 25000 --rate 7.5 --years 5 --csv car.csv --pdf car.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.amount, "amount", "", "Amount borrowed")
	cmd.Flags().StringVar(&opts.rate, "rate", "", "Annual interest rate in percent")
	cmd.Flags().IntVar(&opts.years, "years", 0, "Term in years")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write the schedule as CSV to this file")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "Write the schedule as PDF to this file")
	cmd.Flags().IntVar(&opts.rows, "rows", 12, "Periods to print (0 prints all)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("rate")
	cmd.MarkFlagRequired("years")
	return cmd
}

func runSchedule(cmd *cobra.Command, opts scheduleOptions) error {
	amount, err := decimal.NewFromString(opts.amount)
	if err != nil {
		return engine.Invalid("amount", "must be a number")
	}
	rate, err := decimal.NewFromString(opts.rate)
	if err != nil {
		return engine.Invalid("rate", "must be a number")
	}
	if rate.IsNegative() {
		return engine.Invalid("rate", "cannot be negative")
	}
	if err := engine.Years("years", opts.years); err != nil {
		return err
	}

	sched, err := engine.GenerateSchedule(engine.LoanTerms{
		Principal:    amount,
		PeriodicRate: engine.RateFromPercent(rate, engine.Monthly),
		Periods:      opts.years * int(engine.Monthly),
	})
	if err != nil {
		return err
	}

	figures := []engine.Figure{
		{Label: "Monthly Payment", Value: engine.FormatCurrency(sched.Payment)},
		{Label: "Total Interest", Value: engine.FormatCurrency(sched.Summary.TotalInterest)},
		{Label: "Total Paid", Value: engine.FormatCurrency(sched.Summary.TotalPaid)},
		{Label: "Loan Duration", Value: engine.FormatDuration(sched.Summary.PeriodCount)},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderFigures("Amortization Schedule", figures))

	entries := sched.Entries
	if opts.rows > 0 && len(entries) > opts.rows {
		entries = entries[:opts.rows]
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			engine.FormatCurrency(e.OpeningBalance),
			engine.FormatCurrency(e.Payment),
			engine.FormatCurrency(e.InterestPortion),
			engine.FormatCurrency(e.PrincipalPortion),
			engine.FormatCurrency(e.ClosingBalance),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, renderTable(report.Columns, rows))
	if len(entries) < len(sched.Entries) {
		fmt.Fprintln(out, subtitleStyle.Render(fmt.Sprintf("... %d more periods", len(sched.Entries)-len(entries))))
	}

	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, func(f *os.File) error {
			return report.WriteScheduleCSV(f, sched)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "CSV written to %s\n", opts.csvPath)
	}
	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, func(f *os.File) error {
			return report.WriteSchedulePDF(f, "Amortization Schedule", sched, figures)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "PDF written to %s\n", opts.pdfPath)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
