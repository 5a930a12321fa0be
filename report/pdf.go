package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/warp/finance-engine/engine"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	rowHeight = 6.0
	// rows stop here; below it the next row starts a new page
	tableBottom = 297.0 - marginBottom - rowHeight
)

var columnWidths = []float64{20, 32, 30, 30, 30, 38}

// scheduleReport draws a schedule onto an A4 document.
type scheduleReport struct {
	pdf     *fpdf.Fpdf
	title   string
	figures []engine.Figure
	sched   engine.Schedule
	now     time.Time
}

// WriteSchedulePDF renders title, figures and the full schedule table.
// The table header is repeated at the top of every page.
func WriteSchedulePDF(w io.Writer, title string, s engine.Schedule, figures []engine.Figure) error {
	r := &scheduleReport{
		pdf:     fpdf.New("P", "mm", "A4", ""),
		title:   title,
		figures: figures,
		sched:   s,
		now:     time.Now(),
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(false, marginBottom)
	r.pdf.SetFooterFunc(r.footer)
	r.pdf.AliasNbPages("")

	r.pdf.AddPage()
	r.addTitle()
	r.addFigures()
	r.addTable()

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func (r *scheduleReport) addTitle() {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, r.title, "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", r.now.Format("2 January 2006")), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *scheduleReport) addFigures() {
	if len(r.figures) == 0 {
		return
	}
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetTextColor(50, 50, 50)

	labelWidth := contentWidth * 0.6
	for _, f := range r.figures {
		r.pdf.SetFont("Arial", "", 11)
		r.pdf.CellFormat(labelWidth, 7, f.Label, "1", 0, "L", true, 0, "")
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.CellFormat(contentWidth-labelWidth, 7, f.Value, "1", 1, "R", true, 0, "")
	}
	r.pdf.Ln(6)
}

func (r *scheduleReport) addHeaderRow() {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)
	for i, col := range Columns {
		r.pdf.CellFormat(columnWidths[i], rowHeight+1, col, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *scheduleReport) addTable() {
	r.addHeaderRow()

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetDrawColor(220, 220, 220)
	for i, e := range r.sched.Entries {
		if r.pdf.GetY() > tableBottom {
			r.pdf.AddPage()
			r.addHeaderRow()
			r.pdf.SetFont("Arial", "", 9)
			r.pdf.SetDrawColor(220, 220, 220)
		}
		r.setStripe(i)
		for j, cell := range row(e, currency) {
			align := "R"
			if j == 0 {
				align = "C"
			}
			r.pdf.CellFormat(columnWidths[j], rowHeight, cell, "1", 0, align, true, 0, "")
		}
		r.pdf.Ln(-1)
	}

	if r.pdf.GetY() > tableBottom {
		r.pdf.AddPage()
	}
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(230, 236, 245)
	r.pdf.SetTextColor(0, 51, 102)
	totals := []string{
		"Total",
		"",
		engine.FormatCurrency(r.sched.Summary.TotalPaid),
		engine.FormatCurrency(r.sched.Summary.TotalInterest),
		engine.FormatCurrency(r.sched.Summary.TotalPrincipal),
		"",
	}
	for j, cell := range totals {
		r.pdf.CellFormat(columnWidths[j], rowHeight, cell, "1", 0, "R", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *scheduleReport) setStripe(i int) {
	r.pdf.SetTextColor(50, 50, 50)
	if i%2 == 0 {
		r.pdf.SetFillColor(255, 255, 255)
	} else {
		r.pdf.SetFillColor(248, 248, 248)
	}
}

func (r *scheduleReport) footer() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", r.pdf.PageNo()), "", 0, "C", false, 0, "")
}

// currency re-parses a fixed-point amount so the table matches the
// formatting used by the API figures.
func currency(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return engine.FormatCurrency(d)
}
