package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/finance-engine/engine"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#1E3A8A")
	colorSecondary = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// renderFigures draws a titled box of label/value pairs.
func renderFigures(title string, figures []engine.Figure) string {
	width := 0
	for _, f := range figures {
		width = max(width, lipgloss.Width(f.Label))
	}

	lines := make([]string, 0, len(figures))
	for _, f := range figures {
		label := labelStyle.Width(width).Render(f.Label)
		lines = append(lines, label+"  "+valueStyle.Render(f.Value))
	}
	body := strings.Join(lines, "\n")
	return titleStyle.Render(title) + "\n" + boxStyle.Render(body)
}

// renderTable aligns rows under header with right-aligned columns.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerStyle.Render(fmt.Sprintf("%*s", widths[i], h))
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteByte('\n')
	for _, row := range rows {
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteByte('\n')
	}
	return b.String()
}
