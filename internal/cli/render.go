package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/alpool/internal/active"
)

var (
	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	tableMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

var resultColumns = []string{"round", "train", "test", "mae", "mae_std", "rmse", "rmse_std", "r2", "r2_std"}

// renderResults formats a metric table for terminal output.
func renderResults(title string, rows []active.RoundResult) string {
	var sb strings.Builder
	sb.WriteString(tableTitleStyle.Render(title))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(tableMutedStyle.Render("  (no completed rounds)"))
		return sb.String()
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, resultRowCells(r))
	}

	widths := make([]int, len(resultColumns))
	for i, name := range resultColumns {
		widths[i] = len(name)
	}
	for _, row := range cells {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := make([]string, len(resultColumns))
	for i, name := range resultColumns {
		header[i] = fmt.Sprintf("%*s", widths[i], name)
	}
	sb.WriteString(tableHeaderStyle.Render(strings.Join(header, "  ")))
	sb.WriteString("\n")

	for _, row := range cells {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
		sb.WriteString(tableCellStyle.Render(strings.Join(padded, "  ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

func resultRowCells(r active.RoundResult) []string {
	return []string{
		fmt.Sprintf("%d", r.Round),
		fmt.Sprintf("%d", r.NumTraining),
		fmt.Sprintf("%d", r.NumTest),
		fmt.Sprintf("%.4f", r.MAE),
		fmt.Sprintf("%.4f", r.MAEStd),
		fmt.Sprintf("%.4f", r.RMSE),
		fmt.Sprintf("%.4f", r.RMSEStd),
		fmt.Sprintf("%.4f", r.R2),
		fmt.Sprintf("%.4f", r.R2Std),
	}
}
