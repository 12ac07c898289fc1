package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitleBar())
	sections = append(sections, m.renderProgress())

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if len(m.rows) > 0 {
		sections = append(sections, m.renderRounds())
	}

	if len(m.lastBatch) > 0 && !m.done {
		sections = append(sections, labelStyle.Render(
			fmt.Sprintf("  last batch: %v", m.lastBatch)))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("ALPOOL ACTIVE LEARNING")
	help := helpStyle.Render("q:quit")

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(help) - 2
	if spacing < 1 {
		spacing = 1
	}
	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), help)
}

func (m Model) renderProgress() string {
	total := m.config.Rounds
	completed := len(m.rows)
	const width = 30

	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	if filled > width {
		filled = width
	}

	bar := progressBarFillStyle.Render(strings.Repeat("█", filled)) +
		progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("  %s [%s] %d/%d rounds", labelStyle.Render("Progress"), bar, completed, total)
}

func (m Model) renderRounds() string {
	header := fmt.Sprintf("  %5s %6s %9s %9s %8s", "round", "train", "mae", "rmse", "r2")
	lines := []string{sectionHeaderStyle.Render("  Rounds"), tableHeaderStyle.Render(header)}

	// Keep the most recent rows that fit on screen.
	rows := m.rows
	maxRows := m.height - 8
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	for _, r := range rows {
		lines = append(lines, tableCellStyle.Render(fmt.Sprintf(
			"  %5d %6d %9.4f %9.4f %8.4f", r.Round, r.NumTraining, r.MAE, r.RMSE, r.R2)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	elapsed := time.Since(m.started).Round(time.Second)
	if m.done && m.err == nil {
		return doneStyle.Render(fmt.Sprintf("  Finished in %s, press q to exit", elapsed))
	}
	if m.done {
		return errorStyle.Render(fmt.Sprintf("  Stopped after %s, press q to exit", elapsed))
	}
	return labelStyle.Render(fmt.Sprintf("  Running… %s", elapsed))
}
