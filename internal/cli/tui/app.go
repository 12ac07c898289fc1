package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/alpool/internal/experiment"
)

// Run drives the experiment in the background and renders its progress
// until it finishes or the user quits. Quitting cancels the experiment
// at the next round boundary.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tea.Msg, cfg.Rounds+1)
	go func() {
		err := cfg.Runner.Run(ctx, func(e experiment.RoundEvent) {
			events <- roundMsg(e)
		})
		events <- doneMsg{err: err}
	}()

	p := tea.NewProgram(
		NewModel(cfg, events, cancel),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
