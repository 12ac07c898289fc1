package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/alpool/internal/active"
	"github.com/haskel/alpool/internal/experiment"
)

// Config holds TUI configuration.
type Config struct {
	Runner *experiment.Runner
	Rounds int
}

// Model represents the TUI state: a live view of an experiment running
// in the background.
type Model struct {
	config Config

	events <-chan tea.Msg
	cancel context.CancelFunc

	// Experiment progress
	rows      []active.RoundResult
	lastBatch []int
	done      bool
	err       error
	started   time.Time

	// UI state
	width  int
	height int
}

// Messages delivered from the experiment goroutine.
type roundMsg experiment.RoundEvent

type doneMsg struct {
	err error
}

// NewModel creates a new TUI model over a running experiment.
func NewModel(cfg Config, events <-chan tea.Msg, cancel context.CancelFunc) Model {
	return Model{
		config:  cfg,
		events:  events,
		cancel:  cancel,
		started: time.Now(),
	}
}

// waitForEvent blocks on the next experiment message.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}
