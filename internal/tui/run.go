package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/logging"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
)

// ErrNotTerminal is returned when the dashboard is started without a tty
var ErrNotTerminal = errors.New("the dashboard needs an interactive terminal")

// RunOptions configures Run
type RunOptions struct {
	Engine *calculation.MonteCarloEngine
	Slot   scheduler.SlotOptions
	Logger calculation.Logger
	Active scheduler.SlotID
}

// Run opens the dashboard on ws and blocks until the user quits or ctx is
// cancelled. Both slots are closed before it returns.
func Run(ctx context.Context, ws *domain.Workspace, opts RunOptions) error {
	if !logging.IsTerminal(os.Stdout) || !logging.IsTerminal(os.Stdin) {
		return ErrNotTerminal
	}
	if opts.Engine == nil {
		opts.Engine = calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions())
	}
	if opts.Logger == nil {
		opts.Logger = calculation.NopLogger{}
	}

	slots := scheduler.NewWorkspace(opts.Engine, opts.Slot, opts.Logger)
	defer slots.Close()

	model := NewModel(ws, Options{
		Engine: opts.Engine,
		Slots:  slots,
		Logger: opts.Logger,
		Active: opts.Active,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	opts.Logger.Infof("dashboard started on workspace %q", ws.Name)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running dashboard: %w", err)
	}
	opts.Logger.Infof("dashboard closed")
	return nil
}
