package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
)

// Message types for the Bubble Tea update cycle

// SimulationResultMsg carries a result published by a slot
type SimulationResultMsg struct {
	Slot   scheduler.SlotID
	Result *domain.MonteCarloResult
}

// SlotClosedMsg signals a slot's update channel was closed
type SlotClosedMsg struct {
	Slot scheduler.SlotID
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// waitForResult blocks on the slot's update channel. It is re-issued after
// every result so the program always has one listener per slot.
func waitForResult(id scheduler.SlotID, slot *scheduler.Slot) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-slot.Updates()
		if !ok {
			return SlotClosedMsg{Slot: id}
		}
		return SimulationResultMsg{Slot: id, Result: res}
	}
}
