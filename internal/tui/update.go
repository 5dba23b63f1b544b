package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SimulationResultMsg:
		st, ok := m.states[msg.Slot]
		if !ok || msg.Result == nil {
			return m, nil
		}
		st.latest = msg.Result
		st.pending = !msg.Result.Tag.Matches(m.cfg, st.effective)
		m.rescore(st)
		m.logger.Debugf("slot %s received generation %d (survival=%.3f, stale=%t)",
			msg.Slot, msg.Result.Generation, msg.Result.SurvivalRate, st.pending)
		return m, waitForResult(msg.Slot, m.slots.Slot(msg.Slot))

	case SlotClosedMsg:
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input. Any key dismisses an error.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	st := m.states[m.active]
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected + domain.LeverCount - 1) % domain.LeverCount
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % domain.LeverCount
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.active = m.active.Other()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		st.plan.Levers = st.plan.Levers.With(m.selected, st.plan.Levers.Get(m.selected)-m.step)

	case key.Matches(msg, m.keys.Right):
		st.plan.Levers = st.plan.Levers.With(m.selected, st.plan.Levers.Get(m.selected)+m.step)

	case key.Matches(msg, m.keys.Scenario):
		st.plan.Scenario = st.plan.Scenario.Next()

	case key.Matches(msg, m.keys.Ramp):
		st.plan.Ramp = st.plan.Ramp.Next()

	default:
		return m, nil
	}

	m.recompute(m.active)
	m.request(m.active)
	m.logger.Debugf("slot %s edited: %s=%.0f scenario=%s ramp=%s",
		m.active, m.selected, st.plan.Levers.Get(m.selected), st.plan.Scenario, st.plan.Ramp)
	return m, nil
}
