package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/output"
	"github.com/rgehrsitz/runwaysim/internal/scheduler"
	"github.com/rgehrsitz/runwaysim/internal/tui/components"
	"github.com/rgehrsitz/runwaysim/internal/tui/tuistyles"
)

// chartMinHeight is the terminal height below which the survival chart
// collapses to sparklines
const chartMinHeight = 34

// View renders the current state of the application
func (m Model) View() string {
	var content string
	if m.err != nil {
		content = m.renderError()
	} else {
		content = m.renderDashboard()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and the active plan
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("RUNWAYSIM - Startup Runway Dashboard")
	st := m.states[m.active]
	breadcrumb := SubtitleStyle.Render(fmt.Sprintf("%s / slot %s: %s (%s, %s)",
		m.ws.Name, m.active, st.plan.Name, st.plan.Scenario, st.plan.Ramp))
	return lipgloss.JoinVertical(lipgloss.Left, title, breadcrumb)
}

func (m Model) renderDashboard() string {
	levers := m.renderLevers()
	kpis := m.renderKPIs(m.active)
	top := lipgloss.JoinHorizontal(lipgloss.Top, levers, kpis)

	var survival string
	if m.height >= chartMinHeight {
		survival = m.renderSurvivalChart()
	} else {
		survival = m.renderSparklines()
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, survival, m.renderOtherSlot())
}

// renderLevers renders the active slot's sliders
func (m Model) renderLevers() string {
	st := m.states[m.active]
	rows := make([]string, 0, domain.LeverCount+2)
	var focused *components.ParameterSlider
	for _, info := range domain.Levers() {
		s := components.NewLeverSlider(info, st.plan.Levers.Get(info.ID), m.ws.BaselineLevers.Get(info.ID), m.step).
			WithWidth(20).
			SetFocused(info.ID == m.selected)
		if s.IsFocused {
			focused = s
		}
		rows = append(rows, s.Render())
	}
	if focused != nil {
		rows = append(rows, "", focused.RenderHelp())
	}
	return ActiveBorderStyle.Render(strings.Join(rows, "\n"))
}

// renderKPIs renders the KPI cards and scores for a slot
func (m Model) renderKPIs(id scheduler.SlotID) string {
	st := m.states[id]
	d := st.delta

	survivalNote := "point estimate"
	if d.SurvivalFromSimulation {
		survivalNote = fmt.Sprintf("%d trials", st.latest.Iterations)
	} else if st.pending {
		survivalNote = "simulating…"
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Runway", output.FormatMonths(d.Runway.Scenario)).
			WithTrend(d.Runway.Delta >= 0, output.FormatSigned(d.Runway.Delta, 1)+" mo"),
		components.NewMetricCard("Survival", fmt.Sprintf("%.1f%%", d.Survival.Scenario)).
			WithTrend(d.Survival.Delta >= 0, output.FormatSigned(d.Survival.Delta, 1)+" pts").
			WithDescription(survivalNote),
		components.NewMetricCard("Enterprise Value", output.FormatMoney(d.EV.Scenario)).
			WithTrend(d.EV.Delta >= 0, output.FormatSignedMoney(d.EV.Delta)),
		components.NewMetricCard("Risk", fmt.Sprintf("%.0f", d.Risk.Scenario)).
			WithTrend(d.Risk.Delta <= 0, output.FormatSigned(d.Risk.Delta, 0)),
	}

	scores := strings.Join([]string{
		components.NewMetricCard("Quality", fmt.Sprintf("%.2f", st.quality.Score)).WithBand(st.quality.Band).RenderCompact(),
		components.NewMetricCard("SRI", fmt.Sprintf("%d", st.risk.Index)).WithBand(st.risk.Band).RenderCompact(),
		components.NewMetricCard("Gap", fmt.Sprintf("%d", st.gap.Score)).WithBand(st.gap.Band).RenderCompact(),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left, components.MetricGrid(cards, 2), " "+scores)
}

func (m Model) renderSurvivalChart() string {
	width := m.width - 4
	if width > 100 {
		width = 100
	}
	chart := components.NewSurvivalChart("Survival by month").WithSize(width, 8)
	for _, id := range []scheduler.SlotID{scheduler.SlotA, scheduler.SlotB} {
		if res := m.states[id].latest; res != nil {
			chart.AddSeries(fmt.Sprintf("%s: %s", id, m.states[id].plan.Name), res.SurvivalByMonth, seriesColor(id))
		}
	}
	return BorderStyle.Render(chart.Render())
}

func (m Model) renderSparklines() string {
	lines := []string{}
	for _, id := range []scheduler.SlotID{scheduler.SlotA, scheduler.SlotB} {
		line := InfoStyle.Render("waiting for simulation")
		if res := m.states[id].latest; res != nil {
			line = lipgloss.NewStyle().Foreground(seriesColor(id)).Render(components.Sparkline(res.SurvivalByMonth, 48)) +
				fmt.Sprintf(" %s at month %d", output.FormatRate(res.SurvivalRate), res.TimeHorizonMonths)
		}
		lines = append(lines, fmt.Sprintf("%s survival %s", id, line))
	}
	return strings.Join(lines, "\n")
}

// renderOtherSlot renders a one-line summary of the inactive slot
func (m Model) renderOtherSlot() string {
	id := m.active.Other()
	st := m.states[id]
	return SubtitleStyle.Render(fmt.Sprintf("slot %s: %s (%s, %s)  runway %s  survival %.1f%%  EV %s  SRI %d",
		id, st.plan.Name, st.plan.Scenario, st.plan.Ramp,
		output.FormatMonths(st.delta.Runway.Scenario), st.delta.Survival.Scenario,
		output.FormatMoney(st.delta.EV.Scenario), st.risk.Index))
}

func seriesColor(id scheduler.SlotID) lipgloss.Color {
	if id == scheduler.SlotA {
		return tuistyles.ColorSecondary
	}
	return tuistyles.ColorAccent
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	bindings := []struct{ key, desc string }{
		{m.keys.Up.Help().Key + "/" + m.keys.Down.Help().Key, "lever"},
		{m.keys.Left.Help().Key + "/" + m.keys.Right.Help().Key, "adjust"},
		{m.keys.Tab.Help().Key, m.keys.Tab.Help().Desc},
		{m.keys.Scenario.Help().Key, m.keys.Scenario.Help().Desc},
		{m.keys.Ramp.Help().Key, m.keys.Ramp.Help().Desc},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}
	shortcuts := make([]string, len(bindings))
	for i, b := range bindings {
		shortcuts[i] = formatShortcut(b.key, b.desc)
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderError renders an error message
func (m Model) renderError() string {
	return ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
}
