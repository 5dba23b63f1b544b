package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/tui/tuistyles"
)

// ParameterSlider displays one lever as an adjustable bar
type ParameterSlider struct {
	Label       string
	Value       float64
	Baseline    float64 // reference value, marked on the bar
	Min         float64
	Max         float64
	Step        float64
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider over [min, max]
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	return &ParameterSlider{
		Label:    label,
		Value:    value,
		Baseline: value,
		Min:      min,
		Max:      max,
		Step:     step,
		Width:    30,
	}
}

// NewLeverSlider creates a 0-100 slider for a lever, stepping by step
func NewLeverSlider(info domain.LeverInfo, value, baseline, step float64) *ParameterSlider {
	s := NewParameterSlider(info.Label, value, domain.LeverMin, domain.LeverMax, step)
	s.Baseline = baseline
	s.Description = info.Description
	return s
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment increases the value by step, stopping at Max
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement decreases the value by step, stopping at Min
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	return p.fraction(p.Value)
}

func (p *ParameterSlider) fraction(v float64) float64 {
	if p.Max == p.Min {
		return 0
	}
	return (v - p.Min) / (p.Max - p.Min)
}

// Render returns a single line: label, bar, value and drift from baseline
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle.Width(20)
	valueStyle := tuistyles.ParameterValueStyle
	cursor := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		cursor = tuistyles.StatusKeyStyle.Render("› ")
	}

	line := fmt.Sprintf("%s%s %s %s", cursor, labelStyle.Render(p.Label), p.renderSliderBar(), valueStyle.Render(fmt.Sprintf("%3.0f", p.Value)))
	if drift := p.Value - p.Baseline; drift != 0 {
		line += " " + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(fmt.Sprintf("(%+.0f)", drift))
	}
	return line
}

// RenderHelp returns the focused slider's description and controls
func (p *ParameterSlider) RenderHelp() string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString(tuistyles.InfoStyle.Render(fmt.Sprintf("← → to adjust by %.0f • ↑↓ to select", p.Step)))
	return b.String()
}

// renderSliderBar draws the track with the thumb at the value and a tick at the baseline
func (p *ParameterSlider) renderSliderBar() string {
	if p.Width < 2 {
		return ""
	}
	thumb := p.position(p.Value)
	tick := p.position(p.Baseline)

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < p.Width; i++ {
		switch {
		case i == thumb:
			bar.WriteString(thumbStyle.Render("●"))
		case i < thumb:
			bar.WriteString(thumbStyle.Render("━"))
		case i == tick:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("┊"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}

func (p *ParameterSlider) position(v float64) int {
	pos := int(math.Round(float64(p.Width-1) * p.fraction(v)))
	if pos < 0 {
		return 0
	}
	if pos > p.Width-1 {
		return p.Width - 1
	}
	return pos
}
