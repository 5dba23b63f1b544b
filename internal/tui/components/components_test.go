package components

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func TestParameterSlider_StepsAndClamps(t *testing.T) {
	s := NewLeverSlider(domain.LeverCostDiscipline.Info(), 97, 50, 5)

	s.Increment()
	assert.Equal(t, 100.0, s.Value)
	s.Increment()
	assert.Equal(t, 100.0, s.Value)

	s.SetValue(3)
	s.Decrement()
	assert.Equal(t, 0.0, s.Value)
	assert.Equal(t, 0.0, s.Percentage())

	s.SetValue(50)
	assert.InDelta(t, 0.5, s.Percentage(), 1e-9)
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewLeverSlider(domain.LeverHiringIntensity.Info(), 65, 50, 5).WithWidth(20)
	line := s.Render()
	assert.Contains(t, line, "Hiring Intensity")
	assert.Contains(t, line, "65")
	assert.Contains(t, line, "(+15)")

	s.SetValue(50)
	assert.NotContains(t, s.Render(), "(+")

	help := s.SetFocused(true).RenderHelp()
	assert.Contains(t, help, "Pace of headcount growth")
	assert.Contains(t, help, "adjust by 5")
}

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Runway", "18.0 mo").WithTrend(true, "+2.0 mo").WithDescription("point estimate")
	out := card.Render()
	assert.Contains(t, out, "Runway")
	assert.Contains(t, out, "18.0 mo")
	assert.Contains(t, out, "▲ +2.0 mo")
	assert.Contains(t, out, "point estimate")

	compact := NewMetricCard("SRI", "72").WithBand(domain.BandRed).RenderCompact()
	assert.Contains(t, compact, "SRI:")
	assert.Contains(t, compact, "72")
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 2))

	cards := []*MetricCard{
		NewMetricCard("A", "1"),
		NewMetricCard("B", "2"),
		NewMetricCard("C", "3"),
	}
	out := MetricGrid(cards, 2)
	for _, want := range []string{"A", "B", "C"} {
		assert.Contains(t, out, want)
	}
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil, 10))
	assert.Equal(t, "█▅▁", Sparkline([]float64{1, 0.5, 0}, 10))

	long := make([]float64, 48)
	for i := range long {
		long[i] = 1 - float64(i)/47
	}
	line := Sparkline(long, 12)
	assert.Equal(t, 12, utf8.RuneCountInString(line))
	assert.True(t, strings.HasPrefix(line, "█"))
	assert.True(t, strings.HasSuffix(line, "▁"))

	assert.Equal(t, "▂", Sparkline([]float64{0.9, 0.1}, 1))
}

func TestSurvivalChart(t *testing.T) {
	empty := NewSurvivalChart("Survival")
	assert.Contains(t, empty.Render(), "No simulation yet")

	chart := NewSurvivalChart("Survival").WithSize(40, 5).
		AddSeries("A", []float64{1, 0.9, 0.8, 0.6}, "#ffffff").
		AddSeries("B", []float64{1, 0.95, 0.9, 0.85}, "#000000")
	out := chart.Render()
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "0%")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "■")
	assert.Contains(t, out, "month")
}
