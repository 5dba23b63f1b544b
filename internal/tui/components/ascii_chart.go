package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/runwaysim/internal/tui/tuistyles"
)

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart displays a simple line chart over a fixed y range
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Width      int
	Height     int
	YMin, YMax float64
	YFormat    func(float64) string
	XAxisLabel string
}

// NewSurvivalChart charts survival-by-month curves on a 0-100% axis
func NewSurvivalChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     8,
		YMin:       0,
		YMax:       1,
		YFormat:    func(v float64) string { return fmt.Sprintf("%.0f%%", 100*v) },
		XAxisLabel: "month",
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if !c.hasData() {
		return tuistyles.InfoStyle.Render("No simulation yet")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n")
	}
	content.WriteString(c.renderGrid())
	if c.XAxisLabel != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
		content.WriteString("\n")
	}
	content.WriteString(c.renderLegend())
	return content.String()
}

func (c *ASCIIChart) hasData() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

const yAxisWidth = 6

// renderGrid plots every series into a character grid with a y axis
func (c *ASCIIChart) renderGrid() string {
	chartWidth := c.Width - yAxisWidth - 3
	if chartWidth < 2 || c.Height < 2 {
		return ""
	}

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	for idx, series := range c.Series {
		char := seriesChar(idx)
		prevX, prevY := -1, -1
		for i, point := range series.Points {
			x := c.column(i, len(series.Points), chartWidth)
			y := c.row(point)
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y)
			}
			grid[y][x] = char
			prevX, prevY = x, y
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	var out strings.Builder
	for i, row := range grid {
		yValue := c.YMax - float64(i)/float64(c.Height-1)*(c.YMax-c.YMin)
		label := ""
		if i == 0 || i == c.Height-1 || i == (c.Height-1)/2 {
			label = c.YFormat(yValue)
		}
		out.WriteString(axisStyle.Render(label))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth+1))
	out.WriteString("\n")
	return out.String()
}

func (c *ASCIIChart) column(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) / float64(n-1) * float64(width-1)))
}

func (c *ASCIIChart) row(v float64) int {
	span := c.YMax - c.YMin
	if span <= 0 {
		return c.Height - 1
	}
	frac := (v - c.YMin) / span
	if math.IsNaN(frac) {
		frac = 0
	}
	frac = math.Max(0, math.Min(1, frac))
	return c.Height - 1 - int(math.Round(frac*float64(c.Height-1)))
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine joins two plotted points with dots (Bresenham)
func drawLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = '·'
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderLegend renders the chart legend
func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, series := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(series.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, series.Name))
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.Join(items, " • "))
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline compresses values in [0, 1] into a one-line block chart of at
// most width cells, sampling evenly when there are more values than cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}
	n := len(values)
	if n > width {
		n = width
	}
	out := make([]rune, n)
	for i := range out {
		idx := i
		if len(values) > width {
			idx = len(values) - 1
			if n > 1 {
				idx = int(math.Round(float64(i) / float64(n-1) * float64(len(values)-1)))
			}
		}
		v := values[idx]
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Max(0, math.Min(1, v))
		out[i] = sparkBlocks[int(math.Round(v*float64(len(sparkBlocks)-1)))]
	}
	return string(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
