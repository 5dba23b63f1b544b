package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plans
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("RUNWAY PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Workspace: %s\n", compSet.Workspace))
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-4s %-*s %*s %*s %*s %*s %*s %*s\n",
		"Slot",
		nameWidth, "Plan",
		numWidth, "Runway p50",
		numWidth, "Survival",
		numWidth, "EV p50",
		numWidth, "Quality",
		numWidth, "Struct Risk",
		numWidth, "Obj Gap"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			sb.WriteString(fmt.Sprintf("  Median Runway:    %+.1f months\n", alt.RunwayDiffFromBase))
			sb.WriteString(fmt.Sprintf("  Survival:         %+.1f points\n", alt.SurvivalDiffFromBase))

			evSymbol := tf.deltaSymbol(alt.EVDiffFromBase)
			sb.WriteString(fmt.Sprintf("  Median EV:        %s$%s (%s%%)\n",
				evSymbol,
				formatDecimal(alt.EVDiffFromBase.Abs()),
				alt.EVPctFromBase.StringFixed(1)))

			if alt.StructuralRiskDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Structural Risk:  %+d\n", alt.StructuralRiskDiff))
			}
			if alt.TopDriver != "" {
				sb.WriteString(fmt.Sprintf("  Top Driver:       %s\n", alt.TopDriver))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single plan row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	ev := "$" + formatDecimal(result.EVMedian)
	if !result.FromRealDist {
		ev += "*"
	}

	return fmt.Sprintf("%-4s %-*s %*s %*s %*s %*s %*s %*s\n",
		result.Slot,
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, fmt.Sprintf("%.1f mo", result.RunwayMedian),
		numWidth, fmt.Sprintf("%.1f%%", 100*result.SurvivalRate),
		numWidth, ev,
		numWidth, fmt.Sprintf("%.2f %s", result.QualityScore, bandMark(string(result.QualityBand))),
		numWidth, fmt.Sprintf("%d %s", result.StructuralRisk, bandMark(string(result.RiskBand))),
		numWidth, fmt.Sprintf("%d %s", result.ObjectiveGap, bandMark(string(result.GapBand))))
}

func bandMark(band string) string {
	switch band {
	case "green":
		return "G"
	case "amber":
		return "A"
	case "red":
		return "R"
	}
	return "?"
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%s: survival %+.1fpt, runway %+.1fmo", alt.ScenarioName, alt.SurvivalDiffFromBase, alt.RunwayDiffFromBase))
	}

	return sb.String()
}
