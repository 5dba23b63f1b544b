package compare

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Slot",
		"Plan",
		"Type",
		"Scenario",
		"Ramp",
		"Runway",
		"Runway P50",
		"Survival Rate",
		"EV",
		"EV P50",
		"Quality Score",
		"Structural Risk",
		"Objective Gap",
		"Runway Diff from Base",
		"Survival Diff from Base",
		"EV Diff from Base",
		"EV % Change",
		"Structural Risk Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, planType string) []string {
	return []string{
		result.Slot,
		result.ScenarioName,
		planType,
		string(result.Scenario),
		string(result.Ramp),
		formatFloat(result.Runway),
		formatFloat(result.RunwayMedian),
		strconv.FormatFloat(result.SurvivalRate, 'f', 4, 64),
		result.EV.StringFixed(2),
		result.EVMedian.StringFixed(2),
		strconv.FormatFloat(result.QualityScore, 'f', 4, 64),
		formatInt(result.StructuralRisk),
		formatInt(result.ObjectiveGap),
		formatFloat(result.RunwayDiffFromBase),
		formatFloat(result.SurvivalDiffFromBase),
		result.EVDiffFromBase.StringFixed(2),
		result.EVPctFromBase.StringFixed(2),
		formatInt(result.StructuralRiskDiff),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
