package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/runwaysim/internal/output"
)

// FormatMetric renders a metric value in its natural unit
func FormatMetric(m Metric, v float64) string {
	switch m {
	case MetricRunway:
		return output.FormatMonths(v)
	case MetricSurvival:
		return fmt.Sprintf("%.1f%%", v)
	case MetricGrowth:
		return output.FormatRate(v)
	case MetricEV:
		return output.FormatMoney(v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format renders a single search
func (tf *TableFormatter) Format(r *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Plan:        %s\n", r.Plan))
	sb.WriteString(fmt.Sprintf("Lever:       %s\n", r.Lever.Info().Label))
	sb.WriteString(fmt.Sprintf("Target:      %s %s %s\n", r.Metric, comparator(r.Metric), FormatMetric(r.Metric, r.Target)))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(r.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", r.Iterations))
	if r.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", r.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-10s %12s %16s\n", "", "LEVER", strings.ToUpper(string(r.Metric))))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("%-10s %12.1f %16s\n", "Current", r.BaseValue, FormatMetric(r.Metric, r.BaseMetric)))
	if r.Success {
		sb.WriteString(fmt.Sprintf("%-10s %12.1f %16s\n", "Required", r.OptimalValue, FormatMetric(r.Metric, r.AchievedMetric)))
		sb.WriteString(fmt.Sprintf("%-10s %12s\n", "Change", fmt.Sprintf("%+.1f", r.Change)))
	}
	return sb.String()
}

// FormatMulti renders a per-lever sweep, reachable levers first
func (tf *TableFormatter) FormatMulti(mr *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN BY LEVER\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Plan: %s   Target: %s %s %s\n\n",
		mr.Plan, mr.Metric, comparator(mr.Metric), FormatMetric(mr.Metric, mr.Target)))

	sb.WriteString(fmt.Sprintf("%-20s %9s %9s %9s %16s\n", "LEVER", "CURRENT", "REQUIRED", "CHANGE", "ACHIEVED"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, reachable := range []bool{true, false} {
		for _, r := range mr.Results {
			if r.Success != reachable {
				continue
			}
			label := r.Lever.Info().Label
			if mr.Best != nil && r.Lever == mr.Best.Lever {
				label += " *"
			}
			if r.Success {
				sb.WriteString(fmt.Sprintf("%-20s %9.1f %9.1f %+9.1f %16s\n",
					label, r.BaseValue, r.OptimalValue, r.Change, FormatMetric(mr.Metric, r.AchievedMetric)))
			} else {
				sb.WriteString(fmt.Sprintf("%-20s %9.1f %9s %9s %16s\n", label, r.BaseValue, "-", "-", "unreachable"))
			}
		}
	}

	if len(mr.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for i, rec := range mr.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}
	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Reachable"
	}
	return "✗ Not reachable"
}

func comparator(m Metric) string {
	if m.LowerIsBetter() {
		return "<="
	}
	return ">="
}

// JSONFormatter formats break-even results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format renders any result value
func (jf *JSONFormatter) Format(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal break-even result: %w", err)
	}
	return string(data), nil
}
