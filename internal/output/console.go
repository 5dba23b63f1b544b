package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/runwaysim/internal/domain"
	"github.com/rgehrsitz/runwaysim/internal/report"
)

// ConsoleFormatter renders the detailed per-plan report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(reports []*report.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "RUNWAY SIMULATION REPORT")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	if len(reports) == 0 {
		fmt.Fprintln(&buf, "No plans evaluated.")
		return buf.Bytes(), nil
	}
	fmt.Fprintf(&buf, "Workspace: %s\n", reports[0].Workspace)
	fmt.Fprintf(&buf, "Generated: %s\n\n", reports[0].GeneratedAt.Format("2006-01-02 15:04:05"))

	for i, r := range reports {
		fmt.Fprintf(&buf, "PLAN %d: %s (scenario %s, ramp %s)\n", i+1, r.Plan.Name, r.Plan.Scenario, r.Plan.Ramp)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeDeltas(&buf, r)
		writePointEstimate(&buf, r.Scenario)
		if r.Simulation != nil {
			writeSimulation(&buf, r.Simulation)
		}
		WriteValuation(&buf, r.Valuation)
		writeScores(&buf, r)
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

func writeDeltas(w io.Writer, r *report.SimulationReport) {
	d := r.Delta
	fmt.Fprintf(w, "%-22s %14s %14s %12s\n", "KEY METRICS", "Baseline", "Scenario", "Change")
	fmt.Fprintf(w, "  %-20s %14.1f %14.1f %12s\n", "Runway (months)", d.Runway.Baseline, d.Runway.Scenario, FormatSigned(d.Runway.Delta, 1))
	survivalLabel := "Survival (%)"
	if d.SurvivalFromSimulation {
		survivalLabel = "Survival (%, MC)"
	}
	fmt.Fprintf(w, "  %-20s %14.1f %14.1f %12s\n", survivalLabel, d.Survival.Baseline, d.Survival.Scenario, FormatSigned(d.Survival.Delta, 1))
	fmt.Fprintf(w, "  %-20s %14s %14s %12s\n", "Enterprise value", FormatMoney(d.EV.Baseline), FormatMoney(d.EV.Scenario), FormatSignedMoney(d.EV.Delta))
	fmt.Fprintf(w, "  %-20s %14.1f %14.1f %12s\n", "Risk", d.Risk.Baseline, d.Risk.Scenario, FormatSigned(d.Risk.Delta, 1))
	fmt.Fprintln(w)
}

func writePointEstimate(w io.Writer, m domain.MetricState) {
	fmt.Fprintln(w, "POINT ESTIMATE:")
	fmt.Fprintf(w, "  Cash:                 %s\n", FormatMoney(m.Cash))
	fmt.Fprintf(w, "  Monthly burn:         %s\n", FormatMoney(m.MonthlyBurn))
	fmt.Fprintf(w, "  ARR:                  %s\n", FormatMoney(m.ARR))
	fmt.Fprintf(w, "  Growth (annual):      %s\n", FormatRate(m.Growth))
	fmt.Fprintf(w, "  LTV/CAC:              %.2f\n", m.LTVCAC)
	fmt.Fprintf(w, "  CAC payback:          %s\n", FormatMonths(m.CACPayback))
	fmt.Fprintln(w)
}

func writeSimulation(w io.Writer, mc *domain.MonteCarloResult) {
	fmt.Fprintf(w, "MONTE CARLO (%d trials, %d months, seed %d):\n", mc.Iterations, mc.TimeHorizonMonths, mc.Tag.Config.Seed)
	fmt.Fprintf(w, "  Survival rate:        %s\n", FormatRate(mc.SurvivalRate))
	fmt.Fprintf(w, "  Runway p10/p50/p90:   %.1f / %.1f / %.1f months\n", mc.RunwayPercentiles.P10, mc.RunwayPercentiles.P50, mc.RunwayPercentiles.P90)
	fmt.Fprintf(w, "  ARR p10/p50/p90:      %s / %s / %s\n", FormatMoney(mc.ARRPercentiles.P10), FormatMoney(mc.ARRPercentiles.P50), FormatMoney(mc.ARRPercentiles.P90))
	fmt.Fprintf(w, "  Survival curve:       %s\n", SurvivalCheckpoints(mc.SurvivalByMonth, 6))
	if len(mc.SensitivityFactors) > 0 {
		fmt.Fprintln(w, "  Top drivers:")
		for _, f := range mc.SensitivityFactors {
			fmt.Fprintf(w, "  • %-20s %+6.1f (%s)\n", f.Label, f.Impact, f.Direction)
		}
	}
	fmt.Fprintln(w)
}

// WriteValuation prints a valuation band and its threshold probabilities
func WriteValuation(w io.Writer, v domain.ValuationDistributionSummary) {
	source := "assumed uncertainty"
	if v.IsFromRealDistribution {
		source = fmt.Sprintf("%d simulated samples", v.SampleCount)
	}
	fmt.Fprintf(w, "VALUATION (%s):\n", source)
	if v.InsufficientData {
		fmt.Fprintln(w, "  Insufficient data")
		fmt.Fprintln(w)
		return
	}
	p := v.Percentiles
	fmt.Fprintf(w, "  p10 %s | p25 %s | p50 %s | p75 %s | p90 %s\n",
		FormatMoney(p.P10), FormatMoney(p.P25), FormatMoney(p.P50), FormatMoney(p.P75), FormatMoney(p.P90))
	for _, t := range v.Thresholds {
		fmt.Fprintf(w, "  P(%s): %s\n", t.Label, FormatRate(t.Probability))
	}
	fmt.Fprintln(w)
}

func writeScores(w io.Writer, r *report.SimulationReport) {
	fmt.Fprintln(w, "SCORES:")
	fmt.Fprintf(w, "  Quality score:        %.2f (%s)\n", r.Quality.Score, r.Quality.Band)
	fmt.Fprintf(w, "  Structural risk:      %d (%s)\n", r.StructuralRisk.Index, r.StructuralRisk.Band)
	fmt.Fprintf(w, "  Objective gap:        %d (%s)\n", r.ObjectiveGap.Score, r.ObjectiveGap.Band)
	for _, c := range r.ObjectiveGap.Components {
		if !c.Known {
			continue
		}
		fmt.Fprintf(w, "    %-9s target %-12s actual %-12s gap %s\n", c.Name, objectiveValue(c.Name, c.Target), objectiveValue(c.Name, c.Actual), FormatRate(c.Gap))
	}
}

func objectiveValue(name string, v float64) string {
	switch name {
	case "ev":
		return FormatMoney(v)
	case "survival":
		return fmt.Sprintf("%.1f%%", v)
	}
	return FormatMonths(v)
}

// SurvivalCheckpoints renders the survival curve every step months, always
// including the final month.
func SurvivalCheckpoints(curve []float64, step int) string {
	if len(curve) == 0 {
		return "n/a"
	}
	if step < 1 {
		step = 1
	}
	var parts []string
	for m := step; m < len(curve); m += step {
		parts = append(parts, fmt.Sprintf("m%d %s", m, FormatRate(curve[m-1])))
	}
	parts = append(parts, fmt.Sprintf("m%d %s", len(curve), FormatRate(curve[len(curve)-1])))
	return strings.Join(parts, ", ")
}

// ConsoleLiteFormatter renders one line per plan
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(reports []*report.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RUNWAY PLAN SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	best := -1
	for i, r := range reports {
		fmt.Fprintf(&buf, "%-24s runway %5.1f mo (%s)  survival %5.1f%%  EV %s  quality %s  risk %s\n",
			r.Plan.Name,
			r.Delta.Runway.Scenario, FormatSigned(r.Delta.Runway.Delta, 1),
			r.Delta.Survival.Scenario,
			FormatMoney(r.Valuation.Percentiles.P50),
			r.Quality.Band, r.StructuralRisk.Band)
		if best < 0 || r.Delta.Survival.Scenario > reports[best].Delta.Survival.Scenario {
			best = i
		}
	}
	if len(reports) > 1 {
		fmt.Fprintf(&buf, "\nHighest survival: %s\n", reports[best].Plan.Name)
	}
	return buf.Bytes(), nil
}
