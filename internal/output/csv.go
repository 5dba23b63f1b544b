package output

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/runwaysim/internal/report"
)

// CSVSummarizer implements the summary CSV output (one row per plan)
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(reports []*report.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Plan", "Scenario", "Ramp",
		"Runway", "RunwayDelta", "Survival", "SurvivalDelta", "SurvivalFromSimulation",
		"EV", "EVDelta", "Risk", "RiskDelta",
		"RunwayP10", "RunwayP50", "RunwayP90",
		"ValuationP10", "ValuationP50", "ValuationP90",
		"QualityScore", "QualityBand", "StructuralRisk", "StructuralRiskBand", "ObjectiveGap", "ObjectiveGapBand",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range reports {
		d := r.Delta
		row := []string{
			r.Plan.Name, string(r.Plan.Scenario), string(r.Plan.Ramp),
			floatToString(d.Runway.Scenario, 2), floatToString(d.Runway.Delta, 2),
			floatToString(d.Survival.Scenario, 2), floatToString(d.Survival.Delta, 2), strconv.FormatBool(d.SurvivalFromSimulation),
			moneyToString(d.EV.Scenario), moneyToString(d.EV.Delta),
			floatToString(d.Risk.Scenario, 2), floatToString(d.Risk.Delta, 2),
		}
		if mc := r.Simulation; mc != nil {
			row = append(row,
				floatToString(mc.RunwayPercentiles.P10, 2),
				floatToString(mc.RunwayPercentiles.P50, 2),
				floatToString(mc.RunwayPercentiles.P90, 2))
		} else {
			row = append(row, "", "", "")
		}
		p := r.Valuation.Percentiles
		row = append(row,
			moneyToString(p.P10), moneyToString(p.P50), moneyToString(p.P90),
			floatToString(r.Quality.Score, 4), string(r.Quality.Band),
			intToString(r.StructuralRisk.Index), string(r.StructuralRisk.Band),
			intToString(r.ObjectiveGap.Score), string(r.ObjectiveGap.Band),
		)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SurvivalCurveCSV writes one row per month with a survival column per plan
type SurvivalCurveCSV struct{}

func (s SurvivalCurveCSV) Name() string { return "survival-csv" }

func (s SurvivalCurveCSV) Format(reports []*report.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Month"}
	months := 0
	for _, r := range reports {
		header = append(header, r.Plan.Name)
		if r.Simulation != nil {
			months = max(months, len(r.Simulation.SurvivalByMonth))
		}
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for m := 0; m < months; m++ {
		row := []string{intToString(m + 1)}
		for _, r := range reports {
			if r.Simulation == nil || m >= len(r.Simulation.SurvivalByMonth) {
				row = append(row, "")
				continue
			}
			row = append(row, floatToString(r.Simulation.SurvivalByMonth[m], 4))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func floatToString(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// moneyToString writes dollars to the cent, rounding half away from zero
func moneyToString(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func intToString(i int) string {
	return strconv.Itoa(i)
}
