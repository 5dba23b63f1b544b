package domain

import (
	"fmt"
	"strings"
)

// ScenarioID selects a fixed multiplier table applied on top of lever deltas
type ScenarioID string

const (
	ScenarioBase     ScenarioID = "base"
	ScenarioUpside   ScenarioID = "upside"
	ScenarioDownside ScenarioID = "downside"
	ScenarioStress   ScenarioID = "stress"
)

// ScenarioMultipliers scale the lever-derived KPIs for a scenario
type ScenarioMultipliers struct {
	Growth    float64 `json:"growth"`
	Burn      float64 `json:"burn"`
	Runway    float64 `json:"runway"`
	Risk      float64 `json:"risk"`
	Valuation float64 `json:"valuation"`
}

var scenarioTable = map[ScenarioID]ScenarioMultipliers{
	ScenarioBase:     {Growth: 1.00, Burn: 1.00, Runway: 1.00, Risk: 1.00, Valuation: 1.00},
	ScenarioUpside:   {Growth: 1.25, Burn: 0.95, Runway: 1.05, Risk: 0.85, Valuation: 1.20},
	ScenarioDownside: {Growth: 0.75, Burn: 1.10, Runway: 0.90, Risk: 1.20, Valuation: 0.80},
	ScenarioStress:   {Growth: 0.50, Burn: 1.25, Runway: 0.75, Risk: 1.50, Valuation: 0.60},
}

// Scenarios lists the scenario ids in presentation order
func Scenarios() []ScenarioID {
	return []ScenarioID{ScenarioBase, ScenarioUpside, ScenarioDownside, ScenarioStress}
}

// ParseScenarioID parses a scenario name; "extreme" is accepted for stress
func ParseScenarioID(s string) (ScenarioID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "base":
		return ScenarioBase, nil
	case "upside":
		return ScenarioUpside, nil
	case "downside":
		return ScenarioDownside, nil
	case "stress", "extreme":
		return ScenarioStress, nil
	}
	return "", fmt.Errorf("unknown scenario %q (expected base, upside, downside, stress)", s)
}

// Multipliers returns the table entry; unknown ids fall back to base
func (id ScenarioID) Multipliers() ScenarioMultipliers {
	if m, ok := scenarioTable[id]; ok {
		return m
	}
	return scenarioTable[ScenarioBase]
}

// Next cycles through the scenarios
func (id ScenarioID) Next() ScenarioID {
	all := Scenarios()
	for i, s := range all {
		if s == id {
			return all[(i+1)%len(all)]
		}
	}
	return ScenarioBase
}

// RampType is the schedule over which a lever change takes effect
type RampType string

const (
	RampImmediate RampType = "immediate"
	Ramp6Months   RampType = "6mo"
	Ramp12Months  RampType = "12mo"
)

// ParseRampType parses a ramp name
func ParseRampType(s string) (RampType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "immediate", "0", "0mo":
		return RampImmediate, nil
	case "6mo", "6", "6m", "6months":
		return Ramp6Months, nil
	case "12mo", "12", "12m", "12months":
		return Ramp12Months, nil
	}
	return "", fmt.Errorf("unknown ramp %q (expected immediate, 6mo, 12mo)", s)
}

// Months returns the ramp duration; immediate and unknown ramps are 0
func (r RampType) Months() int {
	switch r {
	case Ramp6Months:
		return 6
	case Ramp12Months:
		return 12
	}
	return 0
}

// Next cycles through the ramp types
func (r RampType) Next() RampType {
	switch r {
	case RampImmediate:
		return Ramp6Months
	case Ramp6Months:
		return Ramp12Months
	}
	return RampImmediate
}
