package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// LeverID identifies one of the fixed strategic dials
type LeverID int

const (
	LeverDemandStrength LeverID = iota
	LeverPricingPower
	LeverExpansionVelocity
	LeverCostDiscipline
	LeverOperatingDrag
	LeverMarketVolatility
	LeverExecutionRisk
	LeverFundingPressure
	LeverHiringIntensity

	// LeverCount is the number of levers in a LeverState
	LeverCount
)

const (
	LeverMin = 0.0
	LeverMax = 100.0
)

// LeverInfo describes a lever for files and presentation
type LeverInfo struct {
	ID          LeverID
	Key         string
	Label       string
	Default     float64
	Description string
}

var leverCatalog = [LeverCount]LeverInfo{
	{LeverDemandStrength, "demand_strength", "Demand Strength", 60, "Pull from the market for the core product"},
	{LeverPricingPower, "pricing_power", "Pricing Power", 50, "Ability to raise prices without losing customers"},
	{LeverExpansionVelocity, "expansion_velocity", "Expansion Velocity", 50, "Speed of entering new segments and regions"},
	{LeverCostDiscipline, "cost_discipline", "Cost Discipline", 50, "Rigor of spend control"},
	{LeverOperatingDrag, "operating_drag", "Operating Drag", 50, "Overhead and process friction"},
	{LeverMarketVolatility, "market_volatility", "Market Volatility", 50, "Instability of revenue conditions"},
	{LeverExecutionRisk, "execution_risk", "Execution Risk", 50, "Likelihood of plans slipping"},
	{LeverFundingPressure, "funding_pressure", "Funding Pressure", 50, "Tightness of the capital market"},
	{LeverHiringIntensity, "hiring_intensity", "Hiring Intensity", 50, "Pace of headcount growth"},
}

// Levers returns the lever catalogue in LeverID order
func Levers() []LeverInfo {
	out := make([]LeverInfo, LeverCount)
	copy(out, leverCatalog[:])
	return out
}

// Info returns catalogue information for the lever
func (id LeverID) Info() LeverInfo {
	if !id.Valid() {
		return LeverInfo{ID: id, Key: "unknown", Label: "Unknown"}
	}
	return leverCatalog[id]
}

// Valid reports whether id names a known lever
func (id LeverID) Valid() bool {
	return id >= 0 && id < LeverCount
}

func (id LeverID) String() string {
	return id.Info().Key
}

// ParseLeverID accepts the snake_case key, the camelCase key, or the label
func ParseLeverID(s string) (LeverID, error) {
	norm := normalizeKey(s)
	for _, info := range leverCatalog {
		if normalizeKey(info.Key) == norm || normalizeKey(info.Label) == norm {
			return info.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown lever %q", s)
}

func normalizeKey(s string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(s))
}

// LeverState holds one value in [0,100] per lever. It is a value type:
// copies never alias, and two states compare equal with ==.
type LeverState [LeverCount]float64

// DefaultLevers returns the documented default lever set
func DefaultLevers() LeverState {
	var s LeverState
	for i, info := range leverCatalog {
		s[i] = info.Default
	}
	return s
}

// Get returns the clamped value of a lever
func (s LeverState) Get(id LeverID) float64 {
	if !id.Valid() {
		return 50
	}
	return ClampLever(s[id])
}

// With returns a copy of s with one lever replaced (clamped)
func (s LeverState) With(id LeverID, value float64) LeverState {
	if id.Valid() {
		s[id] = ClampLever(value)
	}
	return s
}

// Clamped returns a copy with every lever clamped to [0,100]
func (s LeverState) Clamped() LeverState {
	for i := range s {
		s[i] = ClampLever(s[i])
	}
	return s
}

// Delta converts a lever to a signed delta in [-1,1] centred on 50
func (s LeverState) Delta(id LeverID) float64 {
	return (s.Get(id) - 50) / 50
}

// Unit converts a lever to [0,1]
func (s LeverState) Unit(id LeverID) float64 {
	return s.Get(id) / 100
}

// ToMap returns the levers keyed by snake_case id
func (s LeverState) ToMap() map[string]float64 {
	m := make(map[string]float64, LeverCount)
	for i, info := range leverCatalog {
		m[info.Key] = s[i]
	}
	return m
}

// LeverStateFromMap builds a state starting from base and overriding the
// named levers. Values are clamped; unknown names are an error.
func LeverStateFromMap(base LeverState, values map[string]float64) (LeverState, error) {
	out := base
	for name, v := range values {
		id, err := ParseLeverID(name)
		if err != nil {
			return base, err
		}
		out[id] = ClampLever(v)
	}
	return out, nil
}

func (s LeverState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

func (s *LeverState) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out, err := LeverStateFromMap(DefaultLevers(), m)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func (s LeverState) MarshalYAML() (interface{}, error) {
	return s.ToMap(), nil
}

// ClampLever clamps a lever value into [0,100]; NaN maps to the neutral 50
func ClampLever(v float64) float64 {
	if math.IsNaN(v) {
		return 50
	}
	return Clamp(v, LeverMin, LeverMax)
}

// Clamp limits v to [lo,hi]; NaN maps to lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0,1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
