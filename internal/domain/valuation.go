package domain

import "fmt"

// ThresholdDirection is the comparison used by a probability threshold
type ThresholdDirection string

const (
	ThresholdGE ThresholdDirection = "ge"
	ThresholdLE ThresholdDirection = "le"
)

// ParseThresholdDirection accepts ge/le and the symbols >= and <=
func ParseThresholdDirection(s string) (ThresholdDirection, error) {
	switch s {
	case "ge", ">=", "≥", "":
		return ThresholdGE, nil
	case "le", "<=", "≤":
		return ThresholdLE, nil
	}
	return "", fmt.Errorf("unknown threshold direction %q", s)
}

// Meets reports whether value satisfies the threshold condition
func (d ThresholdDirection) Meets(value, threshold float64) bool {
	if d == ThresholdLE {
		return value <= threshold
	}
	return value >= threshold
}

// Threshold is a probability question asked of a distribution
type Threshold struct {
	Label     string             `yaml:"label" json:"label"`
	Value     float64            `yaml:"value" json:"value"`
	Direction ThresholdDirection `yaml:"direction" json:"direction"`
}

// ProbabilityThreshold is a Threshold with its estimated probability
type ProbabilityThreshold struct {
	Label       string             `json:"label"`
	Value       float64            `json:"value"`
	Probability float64            `json:"probability"`
	Direction   ThresholdDirection `json:"direction"`
}

// DefaultValuationThresholds are the questions asked when none are configured
func DefaultValuationThresholds() []Threshold {
	return []Threshold{
		{Label: "EV ≥ $10M", Value: 10_000_000, Direction: ThresholdGE},
		{Label: "EV ≥ $25M", Value: 25_000_000, Direction: ThresholdGE},
		{Label: "EV ≥ $50M", Value: 50_000_000, Direction: ThresholdGE},
		{Label: "EV ≥ $100M", Value: 100_000_000, Direction: ThresholdGE},
		{Label: "EV ≤ $5M", Value: 5_000_000, Direction: ThresholdLE},
	}
}

// PercentileBand is the canonical five-point band
type PercentileBand struct {
	P10 float64 `yaml:"p10" json:"p10"`
	P25 float64 `yaml:"p25" json:"p25"`
	P50 float64 `yaml:"p50" json:"p50"`
	P75 float64 `yaml:"p75" json:"p75"`
	P90 float64 `yaml:"p90" json:"p90"`
}

// Monotonic reports whether p10<=p25<=p50<=p75<=p90
func (b PercentileBand) Monotonic() bool {
	return b.P10 <= b.P25 && b.P25 <= b.P50 && b.P50 <= b.P75 && b.P75 <= b.P90
}

// Values returns the band as a slice in rank order
func (b PercentileBand) Values() []float64 {
	return []float64{b.P10, b.P25, b.P50, b.P75, b.P90}
}

// ValuationDistributionSummary is the canonical valuation band shown to users
type ValuationDistributionSummary struct {
	Percentiles            PercentileBand         `json:"percentiles"`
	WinsorLow              float64                `json:"winsorLow"`
	WinsorHigh             float64                `json:"winsorHigh"`
	Thresholds             []ProbabilityThreshold `json:"thresholds"`
	IsFromRealDistribution bool                   `json:"isFromRealDistribution"`
	SampleCount            int                    `json:"sampleCount"`
	InsufficientData       bool                   `json:"insufficientData,omitempty"`
}
