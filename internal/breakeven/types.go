package breakeven

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// Metric is the point-estimate KPI a break-even search targets
type Metric string

const (
	MetricRunway   Metric = "runway"
	MetricSurvival Metric = "survival"
	MetricGrowth   Metric = "growth"
	MetricEV       Metric = "ev"
	MetricRisk     Metric = "risk"
)

// Metrics lists the supported metrics
func Metrics() []Metric {
	return []Metric{MetricRunway, MetricSurvival, MetricGrowth, MetricEV, MetricRisk}
}

// ParseMetric parses a metric name
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "runway":
		return MetricRunway, nil
	case "survival":
		return MetricSurvival, nil
	case "growth":
		return MetricGrowth, nil
	case "ev", "valuation":
		return MetricEV, nil
	case "risk":
		return MetricRisk, nil
	}
	return "", fmt.Errorf("unknown metric %q (expected runway, survival, growth, ev, risk)", s)
}

// Value reads the metric from a point estimate
func (m Metric) Value(ms domain.MetricState) float64 {
	switch m {
	case MetricSurvival:
		return ms.Survival
	case MetricGrowth:
		return ms.Growth
	case MetricEV:
		return ms.EV
	case MetricRisk:
		return ms.Risk
	default:
		return ms.Runway
	}
}

// LowerIsBetter is true for risk; every other target is a floor
func (m Metric) LowerIsBetter() bool {
	return m == MetricRisk
}

// Meets reports whether value satisfies target
func (m Metric) Meets(value, target float64) bool {
	if m.LowerIsBetter() {
		return value <= target
	}
	return value >= target
}

// Constraints bound the lever values the solver may propose
type Constraints struct {
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
}

// Bounds returns the search interval, defaulting to the full lever range
func (c Constraints) Bounds() (float64, float64) {
	lo, hi := domain.LeverMin, domain.LeverMax
	if c.MinValue != nil {
		lo = domain.ClampLever(*c.MinValue)
	}
	if c.MaxValue != nil {
		hi = domain.ClampLever(*c.MaxValue)
	}
	return lo, hi
}

// Validate checks if constraints are internally consistent
func (c Constraints) Validate() error {
	lo, hi := c.Bounds()
	if lo > hi {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("min value %.1f is above max value %.1f", lo, hi),
		}
	}
	return nil
}

// Request asks which value of one lever brings a plan's metric to target
type Request struct {
	Workspace   *domain.Workspace
	Plan        string
	Lever       domain.LeverID
	Metric      Metric
	Target      float64
	Constraints Constraints
}

// Result is the outcome of one break-even search
type Result struct {
	Plan   string         `json:"plan"`
	Lever  domain.LeverID `json:"-"`
	Metric Metric         `json:"metric"`
	Target float64        `json:"target"`

	LeverKey        string `json:"lever"`
	Success         bool   `json:"success"`
	AlreadyMet      bool   `json:"already_met"`
	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergence_info"`

	BaseValue      float64 `json:"base_value"`
	OptimalValue   float64 `json:"optimal_value"`
	Change         float64 `json:"change"`
	BaseMetric     float64 `json:"base_metric"`
	AchievedMetric float64 `json:"achieved_metric"`
}

// MultiResult collects one search per lever for the same target
type MultiResult struct {
	Plan            string   `json:"plan"`
	Metric          Metric   `json:"metric"`
	Target          float64  `json:"target"`
	Results         []Result `json:"results"`
	Best            *Result  `json:"best,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	// LeverTolerance stops the search once the bracket is this narrow
	LeverTolerance float64
	MaxIterations  int
	// Parallel caps concurrent lever searches in SolveAll; 0 means no cap
	Parallel int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		LeverTolerance: 0.1,
		MaxIterations:  50,
		Parallel:       4,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
