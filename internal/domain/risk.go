package domain

// VolatilityModel is the set of stochastic parameters a lever state implies.
// The Monte Carlo engine draws from it and the Structural Risk Index scores it.
type VolatilityModel struct {
	GrowthDrift       float64 `json:"growthDrift"`       // mean monthly ARR growth
	BurnDrift         float64 `json:"burnDrift"`         // mean monthly burn change
	RevenueVolatility float64 `json:"revenueVolatility"` // monthly sd of ARR growth
	BurnVolatility    float64 `json:"burnVolatility"`    // monthly sd of burn change
	ChurnVolatility   float64 `json:"churnVolatility"`   // monthly sd of churn
	BaseChurn         float64 `json:"baseChurn"`
	ShockProbability  float64 `json:"shockProbability"` // per month
	ShockSeverityMin  float64 `json:"shockSeverityMin"` // fraction of ARR lost
	ShockSeverityMax  float64 `json:"shockSeverityMax"`
	FundingPressure   float64 `json:"fundingPressure"` // 0-1
}

// ElasticityParams are the observed inputs of the Structural Risk Index.
// Nil fields are unknown and score as neutral.
type ElasticityParams struct {
	RevenueVolatility *float64 `json:"revenueVolatility,omitempty"`
	BurnVolatility    *float64 `json:"burnVolatility,omitempty"`
	ChurnVolatility   *float64 `json:"churnVolatility,omitempty"`
	ShockProbability  *float64 `json:"shockProbability,omitempty"`
	ShockSeverity     *float64 `json:"shockSeverity,omitempty"`
	FundingPressure   *float64 `json:"fundingPressure,omitempty"`
}

// Elasticity exposes the model as Structural Risk Index inputs
func (v VolatilityModel) Elasticity() ElasticityParams {
	severity := (v.ShockSeverityMin + v.ShockSeverityMax) / 2
	return ElasticityParams{
		RevenueVolatility: Float(v.RevenueVolatility),
		BurnVolatility:    Float(v.BurnVolatility),
		ChurnVolatility:   Float(v.ChurnVolatility),
		ShockProbability:  Float(v.ShockProbability),
		ShockSeverity:     Float(severity),
		FundingPressure:   Float(v.FundingPressure),
	}
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
