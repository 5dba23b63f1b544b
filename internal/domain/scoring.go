package domain

// QualityBand is the traffic-light judgement derived from a score
type QualityBand string

const (
	BandGreen QualityBand = "green"
	BandAmber QualityBand = "amber"
	BandRed   QualityBand = "red"
)

// QualityInputs feed the Quality Score. Nil fields are unknown.
type QualityInputs struct {
	LTVCAC        *float64 `json:"ltvCac,omitempty"`
	CACPayback    *float64 `json:"cacPayback,omitempty"`
	EarningsPower *float64 `json:"earningsPower,omitempty"`
	BurnQuality   *float64 `json:"burnQuality,omitempty"`
}

// QualityInputsFromMetrics takes all four inputs from a MetricState
func QualityInputsFromMetrics(m MetricState) QualityInputs {
	return QualityInputs{
		LTVCAC:        Float(m.LTVCAC),
		CACPayback:    Float(m.CACPayback),
		EarningsPower: Float(m.EarningsPower),
		BurnQuality:   Float(m.BurnQuality),
	}
}

// QualityScore is the 0-1 unit economics score
type QualityScore struct {
	Score      float64     `json:"score"`
	Band       QualityBand `json:"band"`
	Components struct {
		LTVCAC        float64 `json:"ltvCac"`
		CACPayback    float64 `json:"cacPayback"`
		EarningsPower float64 `json:"earningsPower"`
		BurnQuality   float64 `json:"burnQuality"`
	} `json:"components"`
}

// StructuralRiskIndex is the 0-100 fragility score (higher is more fragile)
type StructuralRiskIndex struct {
	Index           int         `json:"index"`
	VolatilityScore float64     `json:"volatilityScore"`
	ShockScore      float64     `json:"shockScore"`
	Band            QualityBand `json:"band"`
}

// Objectives are the targets a plan is judged against. Nil targets are unset.
type Objectives struct {
	RunwayMonths *float64 `yaml:"runway_months" json:"runwayMonths,omitempty"`
	Survival     *float64 `yaml:"survival" json:"survival,omitempty"` // percent
	EV           *float64 `yaml:"ev" json:"ev,omitempty"`
}

// ObjectiveGapComponent is the shortfall against one objective
type ObjectiveGapComponent struct {
	Name   string  `json:"name"`
	Target float64 `json:"target"`
	Actual float64 `json:"actual"`
	Gap    float64 `json:"gap"` // 0 met, 1 entirely missed
	Weight float64 `json:"weight"`
	Known  bool    `json:"known"`
}

// ObjectiveGap is the weighted 0-100 shortfall (0 means every objective met)
type ObjectiveGap struct {
	Score      int                     `json:"score"`
	Band       QualityBand             `json:"band"`
	Components []ObjectiveGapComponent `json:"components"`
}
