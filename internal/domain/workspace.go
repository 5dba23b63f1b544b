package domain

import "fmt"

// Simulation defaults used when a workspace leaves them unset
const (
	DefaultIterations = 2000
)

// ScenarioPlan is a named lever set evaluated under a scenario and ramp
type ScenarioPlan struct {
	Name     string     `yaml:"name" json:"name"`
	Scenario ScenarioID `yaml:"scenario" json:"scenario"`
	Ramp     RampType   `yaml:"ramp" json:"ramp"`
	Levers   LeverState `yaml:"levers" json:"levers"`
}

// SimulationSettings are the per-workspace Monte Carlo parameters
type SimulationSettings struct {
	Iterations    int    `yaml:"iterations" json:"iterations"`
	HorizonMonths int    `yaml:"horizon_months" json:"horizonMonths"`
	Seed          uint64 `yaml:"seed" json:"seed"`
}

// Workspace is a validated planning file: the company's position, its
// reference lever set and the plans being compared against it.
type Workspace struct {
	Name           string             `json:"name"`
	Baseline       BaselineMetrics    `json:"baseline"`
	BaselineLevers LeverState         `json:"baselineLevers"`
	Scenarios      []ScenarioPlan     `json:"scenarios"`
	Simulation     SimulationSettings `json:"simulation"`
	Objectives     Objectives         `json:"objectives"`
	Thresholds     []Threshold        `json:"thresholds"`
}

// DefaultWorkspace is a single base-case plan over the default baseline
func DefaultWorkspace() *Workspace {
	return &Workspace{
		Name:           "default",
		Baseline:       DefaultBaseline(),
		BaselineLevers: DefaultLevers(),
		Scenarios: []ScenarioPlan{{
			Name:     "base",
			Scenario: ScenarioBase,
			Ramp:     RampImmediate,
			Levers:   DefaultLevers(),
		}},
		Simulation: SimulationSettings{
			Iterations:    DefaultIterations,
			HorizonMonths: DefaultHorizon,
		},
		Thresholds: DefaultValuationThresholds(),
	}
}

// Plan returns the named scenario plan; an empty name selects the first
func (w *Workspace) Plan(name string) (ScenarioPlan, error) {
	if len(w.Scenarios) == 0 {
		return ScenarioPlan{}, fmt.Errorf("workspace %q has no scenarios", w.Name)
	}
	if name == "" {
		return w.Scenarios[0], nil
	}
	for _, p := range w.Scenarios {
		if p.Name == name {
			return p, nil
		}
	}
	return ScenarioPlan{}, fmt.Errorf("scenario %q not found in workspace %q", name, w.Name)
}

// PlanNames lists the scenario plan names in file order
func (w *Workspace) PlanNames() []string {
	names := make([]string, len(w.Scenarios))
	for i, p := range w.Scenarios {
		names[i] = p.Name
	}
	return names
}

// SimulationConfig builds the run config from the baseline and settings
func (w *Workspace) SimulationConfig() SimulationConfig {
	cfg := SimulationConfigFromBaseline(w.Baseline, w.Simulation.Iterations, w.Simulation.HorizonMonths)
	cfg.Seed = w.Simulation.Seed
	return cfg.Normalized()
}
