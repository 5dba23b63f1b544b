package transform

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// SetLever pins one lever to an absolute value. Out-of-range values are
// clamped to [0,100], matching how lever edits behave everywhere else.
type SetLever struct {
	Lever domain.LeverID
	Value float64
}

func (t *SetLever) Name() string { return "set_lever" }

func (t *SetLever) Description() string {
	return fmt.Sprintf("Set %s to %.0f", t.Lever.Info().Label, domain.ClampLever(t.Value))
}

func (t *SetLever) Validate(domain.ScenarioPlan) error {
	if !t.Lever.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("invalid lever %d", int(t.Lever)), nil)
	}
	if math.IsNaN(t.Value) {
		return NewTransformError(t.Name(), "validate", "value is not a number", nil)
	}
	return nil
}

func (t *SetLever) Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error) {
	base.Levers = base.Levers.With(t.Lever, t.Value)
	return base, nil
}

// ShiftLever moves one lever by a signed amount, clamped at the bounds
type ShiftLever struct {
	Lever domain.LeverID
	By    float64
}

func (t *ShiftLever) Name() string { return "shift_lever" }

func (t *ShiftLever) Description() string {
	return fmt.Sprintf("Shift %s by %+.0f", t.Lever.Info().Label, t.By)
}

func (t *ShiftLever) Validate(domain.ScenarioPlan) error {
	if !t.Lever.Valid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("invalid lever %d", int(t.Lever)), nil)
	}
	if math.IsNaN(t.By) {
		return NewTransformError(t.Name(), "validate", "shift is not a number", nil)
	}
	return nil
}

func (t *ShiftLever) Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error) {
	base.Levers = base.Levers.With(t.Lever, base.Levers.Get(t.Lever)+t.By)
	return base, nil
}

// SetScenario swaps the scenario multiplier set
type SetScenario struct {
	Scenario domain.ScenarioID
}

func (t *SetScenario) Name() string { return "set_scenario" }

func (t *SetScenario) Description() string {
	return fmt.Sprintf("Use the %s scenario", t.Scenario)
}

func (t *SetScenario) Validate(domain.ScenarioPlan) error {
	if _, err := domain.ParseScenarioID(string(t.Scenario)); err != nil {
		return NewTransformError(t.Name(), "validate", "unknown scenario", err)
	}
	return nil
}

func (t *SetScenario) Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error) {
	id, err := domain.ParseScenarioID(string(t.Scenario))
	if err != nil {
		return base, err
	}
	base.Scenario = id
	return base, nil
}

// SetRamp changes how quickly the plan's levers take effect
type SetRamp struct {
	Ramp domain.RampType
}

func (t *SetRamp) Name() string { return "set_ramp" }

func (t *SetRamp) Description() string {
	return fmt.Sprintf("Ramp in over %s", t.Ramp)
}

func (t *SetRamp) Validate(domain.ScenarioPlan) error {
	if _, err := domain.ParseRampType(string(t.Ramp)); err != nil {
		return NewTransformError(t.Name(), "validate", "unknown ramp", err)
	}
	return nil
}

func (t *SetRamp) Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error) {
	ramp, err := domain.ParseRampType(string(t.Ramp))
	if err != nil {
		return base, err
	}
	base.Ramp = ramp
	return base, nil
}

// Rename gives the transformed plan a new name so it can sit next to the
// original in a workspace
type Rename struct {
	NewName string
}

func (t *Rename) Name() string { return "rename" }

func (t *Rename) Description() string { return fmt.Sprintf("Rename to %q", t.NewName) }

func (t *Rename) Validate(domain.ScenarioPlan) error {
	if t.NewName == "" {
		return NewTransformError(t.Name(), "validate", "name cannot be empty", nil)
	}
	return nil
}

func (t *Rename) Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error) {
	base.Name = t.NewName
	return base, nil
}
