package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func createTestPlan() domain.ScenarioPlan {
	return domain.ScenarioPlan{
		Name:     "status quo",
		Scenario: domain.ScenarioBase,
		Ramp:     domain.RampImmediate,
		Levers:   domain.DefaultLevers(),
	}
}

func TestApplyTransforms_Empty(t *testing.T) {
	base := createTestPlan()
	got, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestApplyTransforms_Sequence(t *testing.T) {
	base := createTestPlan()
	got, err := ApplyTransforms(base, []PlanTransform{
		&SetLever{Lever: domain.LeverHiringIntensity, Value: 80},
		&ShiftLever{Lever: domain.LeverHiringIntensity, By: -15},
		&ShiftLever{Lever: domain.LeverCostDiscipline, By: 70},
		&SetScenario{Scenario: domain.ScenarioDownside},
		&SetRamp{Ramp: domain.Ramp12Months},
		&Rename{NewName: "cautious"},
	})
	require.NoError(t, err)

	assert.Equal(t, 65.0, got.Levers.Get(domain.LeverHiringIntensity))
	assert.Equal(t, domain.LeverMax, got.Levers.Get(domain.LeverCostDiscipline))
	assert.Equal(t, domain.ScenarioDownside, got.Scenario)
	assert.Equal(t, domain.Ramp12Months, got.Ramp)
	assert.Equal(t, "cautious", got.Name)

	// the base plan is a value and stays untouched
	assert.Equal(t, createTestPlan(), base)
}

func TestApplyTransforms_Errors(t *testing.T) {
	base := createTestPlan()

	_, err := ApplyTransforms(base, []PlanTransform{nil})
	assert.Error(t, err)

	got, err := ApplyTransforms(base, []PlanTransform{
		&SetLever{Lever: domain.LeverPricingPower, Value: 90},
		&Rename{},
	})
	require.Error(t, err)
	var te *TransformError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "rename", te.TransformName)
	assert.Equal(t, base, got, "a failed sequence returns the base plan")

	_, err = ApplyTransforms(base, []PlanTransform{&SetLever{Lever: domain.LeverCount, Value: 1}})
	assert.Error(t, err)
	_, err = ApplyTransforms(base, []PlanTransform{&SetScenario{Scenario: "moonshot"}})
	assert.Error(t, err)
}

func TestSetLever_Clamps(t *testing.T) {
	got, err := (&SetLever{Lever: domain.LeverDemandStrength, Value: 140}).Apply(createTestPlan())
	require.NoError(t, err)
	assert.Equal(t, domain.LeverMax, got.Levers.Get(domain.LeverDemandStrength))
	assert.Equal(t, "Set Demand Strength to 100", (&SetLever{Lever: domain.LeverDemandStrength, Value: 140}).Description())
}

func TestDescribe(t *testing.T) {
	got := Describe([]PlanTransform{
		&ShiftLever{Lever: domain.LeverHiringIntensity, By: -10},
		&SetRamp{Ramp: domain.Ramp6Months},
	})
	assert.Equal(t, []string{"Shift Hiring Intensity by -10", "Ramp in over 6mo"}, got)
}

func TestRegistry_List(t *testing.T) {
	assert.Equal(t,
		[]string{"rename", "set_lever", "set_ramp", "set_scenario", "shift_lever"},
		NewTransformRegistry().List())
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	r := NewTransformRegistry()

	tests := []struct {
		spec string
		want PlanTransform
	}{
		{"set_lever:lever=pricing_power,value=70", &SetLever{Lever: domain.LeverPricingPower, Value: 70}},
		{"shift_lever: lever = Hiring Intensity , by = -10", &ShiftLever{Lever: domain.LeverHiringIntensity, By: -10}},
		{"set_scenario:scenario=extreme", &SetScenario{Scenario: domain.ScenarioStress}},
		{"set_ramp:ramp=6", &SetRamp{Ramp: domain.Ramp6Months}},
		{"rename:name=lean", &Rename{NewName: "lean"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := r.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ParseTransformSpecErrors(t *testing.T) {
	r := NewTransformRegistry()
	for _, spec := range []string{
		"set_lever",
		"unknown:x=1",
		"set_lever:lever=pricing_power",
		"set_lever:lever=charisma,value=3",
		"set_lever:lever=pricing_power,value=lots",
		"shift_lever:lever=pricing_power,by",
		"set_scenario:scenario=moonshot",
		"set_ramp:ramp=3mo",
		"rename:title=x",
	} {
		_, err := r.ParseTransformSpec(spec)
		assert.Error(t, err, spec)
	}
}

func TestRegistry_ParseAll(t *testing.T) {
	got, err := NewTransformRegistry().ParseAll([]string{
		"cost_discipline=80",
		"set_scenario:scenario=upside",
	})
	require.NoError(t, err)
	assert.Equal(t, []PlanTransform{
		&SetLever{Lever: domain.LeverCostDiscipline, Value: 80},
		&SetScenario{Scenario: domain.ScenarioUpside},
	}, got)

	_, err = NewTransformRegistry().ParseAll([]string{"cost_discipline"})
	assert.Error(t, err)
}
