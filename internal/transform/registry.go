package transform

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// TransformRegistry creates transforms from string parameters, for the CLI
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PlanTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_lever", createSetLever)
	registry.Register("shift_lever", createShiftLever)
	registry.Register("set_scenario", createSetScenario)
	registry.Register("set_ramp", createSetRamp)
	registry.Register("rename", createRename)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PlanTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the registered transform names, sorted
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "shift_lever:lever=hiring_intensity,by=-10"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PlanTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseLeverAssignment turns the "lever=value" shorthand into a SetLever
func ParseLeverAssignment(s string) (PlanTransform, error) {
	kv := strings.SplitN(s, "=", 2)
	if len(kv) != 2 {
		return nil, fmt.Errorf("invalid lever assignment, expected 'lever=value', got: %s", s)
	}
	return createSetLever(map[string]string{"lever": kv[0], "value": kv[1]})
}

// ParseAll parses each spec: full "name:params" specs, or the "lever=value"
// shorthand when there is no colon
func (r *TransformRegistry) ParseAll(specs []string) ([]PlanTransform, error) {
	out := make([]PlanTransform, 0, len(specs))
	for _, spec := range specs {
		var (
			t   PlanTransform
			err error
		)
		if strings.Contains(spec, ":") {
			t, err = r.ParseTransformSpec(spec)
		} else {
			t, err = ParseLeverAssignment(spec)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func leverParam(name string, params map[string]string) (domain.LeverID, error) {
	raw, ok := params["lever"]
	if !ok {
		return 0, fmt.Errorf("%s requires 'lever' parameter", name)
	}
	return domain.ParseLeverID(strings.TrimSpace(raw))
}

func floatParam(name, key string, params map[string]string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", name, key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createSetLever(params map[string]string) (PlanTransform, error) {
	lever, err := leverParam("set_lever", params)
	if err != nil {
		return nil, err
	}
	value, err := floatParam("set_lever", "value", params)
	if err != nil {
		return nil, err
	}
	return &SetLever{Lever: lever, Value: value}, nil
}

func createShiftLever(params map[string]string) (PlanTransform, error) {
	lever, err := leverParam("shift_lever", params)
	if err != nil {
		return nil, err
	}
	by, err := floatParam("shift_lever", "by", params)
	if err != nil {
		return nil, err
	}
	return &ShiftLever{Lever: lever, By: by}, nil
}

func createSetScenario(params map[string]string) (PlanTransform, error) {
	raw, ok := params["scenario"]
	if !ok {
		return nil, fmt.Errorf("set_scenario requires 'scenario' parameter")
	}
	id, err := domain.ParseScenarioID(raw)
	if err != nil {
		return nil, err
	}
	return &SetScenario{Scenario: id}, nil
}

func createSetRamp(params map[string]string) (PlanTransform, error) {
	raw, ok := params["ramp"]
	if !ok {
		return nil, fmt.Errorf("set_ramp requires 'ramp' parameter")
	}
	ramp, err := domain.ParseRampType(raw)
	if err != nil {
		return nil, err
	}
	return &SetRamp{Ramp: ramp}, nil
}

func createRename(params map[string]string) (PlanTransform, error) {
	name, ok := params["name"]
	if !ok {
		return nil, fmt.Errorf("rename requires 'name' parameter")
	}
	return &Rename{NewName: name}, nil
}
