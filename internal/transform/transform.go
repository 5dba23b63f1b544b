package transform

import (
	"fmt"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// PlanTransform is a composable edit of a scenario plan. Transforms drive
// --set overrides on the CLI and the break-even solver's lever probes.
type PlanTransform interface {
	// Apply returns a modified copy of base. ScenarioPlan is a value type, so
	// base itself is never touched.
	Apply(base domain.ScenarioPlan) (domain.ScenarioPlan, error)

	// Name returns a short identifier such as "set_lever".
	Name() string

	// Description returns a human-readable summary of the edit.
	Description() string

	// Validate checks the transform parameters against base without applying.
	Validate(base domain.ScenarioPlan) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one.
func ApplyTransforms(base domain.ScenarioPlan, transforms []PlanTransform) (domain.ScenarioPlan, error) {
	current := base
	for i, t := range transforms {
		if t == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Describe lists the descriptions of transforms, in order
func Describe(transforms []PlanTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		out = append(out, t.Description())
	}
	return out
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
