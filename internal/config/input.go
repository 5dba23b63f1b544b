package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// WorkspaceFile is the on-disk YAML form of a planning workspace
type WorkspaceFile struct {
	Name           string             `yaml:"name"`
	Baseline       BaselineFile       `yaml:"baseline"`
	BaselineLevers map[string]float64 `yaml:"baseline_levers"`
	Scenarios      []ScenarioFile     `yaml:"scenarios"`
	Simulation     SimulationFile     `yaml:"simulation"`
	Objectives     ObjectivesFile     `yaml:"objectives"`
	Thresholds     []ThresholdFile    `yaml:"valuation_thresholds"`
}

// BaselineFile holds the company's current position. Money is decimal so
// file values round-trip exactly; omitted fields take the default baseline.
type BaselineFile struct {
	Cash        *decimal.Decimal `yaml:"cash"`
	MonthlyBurn *decimal.Decimal `yaml:"monthly_burn"`
	ARR         *decimal.Decimal `yaml:"arr"`
	GrowthRate  *decimal.Decimal `yaml:"growth_rate"`
	ARRMultiple *decimal.Decimal `yaml:"arr_multiple"`
}

// ScenarioFile is one named plan. Levers not listed inherit the baseline levers.
type ScenarioFile struct {
	Name     string             `yaml:"name"`
	Scenario string             `yaml:"scenario"`
	Ramp     string             `yaml:"ramp"`
	Levers   map[string]float64 `yaml:"levers"`
}

// SimulationFile holds Monte Carlo parameters; zero values take defaults
type SimulationFile struct {
	Iterations    int    `yaml:"iterations"`
	HorizonMonths int    `yaml:"horizon_months"`
	Seed          uint64 `yaml:"seed"`
}

// ObjectivesFile holds the optional plan targets
type ObjectivesFile struct {
	RunwayMonths *float64         `yaml:"runway_months"`
	Survival     *float64         `yaml:"survival"`
	EV           *decimal.Decimal `yaml:"ev"`
}

// ThresholdFile is a valuation probability question
type ThresholdFile struct {
	Label     string          `yaml:"label"`
	Value     decimal.Decimal `yaml:"value"`
	Direction string          `yaml:"direction"`
}

// InputParser handles parsing of workspace files
type InputParser struct {
	defaults domain.SimulationSettings
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{defaults: domain.DefaultWorkspace().Simulation}
}

// WithSimulationDefaults sets the simulation values used when a file omits them
func (ip *InputParser) WithSimulationDefaults(s domain.SimulationSettings) *InputParser {
	if s.Iterations > 0 {
		ip.defaults.Iterations = s.Iterations
	}
	if s.HorizonMonths > 0 {
		ip.defaults.HorizonMonths = s.HorizonMonths
	}
	ip.defaults.Seed = s.Seed
	return ip
}

// LoadFromFile loads and validates a workspace from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Workspace, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a workspace document
func (ip *InputParser) Parse(data []byte) (*domain.Workspace, error) {
	var file WorkspaceFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateWorkspaceFile(&file); err != nil {
		return nil, fmt.Errorf("workspace validation failed: %w", err)
	}
	return ip.Resolve(&file)
}

// ValidateWorkspaceFile checks values that cannot be repaired by clamping
func (ip *InputParser) ValidateWorkspaceFile(file *WorkspaceFile) error {
	if err := ip.validateBaseline(&file.Baseline); err != nil {
		return fmt.Errorf("baseline validation failed: %w", err)
	}
	if err := validateLeverNames(file.BaselineLevers); err != nil {
		return fmt.Errorf("baseline levers: %w", err)
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if err := ip.validateScenario(&s); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
	}

	if err := ip.validateSimulation(&file.Simulation); err != nil {
		return fmt.Errorf("simulation validation failed: %w", err)
	}
	if err := ip.validateObjectives(&file.Objectives); err != nil {
		return fmt.Errorf("objectives validation failed: %w", err)
	}
	for i, t := range file.Thresholds {
		if err := ip.validateThreshold(&t); err != nil {
			return fmt.Errorf("valuation threshold %d validation failed: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateBaseline(b *BaselineFile) error {
	if b.Cash != nil && b.Cash.LessThan(decimal.Zero) {
		return fmt.Errorf("cash cannot be negative")
	}
	if b.MonthlyBurn != nil && b.MonthlyBurn.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly burn cannot be negative")
	}
	if b.ARR != nil && b.ARR.LessThan(decimal.Zero) {
		return fmt.Errorf("ARR cannot be negative")
	}
	if b.GrowthRate != nil && (b.GrowthRate.LessThan(decimal.NewFromFloat(domain.GrowthMin)) || b.GrowthRate.GreaterThan(decimal.NewFromFloat(domain.GrowthMax))) {
		return fmt.Errorf("growth rate must be between %.1f and %.1f", domain.GrowthMin, domain.GrowthMax)
	}
	if b.ARRMultiple != nil && b.ARRMultiple.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("ARR multiple must be positive")
	}
	return nil
}

func (ip *InputParser) validateScenario(s *ScenarioFile) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := domain.ParseScenarioID(s.Scenario); err != nil {
		return err
	}
	if _, err := domain.ParseRampType(s.Ramp); err != nil {
		return err
	}
	return validateLeverNames(s.Levers)
}

func (ip *InputParser) validateSimulation(s *SimulationFile) error {
	if s.Iterations < 0 || s.Iterations > domain.MaxIterations {
		return fmt.Errorf("iterations must be between 1 and %d", domain.MaxIterations)
	}
	if s.HorizonMonths < 0 || s.HorizonMonths > domain.MaxHorizon {
		return fmt.Errorf("horizon months must be between 1 and %d", domain.MaxHorizon)
	}
	return nil
}

func (ip *InputParser) validateObjectives(o *ObjectivesFile) error {
	if o.RunwayMonths != nil && (*o.RunwayMonths <= 0 || *o.RunwayMonths > domain.RunwayMax) {
		return fmt.Errorf("runway objective must be in (0, %.0f] months", domain.RunwayMax)
	}
	if o.Survival != nil && (*o.Survival <= 0 || *o.Survival > 100) {
		return fmt.Errorf("survival objective must be in (0, 100] percent")
	}
	if o.EV != nil && o.EV.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("EV objective must be positive")
	}
	return nil
}

func (ip *InputParser) validateThreshold(t *ThresholdFile) error {
	if t.Value.LessThan(decimal.Zero) {
		return fmt.Errorf("value cannot be negative")
	}
	if _, err := domain.ParseThresholdDirection(t.Direction); err != nil {
		return err
	}
	return nil
}

func validateLeverNames(levers map[string]float64) error {
	for name := range levers {
		if _, err := domain.ParseLeverID(name); err != nil {
			return err
		}
	}
	return nil
}

// Resolve converts a validated file into a workspace, applying defaults.
// Lever values outside [0,100] are clamped.
func (ip *InputParser) Resolve(file *WorkspaceFile) (*domain.Workspace, error) {
	ws := domain.DefaultWorkspace()
	if file.Name != "" {
		ws.Name = file.Name
	}

	setFloat(&ws.Baseline.Cash, file.Baseline.Cash)
	setFloat(&ws.Baseline.MonthlyBurn, file.Baseline.MonthlyBurn)
	setFloat(&ws.Baseline.ARR, file.Baseline.ARR)
	setFloat(&ws.Baseline.GrowthRate, file.Baseline.GrowthRate)
	setFloat(&ws.Baseline.ARRMultiple, file.Baseline.ARRMultiple)

	baseLevers, err := domain.LeverStateFromMap(domain.DefaultLevers(), file.BaselineLevers)
	if err != nil {
		return nil, fmt.Errorf("baseline levers: %w", err)
	}
	ws.BaselineLevers = baseLevers

	if len(file.Scenarios) > 0 {
		ws.Scenarios = make([]domain.ScenarioPlan, 0, len(file.Scenarios))
	} else {
		ws.Scenarios[0].Levers = baseLevers
	}
	for _, s := range file.Scenarios {
		scenario, err := domain.ParseScenarioID(s.Scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		ramp, err := domain.ParseRampType(s.Ramp)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		levers, err := domain.LeverStateFromMap(baseLevers, s.Levers)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		ws.Scenarios = append(ws.Scenarios, domain.ScenarioPlan{
			Name:     strings.TrimSpace(s.Name),
			Scenario: scenario,
			Ramp:     ramp,
			Levers:   levers,
		})
	}

	ws.Simulation = ip.defaults
	if file.Simulation.Iterations > 0 {
		ws.Simulation.Iterations = file.Simulation.Iterations
	}
	if file.Simulation.HorizonMonths > 0 {
		ws.Simulation.HorizonMonths = file.Simulation.HorizonMonths
	}
	if file.Simulation.Seed != 0 {
		ws.Simulation.Seed = file.Simulation.Seed
	}

	ws.Objectives = domain.Objectives{
		RunwayMonths: file.Objectives.RunwayMonths,
		Survival:     file.Objectives.Survival,
	}
	if file.Objectives.EV != nil {
		ws.Objectives.EV = domain.Float(file.Objectives.EV.InexactFloat64())
	}

	if len(file.Thresholds) > 0 {
		ws.Thresholds = make([]domain.Threshold, 0, len(file.Thresholds))
		for _, t := range file.Thresholds {
			dir, err := domain.ParseThresholdDirection(t.Direction)
			if err != nil {
				return nil, err
			}
			label := t.Label
			if label == "" {
				label = thresholdLabel(dir, t.Value)
			}
			ws.Thresholds = append(ws.Thresholds, domain.Threshold{
				Label:     label,
				Value:     t.Value.InexactFloat64(),
				Direction: dir,
			})
		}
	}
	return ws, nil
}

func setFloat(dst *float64, v *decimal.Decimal) {
	if v != nil {
		*dst = v.InexactFloat64()
	}
}

func thresholdLabel(dir domain.ThresholdDirection, value decimal.Decimal) string {
	op := "≥"
	if dir == domain.ThresholdLE {
		op = "≤"
	}
	millions := value.Div(decimal.NewFromInt(1_000_000))
	return fmt.Sprintf("EV %s $%sM", op, millions.StringFixedBank(1))
}
