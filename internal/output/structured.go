package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/runwaysim/internal/report"
)

// JSONFormatter renders the reports as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(reports []*report.SimulationReport) ([]byte, error) {
	return json.MarshalIndent(struct {
		Reports []*report.SimulationReport `json:"reports"`
	}{reports}, "", "  ")
}

// YAMLFormatter renders the reports as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(reports []*report.SimulationReport) ([]byte, error) {
	return yaml.Marshal(struct {
		Reports []*report.SimulationReport `yaml:"reports"`
	}{reports})
}
