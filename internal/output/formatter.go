// Package output renders simulation reports in the supported formats.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/runwaysim/internal/report"
)

// Formatter renders a set of plan reports
type Formatter interface {
	Name() string
	Format(reports []*report.SimulationReport) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(reports []*report.SimulationReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(reports []*report.SimulationReport) ([]byte, error) {
	return f.F(reports)
}

var registry = map[string]Formatter{}

var aliases = map[string]string{
	"verbose": "console",
	"text":    "console",
	"summary": "console-lite",
	"yml":     "yaml",
}

func register(f Formatter) {
	registry[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleLiteFormatter{})
	register(CSVSummarizer{})
	register(SurvivalCurveCSV{})
	register(JSONFormatter{})
	register(YAMLFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter registered under name or alias, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return registry[name]
}

// AvailableFormatterNames lists the registered formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	out := make([]string, 0, len(aliases))
	for a := range aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// WriteFormatted renders reports and writes them to a timestamped file in
// the working directory, returning the file name.
func WriteFormatted(f Formatter, reports []*report.SimulationReport, ext string) (string, error) {
	data, err := f.Format(reports)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("runway_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// Extension returns the file extension conventionally used for a formatter
func Extension(name string) string {
	switch name {
	case "csv", "survival-csv":
		return "csv"
	case "json":
		return "json"
	case "yaml":
		return "yaml"
	case "html":
		return "html"
	}
	return "txt"
}
