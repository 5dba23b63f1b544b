package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

// exampleWorkspace writes the starter workspace into a temp dir and returns
// its path
func exampleWorkspace(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	_, err := execute(t, "init")
	require.NoError(t, err)
	return "workspace.yaml"
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "runwaysim", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "simulate")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"calculate", "simulate", "summarize", "score", "compare",
		"breakeven", "dashboard", "validate", "init", "version",
	}
	cmd := newRootCmd()
	for _, name := range expected {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "runwaysim dev")
}

func TestInitAndValidate(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (4 plans")
	assert.Contains(t, out, "status quo")

	// init refuses to overwrite
	_, err = execute(t, "init", path)
	assert.Error(t, err)
}

func TestValidate_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "validate", filepath.Join("nope", "missing.yaml"))
	assert.Error(t, err)
}

func TestCalculateCommand_JSON(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "calculate", path, "--scenario", "lean growth", "-f", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
	assert.Contains(t, out, "lean growth")
	assert.NotContains(t, out, "market downturn")
}

func TestCalculateCommand_Overrides(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "calculate", path, "--scenario", "status quo", "-f", "json",
		"--set", "cost_discipline=80", "--set", "set_scenario:scenario=upside")
	require.NoError(t, err)
	assert.Contains(t, out, `"cost_discipline": 80`)
	assert.Contains(t, out, `"scenario": "upside"`)

	_, err = execute(t, "calculate", path, "--set", "charisma=80")
	assert.Error(t, err)
}

func TestCalculateCommand_UnknownFormat(t *testing.T) {
	path := exampleWorkspace(t)

	_, err := execute(t, "calculate", path, "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "pdf"`)
}

func TestCalculateCommand_UnknownPlan(t *testing.T) {
	path := exampleWorkspace(t)

	_, err := execute(t, "calculate", path, "--scenario", "moonshot")
	assert.Error(t, err)
}

func TestSimulateCommand(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "simulate", path, "--scenario", "status quo", "-n", "50", "--horizon", "12", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "status quo")
	assert.Contains(t, out, "simulated samples")

	again, err := execute(t, "simulate", path, "--scenario", "status quo", "-n", "50", "--horizon", "12", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, withoutTimestamp(out), withoutTimestamp(again), "a fixed seed reproduces the report")
}

func withoutTimestamp(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "Generated:") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func TestSummarizeCommand_Percentiles(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "summarize", "--p10", "8e6", "--p50", "20e6", "--p90", "45e6")
	require.NoError(t, err)
	assert.Contains(t, out, "VALUATION (assumed uncertainty)")
	assert.Contains(t, out, "p50 $20.00M")
}

func TestSummarizeCommand_SingleEV(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "summarize", "--ev", "10e6")
	require.NoError(t, err)
	assert.Contains(t, out, "p50 $10.00M")
}

func TestSummarizeCommand_NoInput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "summarize")
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "STRUCTURAL RISK")
	assert.Contains(t, out, "market downturn")
	assert.Contains(t, out, "point estimate")
	assert.NotContains(t, out, "simulation\n")

	out, err = execute(t, "score", path, "--scenario", "status quo", "--simulate", "-n", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "status quo")
	assert.Contains(t, out, "simulation")
}

func TestCompareCommand(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "compare", path, "--base", "status quo", "--with", "lean growth,market downturn", "-n", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "status quo")
	assert.Contains(t, out, "lean growth")
	assert.Contains(t, out, "market downturn")

	out, err = execute(t, "compare", path, "--with", "lean growth", "-n", "50", "-f", "json", "--max-parallel", "1")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "status quo", decoded["baseScenarioName"])
	assert.Equal(t, path, decoded["configPath"])

	_, err = execute(t, "compare", path, "-f", "xml", "-n", "50")
	assert.Error(t, err)
}

func TestBreakevenCommand(t *testing.T) {
	path := exampleWorkspace(t)

	out, err := execute(t, "breakeven", path, "--metric", "runway", "--target", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN BY LEVER")
	assert.Contains(t, out, "Smallest Move:")

	out, err = execute(t, "breakeven", path, "--lever", "cost_discipline", "--target", "24", "-f", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "cost_discipline", decoded["lever"])

	_, err = execute(t, "breakeven", path, "--metric", "runway")
	assert.Error(t, err, "target is required")

	_, err = execute(t, "breakeven", path, "--metric", "happiness", "--target", "1")
	assert.Error(t, err)
}

func TestDashboardCommand_BadSlot(t *testing.T) {
	path := exampleWorkspace(t)

	_, err := execute(t, "dashboard", path, "--slot", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown slot "c"`)
}
