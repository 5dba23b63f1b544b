package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)
}

func TestLoadSettings_File(t *testing.T) {
	s, err := LoadSettings(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 800, s.Iterations)
	assert.Equal(t, 36, s.HorizonMonths)
	assert.Equal(t, 200, s.ChunkSize)
	assert.Equal(t, 250*time.Millisecond, s.Debounce)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, DefaultLogMaxBackups, s.LogMaxBackups)
}

func TestLoadSettings_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("RUNWAYSIM_ITERATIONS", "1200")
	t.Setenv("RUNWAYSIM_SEED", "99")
	t.Setenv("RUNWAYSIM_DEBOUNCE", "1s")

	s, err := LoadSettings(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1200, s.Iterations)
	assert.Equal(t, uint64(99), s.Seed)
	assert.Equal(t, time.Second, s.Debounce)
	assert.Equal(t, 36, s.HorizonMonths)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"RUNWAYSIM_ITERATIONS", "0"},
		{"RUNWAYSIM_HORIZON_MONTHS", "500"},
		{"RUNWAYSIM_CHUNK_SIZE", "-1"},
		{"RUNWAYSIM_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := LoadSettings("")
			assert.Error(t, err)
		})
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join("testdata", "absent.yaml"))
	assert.Error(t, err)
}

func TestSettings_SimulationDefaults(t *testing.T) {
	s := DefaultSettings()
	s.Seed = 5
	d := s.SimulationDefaults()
	assert.Equal(t, s.Iterations, d.Iterations)
	assert.Equal(t, s.HorizonMonths, d.HorizonMonths)
	assert.Equal(t, uint64(5), d.Seed)
}
