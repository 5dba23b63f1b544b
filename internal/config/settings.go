package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// EnvPrefix is prepended to every settings key read from the environment
const EnvPrefix = "RUNWAYSIM"

// Settings are application-level knobs, independent of any workspace
type Settings struct {
	Iterations    int           `mapstructure:"iterations"`
	HorizonMonths int           `mapstructure:"horizon_months"`
	Seed          uint64        `mapstructure:"seed"`
	ChunkSize     int           `mapstructure:"chunk_size"`
	Debounce      time.Duration `mapstructure:"debounce"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	LogMaxSizeMB  int           `mapstructure:"log_max_size_mb"`
	LogMaxBackups int           `mapstructure:"log_max_backups"`
	LogMaxAgeDays int           `mapstructure:"log_max_age_days"`
}

const (
	DefaultChunkSize     = 500
	DefaultDebounce      = 500 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
)

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		Iterations:    domain.DefaultIterations,
		HorizonMonths: domain.DefaultHorizon,
		ChunkSize:     DefaultChunkSize,
		Debounce:      DefaultDebounce,
		LogLevel:      DefaultLogLevel,
		LogMaxSizeMB:  DefaultLogMaxSizeMB,
		LogMaxBackups: DefaultLogMaxBackups,
		LogMaxAgeDays: DefaultLogMaxAgeDays,
	}
}

// LoadSettings reads settings from defaults, an optional file, a .env file in
// the working directory and RUNWAYSIM_* environment variables, in increasing
// order of precedence. An empty path skips the file.
func LoadSettings(path string) (*Settings, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	d := DefaultSettings()
	defaults := map[string]interface{}{
		"iterations":       d.Iterations,
		"horizon_months":   d.HorizonMonths,
		"seed":             d.Seed,
		"chunk_size":       d.ChunkSize,
		"debounce":         d.Debounce,
		"log_level":        d.LogLevel,
		"log_file":         d.LogFile,
		"log_max_size_mb":  d.LogMaxSizeMB,
		"log_max_backups":  d.LogMaxBackups,
		"log_max_age_days": d.LogMaxAgeDays,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, validateSettings(&s)
}

func validateSettings(s *Settings) error {
	if s.Iterations < domain.MinIterations || s.Iterations > domain.MaxIterations {
		return fmt.Errorf("invalid iterations %d (allowed 1..%d)", s.Iterations, domain.MaxIterations)
	}
	if s.HorizonMonths < domain.MinHorizon || s.HorizonMonths > domain.MaxHorizon {
		return fmt.Errorf("invalid horizon_months %d (allowed 1..%d)", s.HorizonMonths, domain.MaxHorizon)
	}
	if s.ChunkSize <= 0 {
		return errors.New("invalid chunk_size")
	}
	if s.Debounce < 0 {
		return errors.New("invalid debounce")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", s.LogLevel)
	}
	if s.LogMaxSizeMB < 0 || s.LogMaxBackups < 0 || s.LogMaxAgeDays < 0 {
		return errors.New("invalid log rotation limits")
	}
	return nil
}

// SimulationDefaults are the values a workspace file falls back to
func (s *Settings) SimulationDefaults() domain.SimulationSettings {
	return domain.SimulationSettings{
		Iterations:    s.Iterations,
		HorizonMonths: s.HorizonMonths,
		Seed:          s.Seed,
	}
}
